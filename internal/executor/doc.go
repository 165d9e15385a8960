// Package executor schedules workspace commands over the dependency graph.
//
// Execution is batched: the graph's parallel batches run strictly in order,
// and within a batch every task runs concurrently under a configured
// concurrency ceiling. A batch always settles completely — siblings of a
// failing task are never cancelled — and only then does a failure abort the
// run, before any later batch starts.
//
// Task failures are data, not panics: each (workspace, command) execution
// produces exactly one TaskResult, and a failing batch surfaces as a
// RunError naming the failed workspaces.
package executor
