// Package graph builds and queries the workspace dependency graph.
//
// The graph is constructed once from the validated configuration model and
// is immutable afterwards; the resolution engine and the task scheduler hold
// read-only references to it. Construction enforces identity uniqueness,
// edge resolvability, and acyclicity, so every later query can assume a
// well-formed DAG.
//
// Two orderings are derived on demand: a full topological order (Kahn's
// algorithm) and parallel batches, where each batch contains workspaces
// whose dependencies all live in strictly earlier batches. Batches are what
// the executor schedules concurrently.
package graph
