// Package resolve is the cross-version resolution engine.
//
// For every workspace it reads the declared external dependencies from the
// workspace manifest, resolves the concrete installed version and location
// of each one the way Node would (nearest node_modules first, walking up to
// the project root), and collects the results into a per-workspace
// resolution map. Packages resolved to more than one distinct version across
// workspaces are reported as conflicts.
//
// The map is also the contract for the runtime override: a generated Node
// preload module reads the persisted map and redirects bare imports from a
// workspace's files to that workspace's resolved location. The redirect
// decision itself is a pure function (Analysis.Resolve) so it can be tested
// without touching any module loader.
package resolve
