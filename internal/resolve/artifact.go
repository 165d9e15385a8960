package resolve

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ArtifactDir is the directory, relative to the project root, holding
	// the persisted resolution map and the generated preload module.
	ArtifactDir = ".workgrid"

	mapFileName     = "resolutions.json"
	preloadFileName = "preload.cjs"

	// EnvResolutions points spawned Node processes at the persisted map.
	EnvResolutions = "WORKGRID_RESOLUTIONS"
)

// Artifact names the files written by WriteArtifact.
type Artifact struct {
	MapPath     string
	PreloadPath string
}

// artifactWorkspace is the on-disk shape of one workspace's entry. The JSON
// is consumed by the Node preload, so the field names are part of the
// runtime contract.
type artifactWorkspace struct {
	Root     string                `json:"root"`
	Packages map[string]Resolution `json:"packages"`
}

type artifactFile struct {
	Workspaces map[string]artifactWorkspace `json:"workspaces"`
}

// WriteArtifact persists the resolution map and the preload module under
// projectRoot. It runs once per invocation, before any task execution, and
// the written files are treated as read-only for the rest of the run.
func (a *Analysis) WriteArtifact(projectRoot string) (Artifact, error) {
	dir := filepath.Join(projectRoot, ArtifactDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifact{}, fmt.Errorf("creating artifact directory: %w", err)
	}

	file := artifactFile{Workspaces: make(map[string]artifactWorkspace, len(a.Roots))}
	for name, root := range a.Roots {
		file.Workspaces[name] = artifactWorkspace{
			Root:     root,
			Packages: a.Map[name],
		}
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("encoding resolution map: %w", err)
	}

	art := Artifact{
		MapPath:     filepath.Join(dir, mapFileName),
		PreloadPath: filepath.Join(dir, preloadFileName),
	}
	if err := os.WriteFile(art.MapPath, data, 0o644); err != nil {
		return Artifact{}, fmt.Errorf("writing resolution map: %w", err)
	}
	if err := os.WriteFile(art.PreloadPath, []byte(preloadSource), 0o644); err != nil {
		return Artifact{}, fmt.Errorf("writing preload module: %w", err)
	}
	return art, nil
}

// ActivationEnv returns the environment entries that cause every spawned
// Node process to install the runtime override before user code runs.
// existingNodeOptions is the parent's NODE_OPTIONS value, preserved so the
// preload flag is appended rather than replacing it.
func ActivationEnv(existingNodeOptions string, art Artifact) []string {
	opts := "--require " + art.PreloadPath
	if existingNodeOptions != "" {
		opts = existingNodeOptions + " " + opts
	}
	return []string{
		"NODE_OPTIONS=" + opts,
		EnvResolutions + "=" + art.MapPath,
	}
}

// preloadSource is the generated Node preload. It mirrors Analysis.Resolve:
// the decision logic lives there and is unit-tested in Go; this module is
// only the loader hook around the same table-driven lookup.
const preloadSource = `'use strict';
// Generated by workgrid. Loaded via NODE_OPTIONS=--require before user code.
const fs = require('fs');
const path = require('path');
const Module = require('module');

const mapPath = process.env.WORKGRID_RESOLUTIONS;
if (!mapPath) return;

let table;
try {
  table = JSON.parse(fs.readFileSync(mapPath, 'utf8'));
} catch (err) {
  return;
}

// Longest root first so prefix matching picks the owning workspace.
const entries = Object.values(table.workspaces || {})
  .sort((a, b) => b.root.length - a.root.length);

function redirect(request, parent) {
  if (!parent || !parent.filename) return null;
  if (request.startsWith('.') || path.isAbsolute(request)) return null;
  if (request.startsWith('node:') || Module.builtinModules.includes(request)) return null;

  const caller = parent.filename;
  let owner = null;
  for (const entry of entries) {
    if (caller === entry.root || caller.startsWith(entry.root + path.sep)) {
      owner = entry;
      break;
    }
  }
  if (!owner) return null;

  const segments = request.split('/');
  const name = request.startsWith('@') && segments.length > 1
    ? segments.slice(0, 2).join('/')
    : segments[0];
  const resolution = owner.packages && owner.packages[name];
  if (!resolution) return null;

  const subpath = request.slice(name.length);
  return resolution.resolvedPath + subpath;
}

const originalResolve = Module._resolveFilename;
Module._resolveFilename = function (request, parent, isMain, options) {
  const redirected = redirect(request, parent);
  if (redirected) {
    return originalResolve.call(this, redirected, parent, isMain, options);
  }
  return originalResolve.call(this, request, parent, isMain, options);
};
`
