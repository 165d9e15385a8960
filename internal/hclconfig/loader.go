// Package hclconfig is the HCL implementation of the config.Loader
// interface, plus structured edit support for the project file. The project
// file (workgrid.hcl) declares the package manager, shared commands, and
// every workspace with its dependency edges.
package hclconfig

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/workgrid/internal/config"
	"github.com/vk/workgrid/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the decode target for the whole project file.
type fileRoot struct {
	Settings   *settingsBlock    `hcl:"workgrid,block"`
	Commands   map[string]string `hcl:"commands,optional"`
	Workspaces []*workspaceBlock `hcl:"workspace,block"`
}

// settingsBlock is the optional `workgrid { ... }` block.
type settingsBlock struct {
	PackageManager string `hcl:"package_manager,optional"`
	Concurrency    int    `hcl:"concurrency,optional"`
}

// workspaceBlock is one `workspace "<path>" { ... }` block. The block label
// is the workspace path; the alias is optional and falls back to it.
type workspaceBlock struct {
	Path      string            `hcl:"path,label"`
	Alias     string            `hcl:"alias,optional"`
	DependsOn []string          `hcl:"depends_on,optional"`
	Commands  map[string]string `hcl:"commands,optional"`
	Watch     []string          `hcl:"watch,optional"`
}

// Load reads and validates the project file and translates it into the
// format-agnostic model. Identity and edge validation beyond basic shape is
// the graph's contract; the loader only rejects structurally broken files.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode project file %s: %w", path, diags)
	}

	model := &config.Model{
		PackageManager:  "npm",
		DefaultCommands: root.Commands,
	}
	if root.Settings != nil {
		if root.Settings.PackageManager != "" {
			model.PackageManager = root.Settings.PackageManager
		}
		if root.Settings.Concurrency < 0 {
			return nil, fmt.Errorf("%s: concurrency must not be negative", path)
		}
		model.Concurrency = root.Settings.Concurrency
	}

	for _, block := range root.Workspaces {
		if block.Path == "" {
			return nil, fmt.Errorf("%s: workspace block with an empty path label", path)
		}
		model.Workspaces = append(model.Workspaces, config.Workspace{
			Path:      block.Path,
			Alias:     block.Alias,
			DependsOn: block.DependsOn,
			Commands:  block.Commands,
			Watch:     block.Watch,
		})
	}

	logger.Debug("HCL loading complete.",
		"workspaces", len(model.Workspaces), "default_commands", len(model.DefaultCommands))
	return model, nil
}

// interface conformance
var _ config.Loader = (*Loader)(nil)
