package hclconfig

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/workgrid/internal/ctxlog"
)

// AddDependency declares that workspace `from` depends on workspace `to` by
// rewriting the project file's depends_on list. The file is treated as
// structured data throughout: the current declarations are read through the
// loader, the new list is computed in memory, and hclwrite emits the change
// while preserving the rest of the file.
func AddDependency(ctx context.Context, path, from, to string) error {
	return editDependsOn(ctx, path, from, to, func(current []string) ([]string, error) {
		for _, dep := range current {
			if dep == to {
				return nil, fmt.Errorf("workspace %q already depends on %q", from, to)
			}
		}
		return append(current, to), nil
	})
}

// RemoveDependency removes the dependency of workspace `from` on workspace
// `to` from the project file.
func RemoveDependency(ctx context.Context, path, from, to string) error {
	return editDependsOn(ctx, path, from, to, func(current []string) ([]string, error) {
		next := make([]string, 0, len(current))
		for _, dep := range current {
			if dep != to {
				next = append(next, dep)
			}
		}
		if len(next) == len(current) {
			return nil, fmt.Errorf("workspace %q does not depend on %q", from, to)
		}
		return next, nil
	})
}

// editDependsOn applies a read/modify/write cycle to one workspace's
// depends_on attribute.
func editDependsOn(ctx context.Context, path, from, to string, change func([]string) ([]string, error)) error {
	logger := ctxlog.FromContext(ctx)

	model, err := NewLoader().Load(ctx, path)
	if err != nil {
		return err
	}
	fromWS, ok := model.Workspace(from)
	if !ok {
		return fmt.Errorf("unknown workspace %q", from)
	}
	if _, ok := model.Workspace(to); !ok {
		return fmt.Errorf("unknown workspace %q", to)
	}

	next, err := change(fromWS.DependsOn)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading project file: %w", err)
	}
	file, diags := hclwrite.ParseConfig(src, path, hcl.InitialPos)
	if diags.HasErrors() {
		return fmt.Errorf("parsing project file %s: %w", path, diags)
	}

	block := findWorkspaceBlock(file.Body(), fromWS.Path)
	if block == nil {
		return fmt.Errorf("workspace block for %q not found in %s", from, path)
	}

	if len(next) == 0 {
		block.Body().RemoveAttribute("depends_on")
	} else {
		values := make([]cty.Value, len(next))
		for i, dep := range next {
			values[i] = cty.StringVal(dep)
		}
		block.Body().SetAttributeValue("depends_on", cty.ListVal(values))
	}

	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	logger.Debug("Project file updated.", "workspace", from, "depends_on", next)
	return nil
}

// findWorkspaceBlock locates the workspace block whose label is the given
// path.
func findWorkspaceBlock(body *hclwrite.Body, wsPath string) *hclwrite.Block {
	for _, block := range body.Blocks() {
		if block.Type() != "workspace" {
			continue
		}
		labels := block.Labels()
		if len(labels) == 1 && labels[0] == wsPath {
			return block
		}
	}
	return nil
}
