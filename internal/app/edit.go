package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/workgrid/internal/ctxlog"
	"github.com/vk/workgrid/internal/hclconfig"
	"github.com/vk/workgrid/internal/manifest"
)

// Add declares a workspace dependency: the project file gains the edge and
// the dependent workspace's manifest gains the entry. With no explicit
// version the entry is an internal workspace link.
func (a *App) Add(ctx context.Context, from, to string, dev, exact bool, version string) error {
	log := ctxlog.FromContext(ctx)

	fromWS, ok := a.model.Workspace(from)
	if !ok {
		return fmt.Errorf("unknown workspace %q", from)
	}
	toWS, ok := a.model.Workspace(to)
	if !ok {
		return fmt.Errorf("unknown workspace %q", to)
	}

	if err := hclconfig.AddDependency(ctx, a.cfg.ConfigPath, from, to); err != nil {
		return err
	}

	pkg := packageNameOf(a.projectRoot, toWS.Path, toWS.Name())
	rng := rangeFor(version, exact)
	if err := manifest.AddEntry(filepath.Join(a.projectRoot, fromWS.Path), pkg, rng, dev); err != nil {
		return err
	}

	log.Info("Dependency added.", "from", fromWS.Name(), "to", toWS.Name(), "range", rng, "dev", dev)
	fmt.Fprintf(a.outW, "%s now depends on %s (%s)\n", fromWS.Name(), pkg, rng)
	return nil
}

// Remove drops a workspace dependency from both the project file and the
// dependent workspace's manifest.
func (a *App) Remove(ctx context.Context, from, to string) error {
	log := ctxlog.FromContext(ctx)

	fromWS, ok := a.model.Workspace(from)
	if !ok {
		return fmt.Errorf("unknown workspace %q", from)
	}
	toWS, ok := a.model.Workspace(to)
	if !ok {
		return fmt.Errorf("unknown workspace %q", to)
	}

	if err := hclconfig.RemoveDependency(ctx, a.cfg.ConfigPath, from, to); err != nil {
		return err
	}

	pkg := packageNameOf(a.projectRoot, toWS.Path, toWS.Name())
	if err := manifest.RemoveEntry(filepath.Join(a.projectRoot, fromWS.Path), pkg); err != nil {
		return err
	}

	log.Info("Dependency removed.", "from", fromWS.Name(), "to", toWS.Name())
	fmt.Fprintf(a.outW, "%s no longer depends on %s\n", fromWS.Name(), pkg)
	return nil
}

// packageNameOf prefers the published name from the workspace's manifest and
// falls back to the configured name when no manifest exists yet.
func packageNameOf(projectRoot, wsPath, fallback string) string {
	name, err := manifest.PackageName(filepath.Join(projectRoot, wsPath))
	if err != nil {
		return fallback
	}
	return name
}

// rangeFor translates the add flags into the manifest range. Without an
// explicit version the dependency stays an internal workspace link.
func rangeFor(version string, exact bool) string {
	switch {
	case version == "":
		return "workspace:*"
	case exact:
		return version
	default:
		return "^" + version
	}
}
