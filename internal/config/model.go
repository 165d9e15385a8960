package config

// Model is the unified, format-agnostic representation of the entire
// project configuration: the package manager in use, scheduling limits,
// shared command defaults, and every declared workspace.
type Model struct {
	// PackageManager identifies the tool that installed the dependency
	// trees the resolution engine inspects (npm, yarn, pnpm).
	PackageManager string

	// Concurrency is the ceiling for simultaneously running tasks within a
	// batch. Zero means "no explicit limit"; the scheduler then defaults to
	// the total workspace count.
	Concurrency int

	// DefaultCommands maps a command name (build, start, live, ...) to the
	// shell string run for workspaces that declare no override.
	DefaultCommands map[string]string

	// Workspaces holds every declared workspace, in declaration order.
	Workspaces []Workspace
}

// Workspace is the format-agnostic representation of a `workspace` block.
type Workspace struct {
	// Path is the workspace root, relative to the project root.
	Path string

	// Alias is the stable identifier used in dependency declarations and
	// CLI targeting. Optional; identity falls back to Path.
	Alias string

	// DependsOn lists the names of workspaces this one depends on.
	DependsOn []string

	// Commands holds per-workspace command overrides, consulted before
	// Model.DefaultCommands.
	Commands map[string]string

	// Watch lists path hints (relative to the workspace root) for change
	// watching in live mode.
	Watch []string
}

// Name returns the workspace identity: the alias when one was declared,
// otherwise the path.
func (w Workspace) Name() string {
	if w.Alias != "" {
		return w.Alias
	}
	return w.Path
}

// Workspace looks up a declared workspace by its name. The second return
// value reports whether it exists.
func (m *Model) Workspace(name string) (Workspace, bool) {
	for _, ws := range m.Workspaces {
		if ws.Name() == name {
			return ws, true
		}
	}
	return Workspace{}, false
}

// Command resolves the shell string for a named command in the context of
// one workspace: the workspace override wins, then the shared default. The
// boolean is false when neither declares the command.
func (m *Model) Command(ws Workspace, name string) (string, bool) {
	if cmd, ok := ws.Commands[name]; ok {
		return cmd, true
	}
	cmd, ok := m.DefaultCommands[name]
	return cmd, ok
}
