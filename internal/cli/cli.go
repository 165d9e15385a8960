// Package cli defines the command-line surface: the cobra command tree,
// global flags, and the wiring from parsed flags to a running App.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/workgrid/internal/app"
	"github.com/vk/workgrid/internal/hclconfig"
)

// Run parses args, builds the command tree, and executes the selected
// command. Command output goes to outW, logs to logW.
func Run(outW, logW io.Writer, args []string) error {
	var (
		flagConfig      string
		flagLogLevel    string
		flagLogFormat   string
		flagConcurrency int
	)

	// newApp is deferred into each RunE so flags are parsed first. The App
	// loads and validates the project file as part of construction.
	newApp := func() (*app.App, error) {
		cfg, err := app.NewConfig(app.Config{
			ConfigPath:  flagConfig,
			LogLevel:    flagLogLevel,
			LogFormat:   flagLogFormat,
			Concurrency: flagConcurrency,
		})
		if err != nil {
			return nil, err
		}
		return app.NewApp(outW, logW, cfg, hclconfig.NewLoader())
	}

	rootCmd := &cobra.Command{
		Use:           "workgrid",
		Short:         "Build orchestrator for multi-workspace JavaScript repositories",
		Long: `Workgrid reads a project file describing the workspaces of a monorepo,
builds their dependency graph, and runs commands across them in
dependency order with bounded parallelism. It also resolves each
workspace's npm dependencies independently, surfacing cross-workspace
version conflicts and generating a runtime override so every workspace
loads exactly the versions it resolved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "workgrid.hcl", "Project file path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().IntVar(&flagConcurrency, "concurrency", 0, "Max concurrent tasks (0 uses the project file's setting)")

	rootCmd.AddCommand(buildCmd(newApp))
	rootCmd.AddCommand(runCommandCmd(newApp))
	rootCmd.AddCommand(startCmd(newApp))
	rootCmd.AddCommand(liveCmd(newApp))
	rootCmd.AddCommand(graphCmd(newApp))
	rootCmd.AddCommand(conflictsCmd(newApp))
	rootCmd.AddCommand(explainCmd(newApp))
	rootCmd.AddCommand(addCmd(newApp))
	rootCmd.AddCommand(removeCmd(newApp))

	rootCmd.SetArgs(args)
	rootCmd.SetOut(outW)
	rootCmd.SetErr(logW)
	return rootCmd.Execute()
}

type appFactory func() (*app.App, error)

func buildCmd(newApp appFactory) *cobra.Command {
	var (
		flagSince  string
		flagFilter []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run every workspace's build command in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Build(a.Context(), flagSince, flagFilter)
		},
	}

	cmd.Flags().StringVar(&flagSince, "since", "", "Only workspaces affected by changes since this git ref")
	cmd.Flags().StringSliceVar(&flagFilter, "filter", nil, "Restrict to these workspaces")

	return cmd
}

func runCommandCmd(newApp appFactory) *cobra.Command {
	var (
		flagSince  string
		flagFilter []string
	)

	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Run a named command across workspaces in dependency order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.RunCommand(a.Context(), args[0], flagSince, flagFilter)
		},
	}

	cmd.Flags().StringVar(&flagSince, "since", "", "Only workspaces affected by changes since this git ref")
	cmd.Flags().StringSliceVar(&flagFilter, "filter", nil, "Restrict to these workspaces")

	return cmd
}

func startCmd(newApp appFactory) *cobra.Command {
	var flagWithDeps bool

	cmd := &cobra.Command{
		Use:   "start <workspace>",
		Short: "Run one workspace's start command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Start(a.Context(), args[0], flagWithDeps)
		},
	}

	cmd.Flags().BoolVar(&flagWithDeps, "with-deps", false, "Start direct dependencies first")

	return cmd
}

func liveCmd(newApp appFactory) *cobra.Command {
	var flagFilter []string

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Run every workspace's live command for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Live(a.Context(), flagFilter)
		},
	}

	cmd.Flags().StringSliceVar(&flagFilter, "filter", nil, "Restrict to these workspaces")

	return cmd
}

func graphCmd(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the workspace dependency graph as parallel batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.PrintGraph(a.Context())
		},
	}
}

func conflictsCmd(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List packages resolved to different versions across workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Conflicts(a.Context())
		},
	}
}

func explainCmd(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <workspace> <package>",
		Short: "Show which version of a package a workspace resolves, and who disagrees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Explain(a.Context(), args[0], args[1])
		},
	}
}

func addCmd(newApp appFactory) *cobra.Command {
	var (
		flagDev     bool
		flagExact   bool
		flagVersion string
	)

	cmd := &cobra.Command{
		Use:   "add <from> <to>",
		Short: "Declare that one workspace depends on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Add(a.Context(), args[0], args[1], flagDev, flagExact, flagVersion)
		},
	}

	cmd.Flags().BoolVar(&flagDev, "dev", false, "Add to devDependencies")
	cmd.Flags().BoolVar(&flagExact, "exact", false, "Pin the exact version instead of a caret range")
	cmd.Flags().StringVar(&flagVersion, "version", "", "Explicit version (default: internal workspace link)")

	return cmd
}

func removeCmd(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <from> <to>",
		Short: "Remove a workspace dependency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return a.Remove(a.Context(), args[0], args[1])
		},
	}
}
