package renom

import (
	"github.com/spf13/cobra"
)

type CLIConfig struct {
	Verbose bool
	Project string
	Plugin  string
	Target  string
	Module  string
	NewName string
}

// NewRootCommand builds the renom command tree bound to a fresh CLIConfig.
func NewRootCommand() *cobra.Command {
	cfg := &CLIConfig{}

	newApp := func(cmd *cobra.Command) *App {
		return NewApp(&Config{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Verbose: cfg.Verbose})
	}

	rootCmd := &cobra.Command{
		Use:   "renom",
		Short: "Rename Unreal Engine projects, plugins, targets and modules.",
		Long: `Rename Unreal Engine projects, plugins, targets and modules.

Every change is backed up under <project>/.renom/backup and all applied
changes are reverted if any step fails.

Example: renom rename-project --project ./MyGame --new-name Foo`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")

	projectCmd := &cobra.Command{
		Use:   "rename-project",
		Short: "Rename an Unreal Engine project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cmd).RenameProject(ProjectParams{ProjectRoot: cfg.Project, NewName: cfg.NewName})
		},
	}

	pluginCmd := &cobra.Command{
		Use:   "rename-plugin",
		Short: "Rename an Unreal Engine project plugin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cmd).RenamePlugin(PluginParams{ProjectRoot: cfg.Project, Plugin: cfg.Plugin, NewName: cfg.NewName})
		},
	}
	pluginCmd.Flags().StringVar(&cfg.Plugin, "plugin", "", "Plugin in the project to rename")
	_ = pluginCmd.MarkFlagRequired("plugin")

	targetCmd := &cobra.Command{
		Use:   "rename-target",
		Short: "Rename an Unreal Engine project target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cmd).RenameTarget(TargetParams{ProjectRoot: cfg.Project, Target: cfg.Target, NewName: cfg.NewName})
		},
	}
	targetCmd.Flags().StringVar(&cfg.Target, "target", "", "Target in the project to rename")
	_ = targetCmd.MarkFlagRequired("target")

	moduleCmd := &cobra.Command{
		Use:   "rename-module",
		Short: "Rename an Unreal Engine project module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cmd).RenameModule(ModuleParams{ProjectRoot: cfg.Project, Module: cfg.Module, NewName: cfg.NewName})
		},
	}
	moduleCmd.Flags().StringVar(&cfg.Module, "module", "", "Module in the project to rename")
	_ = moduleCmd.MarkFlagRequired("module")

	for _, cmd := range []*cobra.Command{projectCmd, pluginCmd, targetCmd, moduleCmd} {
		cmd.Flags().StringVar(&cfg.Project, "project", "", "Path to the project")
		cmd.Flags().StringVar(&cfg.NewName, "new-name", "", "New name")
		_ = cmd.MarkFlagRequired("project")
		_ = cmd.MarkFlagRequired("new-name")
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "wizard",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cmd).RunWizard()
		},
	})

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
