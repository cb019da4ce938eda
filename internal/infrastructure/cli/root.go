package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/rigup/internal/app"
	"github.com/doeshing/rigup/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command. The container is built in
// PersistentPreRunE so the --config flag is parsed before the
// configuration loads; subcommands hold the pointer and see the
// populated container by the time their RunE fires.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container := &app.Container{}
	configPath := opts.ConfigPath

	root := &cobra.Command{
		Use:   "rigup",
		Short: "rigup - guarded machine provisioning",
		Long: "rigup walks an operator through provisioning a machine, executing every\n" +
			"privileged command behind a mode/risk guard with durable session logs.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := app.BuildContainer(cmd.Context(), opts.Verbose, configPath)
			if err != nil {
				return err
			}
			*container = *built
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", opts.ConfigPath, "Configuration file path (default ~/.rigup/config.yaml)")

	root.AddCommand(newProvisionCommand(container))
	root.AddCommand(commands.NewPlanCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewJournalCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}
