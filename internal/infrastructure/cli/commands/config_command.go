package commands

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/rigup/internal/app"
)

const (
	envKeyEditor  = "EDITOR"
	defaultEditor = "vi"
)

// NewConfigCommand creates the config command with all subcommands.
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect rigup configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(container),
		newConfigPathCommand(container),
		newConfigEditCommand(container),
	)

	return configCmd
}

func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}
}

func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), container.ConfigLoader.Path())
			return nil
		},
	}
}

func newConfigEditCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigurationInEditor(container)
		},
	}
}

// showConfiguration prints the resolved configuration (file values
// plus hydrated defaults) as YAML.
func showConfiguration(out io.Writer, container *app.Container) error {
	data, err := yaml.Marshal(container.Config)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s\n", container.ConfigLoader.Path())
	fmt.Fprint(out, string(data))
	return nil
}

// editConfigurationInEditor opens the configuration file in the
// operator's editor.
func editConfigurationInEditor(container *app.Container) error {
	editorCommand := os.Getenv(envKeyEditor)
	if editorCommand == "" {
		editorCommand = defaultEditor
	}

	cmd := exec.Command(editorCommand, container.ConfigLoader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}

	return nil
}
