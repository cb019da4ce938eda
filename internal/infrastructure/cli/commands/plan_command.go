package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/rigup/internal/app"
	"github.com/doeshing/rigup/internal/application/provision"
)

// NewPlanCommand creates the plan command: print the stage list and
// the commands the default path would run, without touching anything.
func NewPlanCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the provisioning stages and their commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			sequencer := &provision.Service{Config: container.Config}
			return renderPlan(cmd.OutOrStdout(), sequencer)
		},
	}
}

func renderPlan(out io.Writer, sequencer *provision.Service) error {
	for i, stage := range sequencer.Plan() {
		fmt.Fprintf(out, "%d. %s: %s\n", i+1, stage.Name, stage.Summary)
		for _, command := range stage.Commands {
			fmt.Fprintf(out, "     $ %s\n", command)
		}
	}
	return nil
}
