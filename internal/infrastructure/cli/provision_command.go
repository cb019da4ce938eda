package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doeshing/rigup/internal/app"
	"github.com/doeshing/rigup/internal/application/guard"
	"github.com/doeshing/rigup/internal/application/provision"
	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/infrastructure/runner"
	"github.com/doeshing/rigup/internal/infrastructure/sink"
	"github.com/doeshing/rigup/internal/pkg/filesystem"
	"github.com/doeshing/rigup/internal/pkg/logger"
	"github.com/doeshing/rigup/internal/ports"
)

// newProvisionCommand creates the provision command: the guided,
// guarded provisioning workflow itself.
func newProvisionCommand(container *app.Container) *cobra.Command {
	var (
		live   bool
		logDir string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Walk through the guarded provisioning workflow",
		Long: "Provision walks the machine through environment checks, partitioning,\n" +
			"optional encryption, mounting, base install, bootloader and user setup.\n" +
			"Default mode simulates every guarded command; pass --live to execute.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvision(cmd, container, live, logDir)
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Execute guarded commands instead of simulating them")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "Session log directory (default from config)")
	return cmd
}

func runProvision(cmd *cobra.Command, container *app.Container, live bool, logDir string) error {
	if logDir == "" {
		logDir = container.Config.Logs.Dir
	}

	session, err := sink.Open(filesystem.ExpandPath(logDir))
	if err != nil {
		return err
	}
	// Scoped close: every exit path below, including signals surfaced
	// through the context, prints the farewell and releases the log
	// files exactly once.
	defer session.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	releaseSignalsOnCancel(ctx, stop)

	mode := domain.ModeSimulate
	if live {
		mode = domain.ModeLive
	}

	renderer := NewRenderer(session.Out, session.Err)
	prompter := NewPrompter(os.Stdin, session.Out)

	if std, ok := container.Logger.(*logger.StdLogger); ok {
		std.SetOutput(session.Err)
	}

	var store ports.JournalStore
	if container.Config.Journal.On() {
		store = container.Journal
	}

	guardService := &guard.Service{
		Mode:      mode,
		SessionID: session.ID,
		Runner:    runner.NewExecRunner(session.Out, session.Err),
		Gate:      prompter,
		Policy:    container.Policy,
		Journal:   store,
		Renderer:  renderer,
		Logger:    container.Logger,
	}

	sequencer := &provision.Service{
		Guard:    guardService,
		Prompter: prompter,
		Renderer: renderer,
		Logger:   container.Logger,
		Config:   container.Config,
	}

	if code := sequencer.Run(ctx); code != domain.ExitOK {
		return &ExitCodeError{Code: code}
	}
	return nil
}

// releaseSignalsOnCancel restores default signal handling once the
// first signal cancels ctx. The sequencer observes the cancellation
// between stages, but a session blocked in a prompt read would
// otherwise swallow every further interrupt; after stop, a second
// signal terminates the process.
func releaseSignalsOnCancel(ctx context.Context, stop func()) {
	go func() {
		<-ctx.Done()
		stop()
	}()
}
