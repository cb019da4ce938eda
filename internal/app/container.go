package app

import (
	"context"

	"github.com/doeshing/rigup/internal/domain"
	"github.com/doeshing/rigup/internal/infrastructure/config"
	"github.com/doeshing/rigup/internal/infrastructure/journal"
	"github.com/doeshing/rigup/internal/infrastructure/policy"
	"github.com/doeshing/rigup/internal/pkg/logger"
	"github.com/doeshing/rigup/internal/ports"
)

// Container wires up application services with infrastructure adapters.
// Stdio-bound pieces (session sink, prompter, renderer, runner) are
// wired per-command, where their lifetime is scoped by a defer.
type Container struct {
	Config       domain.Config
	ConfigLoader *config.FileLoader
	Journal      ports.JournalStore
	Policy       ports.PolicyService
	Logger       ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool, configPath string) (*Container, error) {
	cfgLoader := config.NewFileLoader(configPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	riskPolicy, err := policy.NewPolicy(cfg.Policy.RulesFile)
	if err != nil {
		// Unparseable custom rules fall back to the embedded set.
		riskPolicy, err = policy.NewPolicy("")
		if err != nil {
			return nil, err
		}
	}

	var store ports.JournalStore
	if cfg.Journal.Backend == "file" {
		store = journal.NewFileStore()
	} else {
		store = journal.NewSQLiteStore()
	}

	return &Container{
		Config:       cfg,
		ConfigLoader: cfgLoader,
		Journal:      store,
		Policy:       riskPolicy,
		Logger:       log,
	}, nil
}
