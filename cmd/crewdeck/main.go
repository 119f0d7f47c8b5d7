package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/crewdeck/internal/catalog"
	"github.com/jask/crewdeck/internal/config"
	"github.com/jask/crewdeck/internal/database"
	"github.com/jask/crewdeck/internal/database/repository"
	"github.com/jask/crewdeck/internal/demo"
	"github.com/jask/crewdeck/internal/logging"
	"github.com/jask/crewdeck/internal/sim"
	"github.com/jask/crewdeck/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := catalog.Load()
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	policy, err := catalog.LoadPolicy()
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	db, err := database.Open()
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db, cat); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	// repositories
	skillRepo := repository.NewSkillRepo(db)
	flowRepo := repository.NewFlowRepo(db)
	runbookRepo := repository.NewRunbookRepo(db)
	incidentRepo := repository.NewIncidentRepo(db)
	appRepo := repository.NewAppRepo(db)

	// run machinery
	board := sim.NewBoard()
	runner := &sim.Runner{
		Board:        board,
		Policy:       policy,
		StepInterval: cfg.Sim.StepInterval(),
		FailureRate:  cfg.Sim.AssistFailureRate,
		Log:          logger,
	}

	if err := demo.SeedRuns(board, cat, policy); err != nil {
		log.Fatalf("seed runs: %v", err)
	}

	logger.Info("portal starting",
		zap.Int("skills", len(cat.Skills())),
		zap.Int("seeded_runs", board.Len()),
		zap.Duration("step_interval", runner.StepInterval))

	p := tea.NewProgram(tui.New(ctx, cfg,
		tui.Repos{Skills: skillRepo, Flows: flowRepo, Runbooks: runbookRepo, Incidents: incidentRepo, Apps: appRepo},
		tui.Services{Runner: runner, Board: board},
		cat,
		cfg.Location(),
	), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Printf("error: %v\n", err)
	}
}
