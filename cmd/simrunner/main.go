// Command simrunner drives the simulation core standalone, with no real
// game client attached: a handful of demo entities tick forward under
// in-memory fake ports, a diagnostics server exposes the last tick's
// report over HTTP, and a cron-scheduled driver supplies the wall-clock
// cadence the core itself deliberately doesn't own.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/diag"
	"github.com/tickforge/simcore/driver"
	"github.com/tickforge/simcore/pipeline"
	"github.com/tickforge/simcore/simconfig"
	"github.com/tickforge/simcore/simevents"
	"github.com/tickforge/simcore/simlog"
	"github.com/tickforge/simcore/wave"
)

// runConfig is fed by simconfig from a TOML file (if SIMRUNNER_CONFIG
// points at one) and then overridden by SIMRUNNER_-prefixed environment
// variables, layered through a simconfig.Loader.
type runConfig struct {
	EntityCount  int    `toml:"entity_count" env:"entity_count"`
	Schedule     string `toml:"schedule" env:"schedule"`
	DeltaTicks   int    `toml:"delta_ticks" env:"delta_ticks"`
	DiagAddr     string `toml:"diag_addr" env:"diag_addr"`
	MaxWaveDepth int    `toml:"max_wave_depth" env:"max_wave_depth"`
}

func defaultConfig() runConfig {
	return runConfig{
		EntityCount:  8,
		Schedule:     "@every 250ms",
		DeltaTicks:   1,
		DiagAddr:     ":8080",
		MaxWaveDepth: 8,
	}
}

func loadConfig() (runConfig, error) {
	cfg := defaultConfig()

	loader := simconfig.NewLoader()
	if path := os.Getenv("SIMRUNNER_CONFIG"); path != "" {
		loader.AddSource(simconfig.NewTomlSource(path, 0))
	}
	loader.AddSource(simconfig.NewAffixedEnvSource("SIMRUNNER", "", 10))

	if err := loader.Load(&cfg); err != nil {
		return runConfig{}, err
	}
	return cfg, nil
}

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	log, err := simlog.NewDevelopmentLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		log.Error("loading config", "err", err)
		return err
	}

	world := newDemoWorld(cfg.EntityCount)

	buffer := pipeline.NewDecisionResultBuffer()
	processor := wave.NewProcessor(cfg.MaxWaveDepth)

	message := pipeline.NewMessagePhase(processor, log)
	cleanup := pipeline.NewCleanupPhase(world.registry, world.spawner, log)

	root := pipeline.NewSerialGroup("tick",
		pipeline.NewCollisionPhase(nil, nil),
		message,
		pipeline.NewDecisionPhase(world.registry, world.input, world.state, action.IdentityOnly, buffer),
		pipeline.NewExecutionPhase(world.registry, buffer, world.factory),
		pipeline.NewReconciliationPhase(world.registry, nil, world.conflicts, world.pushOut, world.transform),
		cleanup,
	)

	subject := simevents.NewBroker()
	p := pipeline.New(root, message, cleanup, log, subject)

	reporter := diag.NewReporter(world.registry)
	diagServer := diag.NewServer(diag.Config{Addr: cfg.DiagAddr}, reporter, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := diagServer.Start(ctx); err != nil {
		log.Error("starting diag server", "err", err)
		return err
	}

	pump := driver.New(p, driver.Config{Schedule: cfg.Schedule, DeltaTicks: cfg.DeltaTicks}, log, reporter.RecordTick)
	if err := pump.Start(ctx); err != nil {
		log.Error("starting driver", "err", err)
		return err
	}

	log.Info("simrunner started", "entities", cfg.EntityCount, "schedule", cfg.Schedule, "diagAddr", cfg.DiagAddr)
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pump.Stop(shutdownCtx); err != nil {
		log.Error("stopping driver", "err", err)
	}
	if err := diagServer.Stop(shutdownCtx); err != nil {
		log.Error("stopping diag server", "err", err)
	}
	return nil
}
