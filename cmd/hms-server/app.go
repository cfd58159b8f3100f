package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/carepoint/hms/internal/config"
	"github.com/carepoint/hms/internal/domain/aiassist"
	"github.com/carepoint/hms/internal/domain/billing"
	"github.com/carepoint/hms/internal/domain/dashboard"
	"github.com/carepoint/hms/internal/domain/diagnostics"
	"github.com/carepoint/hms/internal/domain/identity"
	"github.com/carepoint/hms/internal/domain/scheduling"
	"github.com/carepoint/hms/internal/platform/db"
	"github.com/carepoint/hms/internal/platform/llm"
	"github.com/carepoint/hms/internal/platform/sandbox"
)

// app holds the wired services shared by the serve command and the CLI
// workflow commands.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	pool   *pgxpool.Pool

	identity    *identity.Service
	scheduling  *scheduling.Service
	billing     *billing.Service
	diagnostics *diagnostics.Service
	dashboard   *dashboard.Service
	actions     *aiassist.Actions
}

// newApp opens the configured storage and wires every domain service on top
// of it. With the memory driver the stores are seeded with the demo dataset.
func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, provider llm.Provider) (*app, error) {
	repos, pool, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, pool: pool}
	a.identity = identity.NewService(repos.Patients, repos.Doctors)
	a.scheduling = scheduling.NewService(repos.Appointments, a.identity)
	a.billing = billing.NewService(repos.Bills, a.identity)
	a.actions = aiassist.NewActions(aiassist.NewService(provider), logger)
	a.diagnostics = diagnostics.NewService(repos.LabAppointments, a.identity, a.actions)
	a.dashboard = dashboard.NewService(a.scheduling, a.identity, a.billing, a.diagnostics)
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (sandbox.Repositories, *pgxpool.Pool, error) {
	if cfg.StorageDriver == config.StoragePostgres {
		pool, err := connect(ctx, cfg, logger)
		if err != nil {
			return sandbox.Repositories{}, nil, err
		}
		logger.Info().Msg("connected to database")
		return postgresRepositories(pool), pool, nil
	}

	repos := memoryRepositories()
	ds, err := sandbox.Load(cfg.SeedFile)
	if err != nil {
		return repos, nil, err
	}
	res, err := sandbox.NewSeeder(repos).Apply(ctx, ds)
	if err != nil {
		return repos, nil, fmt.Errorf("seed memory store: %w", err)
	}
	logger.Info().
		Int("records", res.Total()).
		Dur("duration", res.Duration).
		Msg("seeded in-memory store")
	return repos, nil, nil
}

func connect(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, db.PoolConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		ConnectTimeout: cfg.ConnectTimeout(),
	}, logger)
}

func memoryRepositories() sandbox.Repositories {
	return sandbox.Repositories{
		Patients:        identity.NewPatientRepoMemory(),
		Doctors:         identity.NewDoctorRepoMemory(),
		Appointments:    scheduling.NewAppointmentRepoMemory(),
		Bills:           billing.NewBillRepoMemory(),
		LabAppointments: diagnostics.NewLabAppointmentRepoMemory(),
	}
}

func postgresRepositories(pool *pgxpool.Pool) sandbox.Repositories {
	return sandbox.Repositories{
		Patients:        identity.NewPatientRepo(pool),
		Doctors:         identity.NewDoctorRepo(pool),
		Appointments:    scheduling.NewAppointmentRepo(pool),
		Bills:           billing.NewBillRepo(pool),
		LabAppointments: diagnostics.NewLabAppointmentRepo(pool),
	}
}

func newProvider(cfg *config.Config) llm.Provider {
	return llm.NewAnthropic(llm.AnthropicConfig{
		APIKey:    cfg.AnthropicAPIKey,
		BaseURL:   cfg.AnthropicURL,
		Model:     cfg.AIModel,
		MaxTokens: cfg.AIMaxTokens,
	})
}
