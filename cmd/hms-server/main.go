package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/carepoint/hms/internal/config"
	"github.com/carepoint/hms/internal/domain/aiassist"
	"github.com/carepoint/hms/internal/platform/db"
	"github.com/carepoint/hms/internal/platform/sandbox"
	"github.com/carepoint/hms/internal/platform/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "hms-server",
		Short:        "Hospital management API server",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(labReportCmd())
	return rootCmd
}

// newLogger builds the root logger: human-readable in development, JSON
// lines otherwise.
func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, os.Stdout)
			ctx := cmd.Context()

			tp, err := telemetry.Init(ctx, telemetry.Config{
				Enabled:        cfg.OTelEnabled,
				Stdout:         cfg.OTelStdout,
				OTLPEndpoint:   cfg.OTelEndpoint,
				ServiceVersion: version,
				Environment:    cfg.Env,
			})
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, logger, newProvider(cfg))
			if err != nil {
				return err
			}
			defer a.Close()

			return runServer(ctx, a, tp)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator, p *printer) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				p.field("Applied", fmt.Sprintf("%d migration(s)", count))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator, p *printer) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				p.migrations(statuses)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(ctx context.Context, m *db.Migrator, p *printer) error) error {
	cfg, err := postgresConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	pool, err := connect(ctx, cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, db.NewMigrator(pool, db.Migrations), newPrinter(cmd.OutOrStdout()))
}

func postgresConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.StorageDriver != config.StoragePostgres {
		return nil, fmt.Errorf("this command requires STORAGE_DRIVER=%s", config.StoragePostgres)
	}
	return cfg, nil
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo dataset into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := postgresConfig()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.SeedFile
			}
			ds, err := sandbox.Load(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := connect(ctx, cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer pool.Close()

			var res *sandbox.Result
			err = db.WithTx(ctx, pool, func(ctx context.Context) error {
				res, err = sandbox.NewSeeder(postgresRepositories(pool)).Apply(ctx, ds)
				return err
			})
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.title("Seeded demo data")
			p.field("Doctors", fmt.Sprint(res.Doctors))
			p.field("Patients", fmt.Sprint(res.Patients))
			p.field("Appointments", fmt.Sprint(res.Appointments))
			p.field("Bills", fmt.Sprint(res.Bills))
			p.field("Lab appointments", fmt.Sprint(res.LabAppointments))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML dataset to load (defaults to SEED_FILE, then the built-in data)")
	return cmd
}

// cliApp wires the services for a one-shot workflow command. Logs go to
// stderr so --json output stays machine-readable.
func cliApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	return newApp(cmd.Context(), cfg, logger, newProvider(cfg))
}

func diagnoseCmd() *cobra.Command {
	var (
		req     aiassist.DiagnosisRequest
		timeout time.Duration
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Request an AI diagnosis suggestion for a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			prepared, err := aiassist.PrepareDiagnosis(req)
			if err != nil {
				return err
			}

			a, err := cliApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ok, err := a.identity.PatientExists(ctx, prepared.PatientID)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("Selected patient not found.")
			}

			res, err := a.actions.RunDiagnosis(ctx, prepared)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if asJSON {
				return p.json(res)
			}
			p.diagnosis(res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.PatientID, "patient", "", "patient ID")
	f.StringVar(&req.CurrentSymptoms, "symptoms", "", "current symptoms (at least 10 characters)")
	f.StringVar(&req.HistoricalData, "history", "", "relevant medical history")
	f.StringVar(&req.LabReports, "labs", "", "recent lab results")
	f.StringVar(&req.DoctorNotes, "notes", "", "doctor notes")
	f.DurationVar(&timeout, "timeout", 60*time.Second, "deadline for the provider call")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("patient")
	_ = cmd.MarkFlagRequired("symptoms")
	return cmd
}

func labReportCmd() *cobra.Command {
	var (
		req     aiassist.LabReportRequest
		timeout time.Duration
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "lab-report",
		Short: "Generate a draft lab report for a test",
		RunE: func(cmd *cobra.Command, args []string) error {
			prepared, err := aiassist.PrepareLabReport(req)
			if err != nil {
				return err
			}

			a, err := cliApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			res, err := a.actions.RunLabReportGeneration(ctx, prepared)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if asJSON {
				return p.json(res)
			}
			p.labReport(prepared.TestName, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.TestName, "test", "", "name of the lab test")
	f.DurationVar(&timeout, "timeout", 60*time.Second, "deadline for the provider call")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}
