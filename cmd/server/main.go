package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	httpadapter "rpsarena/internal/adapter/http"
	metricsinmem "rpsarena/internal/adapter/metrics/inmemory"
	gormrepo "rpsarena/internal/adapter/repo/gorm"
	"rpsarena/internal/adapter/repo/memory"
	sqliterepo "rpsarena/internal/adapter/repo/sqlite"
	"rpsarena/internal/app/ports"
	"rpsarena/internal/app/session"
	"rpsarena/internal/domain/game"
	"rpsarena/internal/platform/config"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// Populated at build-time via -ldflags.
var version = "dev"

func main() {
	if err := setupLogger("info", "console", os.Stderr); err != nil {
		panic(err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Error().Err(err).Msg("rpsarena exited")
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	cfg := &config.Server{}

	serve := &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, *cfg)
		},
	}
	migrate := &cli.Command{
		Name:  "migrate",
		Usage: "apply SQL migrations to the postgres store",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runMigrations(ctx, *cfg)
		},
	}

	return &cli.Command{
		Name:    "rpsarena",
		Usage:   "Track one rock-paper-scissors session per host",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
			&cli.StringFlag{Name: "log-format", Usage: "log output (console, json)"},
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "store", Usage: "storage backend (memory, postgres, sqlite)"},
			&cli.StringFlag{Name: "dsn", Usage: "postgres DSN"},
			&cli.StringFlag{Name: "sqlite-path", Usage: "SQLite database file"},
			&cli.StringFlag{Name: "migrations-dir", Usage: "directory with postgres *.sql migrations"},
			&cli.BoolFlag{Name: "guard-initialize", Usage: "reject a second initialize instead of overwriting the owner"},
			&cli.BoolFlag{Name: "strict-moves", Usage: "reject Waiting as the host move"},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := loadConfig(c)
			if err != nil {
				return ctx, err
			}
			*cfg = loaded
			if err := setupLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{serve, migrate},
		Action:   serve.Action,
	}
}

// loadConfig reads the environment, then lets explicitly set flags win.
func loadConfig(c *cli.Command) (config.Server, error) {
	return config.LoadServer(func(cfg *config.Server) {
		strFlags := map[string]*string{
			"log-level":      &cfg.LogLevel,
			"log-format":     &cfg.LogFormat,
			"addr":           &cfg.HTTPAddr,
			"store":          &cfg.Store,
			"dsn":            &cfg.DBDSN,
			"sqlite-path":    &cfg.SQLitePath,
			"migrations-dir": &cfg.MigrationsDir,
		}
		for name, dst := range strFlags {
			if c.IsSet(name) {
				*dst = c.String(name)
			}
		}
		if c.IsSet("guard-initialize") {
			cfg.GuardInitialize = c.Bool("guard-initialize")
		}
		if c.IsSet("strict-moves") {
			cfg.StrictMoves = c.Bool("strict-moves")
		}
	})
}

func setupLogger(level, format string, out io.Writer) error {
	parsedLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger().Level(parsedLevel)
	return nil
}

type stores struct {
	tx     ports.TxManager
	states ports.StateRepository
	games  ports.GameRepository
	close  func() error
}

func buildStores(ctx context.Context, cfg config.Server, logger zerolog.Logger) (stores, error) {
	switch cfg.Store {
	case config.StoreMemory:
		mem := memory.NewStore()
		return stores{
			tx:     memory.NewTxManager(mem),
			states: memory.NewStateRepo(mem),
			games:  memory.NewGameRepo(mem),
			close:  func() error { return nil },
		}, nil
	case config.StoreSQLite:
		db, err := sqliterepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		return stores{
			tx:     sqliterepo.NewTxManager(db),
			states: sqliterepo.NewStateRepo(db),
			games:  sqliterepo.NewGameRepo(db),
			close:  db.Close,
		}, nil
	case config.StorePostgres:
		db, err := gormrepo.OpenPostgres(cfg.DBDSN, logger)
		if err != nil {
			return stores{}, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return stores{}, fmt.Errorf("postgres handle: %w", err)
		}
		return stores{
			tx:     gormrepo.NewTxManager(db),
			states: gormrepo.NewStateRepo(db),
			games:  gormrepo.NewGameRepo(db),
			close:  sqlDB.Close,
		}, nil
	default:
		return stores{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func newUseCase(cfg config.Server, st stores, metrics ports.GameMetrics, logger zerolog.Logger) session.UseCase {
	return session.UseCase{
		TxManager: st.tx,
		States:    st.states,
		Games:     st.games,
		Metrics:   metrics,
		Log:       logger,
		Contract:  game.ContractInfo{Name: cfg.ContractName, Version: version},
		Policy: session.Policy{
			GuardInitialize: cfg.GuardInitialize,
			StrictMoves:     cfg.StrictMoves,
		},
	}
}

func runServer(ctx context.Context, cfg config.Server) error {
	st, err := buildStores(ctx, cfg, log.With().Str("component", "store").Logger())
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	kpiRecorder := metricsinmem.NewRecorder()
	h := httpadapter.Handler{
		SessionUC: newUseCase(cfg, st, kpiRecorder, log.With().Str("component", "session").Logger()),
		KPI:       kpiRecorder,
		Log:       log.With().Str("component", "http").Logger(),
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddr))
	h.RegisterRoutes(s)

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.Store).Str("version", version).Msg("rpsarena server listening")
	s.Spin()
	return nil
}

var errMigrateStore = errors.New("migrate only applies to the postgres store; sqlite migrates on open")

func runMigrations(ctx context.Context, cfg config.Server) error {
	if cfg.Store != config.StorePostgres {
		return errMigrateStore
	}
	logger := log.With().Str("component", "migrate").Logger()
	db, err := gormrepo.OpenPostgres(cfg.DBDSN, logger)
	if err != nil {
		return err
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, cfg.MigrationsDir, logger)
	if err != nil {
		return err
	}
	logger.Info().Int("applied", applied).Str("dir", cfg.MigrationsDir).Msg("migrations complete")
	return nil
}
