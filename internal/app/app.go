package app

import (
	"fmt"
	"log/slog"

	"github.com/peakscale/weightlog/internal/notify"
	"github.com/peakscale/weightlog/internal/prefs"
	"github.com/peakscale/weightlog/internal/service"
	"github.com/peakscale/weightlog/internal/store/drivers/sqlite"
	"github.com/peakscale/weightlog/pkg/ratex"
	"github.com/peakscale/weightlog/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires the data layer and services behind the CLI.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db *sqlite.Store

	Auth    *service.AuthService
	Tracker *service.TrackerService
}

// New opens the store, applies any pending schema migrations, and builds
// the services. A migration failure is terminal: the store is closed and
// the open attempt reported as failed.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "weightlog",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	db, err := sqlite.NewStore(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DatabaseFile, err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database %s: %w", cfg.DatabaseFile, err)
	}
	app.db = db

	flags, err := prefs.NewFile(cfg.FlagsFile)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app.Auth = &service.AuthService{
		Store:   db,
		Limiter: ratex.NewKeyed(ratex.StrictLimit),
	}
	app.Tracker = &service.TrackerService{
		Store:    db,
		Flags:    flags,
		Notifier: &notify.LogNotifier{Logger: app.logger},
	}

	return app, nil
}

func (app *Application) Logger() *slog.Logger { return app.logger }

// Close releases the database handle.
func (app *Application) Close() error {
	return app.db.Close()
}
