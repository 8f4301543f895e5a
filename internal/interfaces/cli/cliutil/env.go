// Package cliutil holds the wiring shared by every tvmanager command.
package cliutil

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	clientApp "tvmanager/internal/application/client"
	settingApp "tvmanager/internal/application/setting"
	"tvmanager/internal/infrastructure/config"
	"tvmanager/internal/infrastructure/database"
	"tvmanager/internal/infrastructure/messaging"
	"tvmanager/internal/infrastructure/migration"
	"tvmanager/internal/infrastructure/repository"
	"tvmanager/internal/shared/biztime"
	"tvmanager/internal/shared/logger"
)

var (
	configPath string
	verbose    bool
)

// BindRootFlags registers the flags every subcommand understands.
func BindRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// ConfigPath returns the value of the --config flag.
func ConfigPath() string {
	return configPath
}

// Env is the initialised runtime of a single command invocation.
type Env struct {
	Config *config.Config
	Log    logger.Interface
	DB     *gorm.DB

	logCloser io.Closer
}

// Setup loads configuration, then initialises logging, the business timezone
// and the database connection. No migrations are applied.
func Setup() (*Env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logger.Level = "debug"
	}

	closer, err := logger.Init(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.App.Timezone); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Storage); err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Env{
		Config:    cfg,
		Log:       logger.NewLogger(),
		DB:        database.Get(),
		logCloser: closer,
	}, nil
}

// Close releases the database connection and the log output.
func (e *Env) Close() {
	if err := database.Close(); err != nil {
		e.Log.Warnw("failed to close database", "error", err)
	}
	_ = e.logCloser.Close()
}

// App bundles the services the domain commands work with.
type App struct {
	*Env
	Clients  *clientApp.Store
	Settings *settingApp.Service
	Links    *messaging.LinkBuilder
}

// Open runs Setup, applies pending migrations and loads the client store.
func Open(ctx context.Context) (*App, error) {
	env, err := Setup()
	if err != nil {
		return nil, err
	}

	if err := migration.NewManager(migration.StrategyGoose, env.Log).Migrate(env.DB); err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	clientRepo := repository.NewClientBlobRepository(env.DB, env.Log)
	settingRepo := repository.NewSettingBlobRepository(env.DB, env.Log)

	return &App{
		Env:      env,
		Clients:  clientApp.Open(ctx, clientRepo, biztime.SystemClock{}, env.Log),
		Settings: settingApp.NewService(settingRepo, env.Log),
		Links:    messaging.NewLinkBuilder(env.Config.App.CountryCode),
	}, nil
}

// RunWithApp adapts fn into a cobra RunE that opens and closes an App.
func RunWithApp(fn func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := Open(cmd.Context())
		if err != nil {
			return err
		}
		defer app.Close()
		return fn(cmd, args, app)
	}
}
