package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/watchlist/internal/config"
	"github.com/jask/watchlist/internal/database"
	"github.com/jask/watchlist/internal/database/repository"
	"github.com/jask/watchlist/internal/logging"
	"github.com/jask/watchlist/internal/service"
	"github.com/jask/watchlist/internal/tui"
)

// env is everything a command needs once config and storage are open.
type env struct {
	cfg      config.Config
	log      *logging.Logger
	db       *sql.DB
	entities *repository.EntityRepo
	tags     *repository.TagRepo
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
	_ = e.log.Close()
}

var configPath string

var rootCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Browse and prune recognised people and vehicles",
	Long: `watchlist keeps a local catalogue of recurring people and vehicles.

Run without a subcommand to open the terminal workspace.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/watchlist/config.toml)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// openEnv loads config, opens the log, then opens and migrates the database.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New().FromPath(cfg.Log.Path).Level(cfg.Log.Level).Make()
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	e := &env{cfg: cfg, log: log}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		e.Close()
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	e.db = db
	if err := database.RunMigrationsWithDB(db); err != nil {
		e.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		e.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	e.entities = repository.NewEntityRepo(db)
	e.tags = repository.NewTagRepo(db)
	log.Debug().Str("db", cfg.Database.Path).Msg("storage ready")
	return e, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	loc, err := e.cfg.Location()
	if err != nil {
		e.log.Warn().Err(err).Msg("using local timezone")
	}

	app := tui.New(ctx, e.cfg, tui.Services{
		Catalog:   &service.Catalog{Entities: e.entities},
		Remover:   &service.Remover{Entities: e.entities},
		Sightings: e.entities,
	}, e.log.Logger, loc)

	e.log.Info().Dur("grace_period", app.Workspace().GracePeriod()).Msg("workspace started")
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	app.Workspace().Close()
	return nil
}
