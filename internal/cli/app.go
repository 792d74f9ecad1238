package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/pocket/internal/config"
	"github.com/idilsaglam/pocket/internal/logger"
	"github.com/idilsaglam/pocket/internal/store/kv"
	"github.com/idilsaglam/pocket/internal/ui"
)

// RootOptions holds global flags for both command trees. Empty values
// leave the environment's setting in place.
type RootOptions struct {
	DataDir  string
	Backend  string
	Theme    string
	Color    string
	LogLevel string
}

func addRootFlags(cmd *cobra.Command, opts *RootOptions) {
	f := cmd.PersistentFlags()
	f.StringVar(&opts.DataDir, "data-dir", "", "directory holding the stored lists (env "+config.EnvDataDir+")")
	f.StringVar(&opts.Backend, "backend", "", "storage backend: file|sqlite (env "+config.EnvBackend+")")
	f.StringVar(&opts.Theme, "theme", "", "output theme: classic|neon|mono (env "+config.EnvTheme+")")
	f.StringVar(&opts.Color, "color", "", "when to color output: auto|always|never (env "+config.EnvColor+")")
	f.StringVar(&opts.LogLevel, "log-level", "", "debug|info|warn|error (env "+config.EnvLogLevel+")")
}

// app is what every subcommand needs: settings, storage and a logger.
type app struct {
	cfg     *config.Config
	store   kv.KV
	log     *slog.Logger
	logFile *os.File
}

// openApp resolves configuration and opens storage. Interactive sessions
// log to a file so the alternate screen stays clean.
func openApp(cmd *cobra.Command, opts *RootOptions, interactive bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if opts.Color != "" {
		cfg.Color = opts.Color
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	mode, err := ui.ParseColorMode(cfg.Color)
	if err != nil {
		return nil, &UsageError{Msg: "--color", Err: err}
	}
	ui.SetColorMode(mode)
	ui.SetTheme(cfg.Theme)

	store, err := kv.Open(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	a := &app{cfg: cfg, store: store}
	var w io.Writer = cmd.ErrOrStderr()
	if interactive {
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("open log: %w", err)
		}
		a.logFile = f
		w = f
	}
	a.log = logger.Init(w, cfg.LogLevel, cfg.LogJSON)
	a.log.Debug("storage opened", "backend", cfg.Backend, "dir", cfg.DataDir)
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close storage", "err", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
