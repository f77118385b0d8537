package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gkj-pamulang/panitia/internal/config"
	"github.com/gkj-pamulang/panitia/internal/feed"
	"github.com/gkj-pamulang/panitia/internal/fetch"
	"github.com/gkj-pamulang/panitia/internal/logging"
	"github.com/gkj-pamulang/panitia/internal/sheet"
	"github.com/gkj-pamulang/panitia/internal/static"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig   string
	flagEnvFile  string
	flagQuiet    bool
	flagLogLevel string
	flagStrict   bool
)

var rootCmd = &cobra.Command{
	Use:   "panitia",
	Short: "Pastor-calling committee dashboard",
	Long:  "Funding progress, donor status, faith pledges and the calling timeline, read from the committee's published sheets.",

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Assigned here: runFunding reads rootCmd flags.
	rootCmd.RunE = runFunding

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file with PANITIA_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Reject sheets with short rows instead of padding them")
}

// loadConfig resolves settings from the config file, the dotenv file,
// the environment and finally the command line.
func loadConfig() (config.Config, error) {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return config.Config{}, err
	}

	path := flagConfig
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return cfg, err
	}
	cfg = config.ApplyEnv(cfg)

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if rootCmd.PersistentFlags().Changed("strict") {
		cfg.Schema.Strict = flagStrict
	}
	return cfg, cfg.Validate()
}

// newLogger builds the logger for short-lived commands: console output
// on stderr, errors only with --quiet.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if flagQuiet {
		level = "error"
	}
	return logging.NewWriter(os.Stderr, level)
}

func sourceFrom(sc config.SourceConfig, schema sheet.Schema) (fetch.Source, error) {
	f, err := sheet.ParseFormat(sc.Format)
	if err != nil {
		return fetch.Source{}, err
	}
	return fetch.Source{URL: sc.URL, Format: f, Schema: schema}, nil
}

// newLoader wires the fetch client, sheet sources and static dataset.
func newLoader(cfg config.Config, log *zap.Logger) (*feed.Loader, error) {
	var src feed.Sources
	var err error
	if src.Income, err = sourceFrom(cfg.Sources.Income, sheet.IncomeSchema); err != nil {
		return nil, err
	}
	if src.Donors, err = sourceFrom(cfg.Sources.Donors, sheet.DonorSchema); err != nil {
		return nil, err
	}
	if src.Pledges, err = sourceFrom(cfg.Sources.Pledges, sheet.PledgeSchema); err != nil {
		return nil, err
	}
	src.PledgeSearchURL = cfg.Sources.Pledges.SearchURL

	ds, err := static.Load(cfg.Static.OverridePath)
	if err != nil {
		return nil, err
	}

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Refresh.Timeout()),
		fetch.WithLogger(log),
	)
	return feed.NewLoader(client, src, sheet.Mapper{Strict: cfg.Schema.Strict}, ds, log), nil
}

// env is what every data command needs.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	loader *feed.Loader
}

func setup() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	loader, err := newLoader(cfg, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, loader: loader}, nil
}

// loadSnapshot performs one load of every view for report commands.
func loadSnapshot() (*env, *feed.Snapshot, error) {
	e, err := setup()
	if err != nil {
		return nil, nil, err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Fetching sheets...\n")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return e, e.loader.Load(ctx), nil
}

// watchStatic reloads the override dataset on change and refreshes the
// views that depend on it.
func watchStatic(ctx context.Context, cfg config.Config, loader *feed.Loader, r *feed.Refresher, log *zap.Logger) {
	if cfg.Static.OverridePath == "" || !cfg.Static.Watch {
		return
	}
	w := &static.Watcher{
		Path: cfg.Static.OverridePath,
		Log:  log,
		OnChange: func(ds *static.Dataset) {
			log.Info("static dataset reloaded", zap.String("path", cfg.Static.OverridePath))
			loader.SetDataset(ds)
			r.Refresh(ctx)
		},
	}
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Warn("static dataset watcher stopped", zap.Error(err))
		}
	}()
}
