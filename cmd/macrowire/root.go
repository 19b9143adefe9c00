package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cognicore/macrowire/internal/logging"
	"github.com/cognicore/macrowire/pkg/macrowire"
	"github.com/cognicore/macrowire/pkg/macrowire/classify"
	"github.com/cognicore/macrowire/pkg/macrowire/config"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
	"github.com/cognicore/macrowire/pkg/macrowire/store/jsonl"
	"github.com/cognicore/macrowire/pkg/macrowire/store/sqlite"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries the global flags and what PersistentPreRunE builds from them.
type app struct {
	configPath string
	dataDir    string
	logLevel   string
	lang       string
	asJSON     bool

	cfg    config.Config
	logger *log.Logger
	reader *macrowire.Reader
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "macrowire",
		Short: "Read and classify the macro-finance news feed",
		Long: `macrowire reads the crawler's news.jsonl and index.json, and prints paged,
per-source and per-topic views of the feed together with ingestion health.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.reader == nil {
				return nil
			}
			return a.reader.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to config file (default $XDG_CONFIG_HOME/macrowire/config.yaml)")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory holding news.jsonl and index.json (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&a.lang, "lang", "zh", "label language: zh or en")
	pf.BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		newNewsCmd(a),
		newSourcesCmd(a),
		newTopicsCmd(a),
		newClassifyCmd(a),
		newStatusCmd(a),
		newOverviewCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	logger, err := logging.New(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	st, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	a.reader = macrowire.New(macrowire.Options{
		Store:     st,
		IndexPath: cfg.IndexPath(),
		Logger:    logger,
	})
	logger.Debug("reader ready", "store", cfg.Store, "data_dir", cfg.DataDir)
	return nil
}

func openStore(cfg config.Config, logger *log.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreJSONL:
		return jsonl.Open(cfg.NewsPath(), logger), nil
	case config.StoreSQLite:
		return sqlite.OpenSQLite(cfg.DatabasePath()), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func (a *app) labelLang() classify.Lang {
	return classify.ParseLang(a.lang)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "macrowire %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
