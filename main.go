package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"cardsmith/analyzer"
	"cardsmith/charx"
	"cardsmith/config"
	"cardsmith/indexer"
	"cardsmith/storage"
	"cardsmith/tokens"
)

var (
	cfg      *config.Config
	logger   *slog.Logger
	logLevel = new(slog.LevelVar)
	store    storage.FullRepo
	counter  *tokens.Counter
	anlz     *analyzer.Analyzer
	builder  *charx.Builder
	ix       *indexer.Indexer
)

func initApp(configPath string) error {
	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logfile, err := os.OpenFile(cfg.LogFile,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}
	logLevel.Set(slog.LevelInfo)
	logger = slog.New(slog.NewTextHandler(logfile, &slog.HandlerOptions{Level: logLevel}))
	store = storage.NewProviderSQL(cfg.DBPATH, cfg.AssetsDir, logger)
	if store == nil {
		return fmt.Errorf("failed to open db at %s", cfg.DBPATH)
	}
	counter = tokens.NewCounter(logger, cfg.TokenizerPath)
	anlz = analyzer.New(logger)
	builder = charx.NewBuilder(logger)
	ix = indexer.New(logger, store, cfg, indexer.NewAPIEmbedder(logger, cfg))
	return nil
}

func main() {
	apiPort := flag.Int("port", 0, "serve the http api on this port instead of the tui")
	configPath := flag.String("config", "config.toml", "path to config file")
	indexFile := flag.String("index", "", "index a reference document and exit")
	flag.Parse()
	if err := initApp(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *indexFile != "" {
		if err := ix.IndexFile(*indexFile); err != nil {
			logger.Error("failed to index file", "file", *indexFile, "error", err)
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if *apiPort > 0 {
		srv := &Server{config: cfg}
		srv.ListenToRequests(fmt.Sprintf("%d", *apiPort))
		return
	}
	if err := runTUI(); err != nil {
		logger.Error("failed to start tview app", "error", err)
		os.Exit(1)
	}
}
