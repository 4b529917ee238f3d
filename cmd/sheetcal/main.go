package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"sheetcal/internal/build"
	"sheetcal/internal/config"
	"sheetcal/internal/emit"
	appLog "sheetcal/internal/log"
	"sheetcal/internal/sheet"
	"sheetcal/internal/web"
)

// flagConfig holds CLI flag values; flags override the config file.
type flagConfig struct {
	configPath string
	source     string
	listen     string
	once       bool
	debug      bool
}

func main() {
	appLog.Info("sheetcal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	if flags.source != "" {
		conf.CSVURL = flags.source
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	if conf.CSVURL == "" {
		appLog.Error("no CSV source configured", fmt.Errorf("set csv_url in %s or pass --source", flags.configPath))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		appLog.Error("invalid timezone in config", err, "timezone", conf.Timezone)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"source", conf.CSVURL,
		"timezone", conf.Timezone,
		"group_column", conf.GroupColumn,
		"output_dir", conf.OutputDir,
		"listen", conf.Listen,
		"refresh", conf.RefreshCron,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		if err := runBuild(ctx, conf, loc); err != nil {
			appLog.Error("build failed", err)
			os.Exit(1)
		}
		appLog.Info("sheetcal exiting")
		return
	}

	// Daemon mode: build now, rebuild on schedule, serve the output dir.
	if err := runBuild(ctx, conf, loc); err != nil {
		// The first build failing is not fatal in daemon mode; the next
		// scheduled run may succeed once the upstream recovers.
		appLog.Error("initial build failed", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := runBuild(ctx, conf, loc); err != nil {
			appLog.Error("scheduled build failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()

	if err := web.StartServer(ctx, conf); err != nil {
		appLog.Error("HTTP server failed", err)
		cancel()
	}

	<-c.Stop().Done()
	appLog.Info("sheetcal exiting")
}

// runBuild performs one fetch → translate → emit cycle.
func runBuild(ctx context.Context, conf *config.Config, loc *time.Location) error {
	started := time.Now()

	fetcher := sheet.NewFetcher(conf.CacheDir)
	res, err := fetcher.Fetch(ctx, conf.CSVURL)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	table, err := sheet.ParseTable(res.Body)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	writer := emit.NewWriter(conf.OutputDir, conf.Timezone)
	result, err := build.Run(table, build.Options{
		GroupColumn: conf.GroupColumn,
		Location:    loc,
	}, writer)
	if err != nil {
		return err
	}

	if err := emit.WriteManifest(conf.OutputDir, result.Entries); err != nil {
		return fmt.Errorf("manifest: %w", err)
	}

	appLog.Info("build complete",
		"calendars", len(result.Entries),
		"rows_seen", result.Stats.RowsSeen,
		"rows_filtered", result.Stats.RowsFiltered,
		"from_cache", res.FromCache,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	return nil
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/sheetcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.source, "source", "", "CSV URL or file path (overrides config if set)")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+build cycle and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
