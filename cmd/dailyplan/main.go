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

	"dailyplan/internal/config"
	appLog "dailyplan/internal/log"
	"dailyplan/internal/planner"
)

type flagConfig struct {
	configPath string
	logLevel   string
	refresh    string
}

func main() {
	flags := parseFlags()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: dailyplan [flags] <vaultRoot> <eventsSource> [targetDate]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	vaultRoot := args[0]
	eventsSource := args[1]

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI overrides config.
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	if flags.refresh != "" {
		conf.RefreshCron = flags.refresh
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	targetDate := time.Now()
	if len(args) > 2 {
		targetDate, err = time.ParseInLocation("2006-01-02", args[2], time.Local)
		if err != nil {
			appLog.Error("invalid target date", err, "date", args[2])
			os.Exit(1)
		}
	}

	appLog.Info("dailyplan starting",
		"vault", vaultRoot,
		"source", eventsSource,
		"date", targetDate.Format("2006-01-02"),
		"refresh", conf.RefreshCron,
	)

	p := planner.New(conf, vaultRoot)

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

	if err := p.Run(ctx, eventsSource, targetDate); err != nil {
		appLog.Error("run failed", err)
		os.Exit(1)
	}

	if conf.RefreshCron == "" {
		return
	}

	// Refresh mode: re-run the idempotent pipeline on a schedule until a
	// signal arrives.
	c := cron.New()
	_, err = c.AddFunc(conf.RefreshCron, func() {
		if err := p.Run(ctx, eventsSource, targetDate); err != nil {
			appLog.Error("scheduled run failed", err)
		}
	})
	if err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()

	<-ctx.Done()
	c.Stop()
	appLog.Info("dailyplan exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (optional; defaults apply)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.StringVar(&cfg.refresh, "refresh", "", "Cron schedule for periodic re-runs (overrides config)")

	flag.Parse()

	return cfg
}
