package main

import (
	"context"
	"flag"
	"os"

	"github.com/Temutjin2k/taxi-pulse/config"
	"github.com/Temutjin2k/taxi-pulse/internal/app"
	"github.com/Temutjin2k/taxi-pulse/pkg/logger"
)

var (
	helpFlag   = flag.Bool("help", false, "Show help message")
	configPath = flag.String("config-path", "config.yaml", "Path to the config yaml file")
)

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger("", logger.LevelDebug)

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		config.PrintHelp()
		os.Exit(1)
	}

	log = logger.InitLogger("dashboard", cfg.Log.Level)
	log.Info(ctx, "configuration loaded",
		"source_mode", cfg.Source.Mode,
		"period", cfg.Dataset.Period(),
		"sample_size", cfg.Dataset.SampleSize,
	)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Run(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
