package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/pflag"

	"emirrorquest/client/internal/app"
	"emirrorquest/client/internal/config"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	configPath := fs.String("config", "", "path to a config file (yaml, toml or json)")
	fs.String("store.driver", "", "settings store: sqlite, keyring, redis or memory")
	fs.String("log.level", "", "log level: debug, info, warn or error")
	_ = fs.Parse(os.Args[1:])

	// 1. Config
	v := config.New()
	if err := config.BindFlags(v, fs); err != nil {
		log.Fatalf("Failed to bind flags: %v", err)
	}
	cfg, err := config.FromViperFile(v, *configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Log)

	// 2. Client (store + settings)
	ctx := context.Background()
	client, err := app.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	s := client.Settings().Get()
	logger.Info("settings loaded",
		"key", client.Settings().Key(),
		"ip", s.IP,
		"max_score", s.MaxScore,
		"open_response_types", client.Policy().AllowOpenResponseTypes,
	)
}
