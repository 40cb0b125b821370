package main

import (
	"flag"

	"github.com/joho/godotenv"

	"github.com/dcamarg/smart-inspector-go/app"
	"github.com/dcamarg/smart-inspector-go/config"
	"github.com/dcamarg/smart-inspector-go/debug"
)

func main() {
	cfgPath := flag.String("config", "inspector.json", "path to the JSON configuration file")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime stats")
	flag.Parse()

	// .env carries the optional remote database DSN; absence is fine.
	_ = godotenv.Load()

	logger := newLogger(*debugFlag)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", err)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if cfg.Debug {
		debug.StartRuntimeStats(logger)
	}

	application := app.NewApp("Smart Inspector", cfg, *cfgPath, logger)
	application.Start()
}
