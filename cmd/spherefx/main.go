package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"runtime"

	"spherefx/internal/logger"
	"spherefx/pkg/config"
	"spherefx/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the config file")
	flag.Parse()

	cfg, loadErr := config.LoadConfig(*configPath)
	if loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
		log.Fatalf("Failed to load configuration: %v", loadErr)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	appLog := logger.NewLogger(cfg.Log.Level)
	if cfg.Log.File != "" {
		l, err := logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		appLog = l
	}
	defer appLog.Close()

	if loadErr != nil {
		appLog.Warnf("%v", loadErr)
	}
	if err := cfg.Validate(); err != nil {
		appLog.Fatalf("Invalid configuration: %v", err)
	}

	appLog.Info("Starting spherefx...")
	app, err := engine.NewEngine(cfg, appLog)
	if err != nil {
		appLog.Fatalf("Failed to initialize engine: %v", err)
	}

	appLog.Info("Engine initialized, starting frame loop...")
	app.Run()
}
