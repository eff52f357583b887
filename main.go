package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/boxlabel/app"
	"github.com/soocke/boxlabel/config"
)

func main() {
	cfgPath := flag.String("config", "boxlabel.json", "path to the JSON config file")
	dir := flag.String("dir", "", "image directory (overrides config)")
	annotations := flag.String("annotations", "", "annotation file (overrides config)")
	debugMode := flag.Bool("debug", false, "enable debug logging and runtime metrics")
	flag.Parse()

	// Defaults, then config file and environment
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if *dir != "" {
		cfg.ImageDir = *dir
	}
	if *annotations != "" {
		cfg.AnnotationFile = *annotations
	}
	if *debugMode {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// Set up logger
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level, cfg.LogFile)

	c, err := app.BuildContainer(cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application := app.NewApp("Box Label", c)
	application.Start()
}
