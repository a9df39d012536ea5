package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// config is resolved in priority order: flags, then environment
// variables, then an optional config file, then these defaults.
type config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	LogLevel string `yaml:"log_level"`
}

func defaultConfig() config {
	return config{
		Port:     25565,
		Username: "unknown",
		LogLevel: "info",
	}
}

func loadConfig(args []string) (config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("MCBOT_CONFIG"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("MCBOT_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MCBOT_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Port)
	}
	if v := os.Getenv("MCBOT_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("MCBOT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	fs := flag.NewFlagSet("mcbot", flag.ContinueOnError)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "server host (required)")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	fs.StringVar(&cfg.Username, "username", cfg.Username, "bot username")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.Host == "" {
		return cfg, fmt.Errorf("mcbot: -host (or MCBOT_HOST) is required")
	}
	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
