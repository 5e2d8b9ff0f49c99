package main

import (
	"context"
	"flag"
	"os"
	"time"

	"icsjson/internal/config"
	"icsjson/internal/export"
	appLog "icsjson/internal/log"
)

// flagConfig holds CLI flag values. Zero values leave the config untouched.
type flagConfig struct {
	configPath string
	url        string
	timeout    time.Duration
	pretty     bool
	strict     bool
	debug      bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		fail("failed to load config", err, "config_path", flags.configPath)
	}
	applyFlags(conf, flags)

	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	appLog.Debug("effective config",
		"timeout", conf.Timeout,
		"strict_timestamps", conf.StrictTimestamps,
		"pretty", conf.Pretty,
	)

	opts := export.Options{
		URL:     conf.URL,
		Timeout: conf.Timeout,
		Strict:  conf.StrictTimestamps,
		Pretty:  conf.Pretty,
	}
	if err := export.Run(context.Background(), opts, os.Stdout); err != nil {
		fail("export failed", err)
	}
}

var exit = os.Exit

// fail logs err to stderr and exits non-zero. stdout is left untouched.
func fail(msg string, err error, kv ...any) {
	appLog.Error(msg, err, kv...)
	exit(1)
}

func applyFlags(conf *config.Config, flags flagConfig) {
	if flags.url != "" {
		conf.URL = flags.url
	}
	if flags.timeout > 0 {
		conf.Timeout = flags.timeout
	}
	if flags.pretty {
		conf.Pretty = true
	}
	if flags.strict {
		conf.StrictTimestamps = true
	}
	if flags.debug {
		conf.LogLevel = "debug"
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to optional YAML config file")
	flag.StringVar(&cfg.url, "url", "", "ICS feed URL (overrides config if set)")
	flag.DurationVar(&cfg.timeout, "timeout", 0, "Request timeout, e.g. 30s (0 = none)")
	flag.BoolVar(&cfg.pretty, "pretty", false, "Indent JSON output")
	flag.BoolVar(&cfg.strict, "strict", false, "Fail on malformed DTSTART/DTEND instead of emitting null")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
