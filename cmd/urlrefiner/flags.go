package main

import (
	"strings"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/spf13/pflag"
)

// AppFlags holds every command-line option. Options only override the
// configuration file when they were set explicitly.
type AppFlags struct {
	InputFile  string
	SaveToFile bool
	Value      string
	Mode       string
	Exclude    []string
	IgnorePath bool
	Format     string
	ConfigFile string
	LogLevel   string
	LogFormat  string
	LogFile    string
	NoProgress bool
	Address    string
}

// bindGlobal registers the options shared by every command.
func (f *AppFlags) bindGlobal(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Path to a YAML/JSON configuration file (default: $"+config.ConfigPathEnv+", ./config.yaml, ./config.json)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, "log-format", "", "Log format: console, json, text")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file (rotated)")

	fs.StringVarP(&f.Value, "value", "v", config.DefaultRefinerValue, "Value used to replace or append to parameter values")
	fs.StringVarP(&f.Mode, "mode", "m", config.DefaultRefinerMode, "Rewrite mode: "+strings.Join(refiner.Modes(), " or "))
	fs.StringSliceVarP(&f.Exclude, "exclude", "e", nil, "Parameter names to leave untouched (repeatable, comma-separated)")
	fs.BoolVar(&f.IgnorePath, "ignore-path", false, "Deduplicate on host and parameter names only, ignoring the path")
}

// bindRefine registers the options of the refine (root) command.
func (f *AppFlags) bindRefine(fs *pflag.FlagSet) {
	fs.StringVarP(&f.InputFile, "input", "i", "", "Input file with one URL per line (default: stdin)")
	fs.BoolVarP(&f.SaveToFile, "output", "o", false, "Save the result to a timestamped file in the output directory")
	fs.StringVarP(&f.Format, "format", "f", config.DefaultOutputFormat, "Output file format: text, json, parquet")
	fs.BoolVar(&f.NoProgress, "no-progress", false, "Disable periodic progress logging")
}

// bindServe registers the options of the serve command.
func (f *AppFlags) bindServe(fs *pflag.FlagSet) {
	fs.StringVar(&f.Address, "addr", config.DefaultServerAddress, "Address to listen on")
}

// applyTo copies the explicitly set options into cfg.
func (f *AppFlags) applyTo(cfg *config.GlobalConfig, fs *pflag.FlagSet) {
	changed := func(name string) bool {
		flag := fs.Lookup(name)
		return flag != nil && flag.Changed
	}

	if changed("value") {
		cfg.RefinerConfig.Value = f.Value
	}
	if changed("mode") {
		cfg.RefinerConfig.Mode = strings.ToLower(strings.TrimSpace(f.Mode))
	}
	if changed("exclude") {
		cfg.RefinerConfig.ExcludeParams = cleanList(f.Exclude)
	}
	if changed("ignore-path") {
		cfg.RefinerConfig.IgnorePath = f.IgnorePath
	}

	if changed("input") {
		cfg.InputConfig.InputFile = f.InputFile
	}
	if changed("output") {
		cfg.OutputConfig.SaveToFile = f.SaveToFile
	}
	if changed("format") {
		cfg.OutputConfig.Format = strings.ToLower(strings.TrimSpace(f.Format))
	}
	if changed("no-progress") && f.NoProgress {
		cfg.ProgressConfig.EnableProgress = false
	}

	if changed("log-level") {
		cfg.LogConfig.LogLevel = f.LogLevel
	}
	if changed("log-format") {
		cfg.LogConfig.LogFormat = f.LogFormat
	}
	if changed("log-file") {
		cfg.LogConfig.LogFile = f.LogFile
	}

	if changed("addr") {
		cfg.ServerConfig.Address = f.Address
	}
}

// cleanList trims names and drops empty ones, so "-e 'a, b,'" yields [a b].
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
