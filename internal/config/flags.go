package config

// This file registers CLI flags and applies them over a loaded Config.
// Only flags the user actually set override file/environment values, so
// negated flags (e.g. --no-verify-tags) keep their defaults unless passed.

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flags holds raw flag values captured by cobra before the config file is
// read. Apply copies the ones the user set into a Config.
type Flags struct {
	ConfigPath   string
	Force        bool
	DryRun       bool
	Verbose      bool
	ForceColor   bool
	NoColor      bool
	LogFile      string
	Check        bool
	NoVerifyTags bool
	NoProgress   bool
	Quality      int
}

// Register defines all flags on fs.
func (f *Flags) Register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "Configuration file path (TOML)")
	fs.BoolVarP(&f.Force, "force", "f", false, "Re-convert files whose MP3 already exists")
	fs.BoolVarP(&f.DryRun, "dry-run", "d", false, "Preview only; do not convert anything")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Verbose output (show ffmpeg output and debug lines)")
	fs.BoolVar(&f.ForceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.LogFile, "log", "l", "", "Append logs to file")
	fs.BoolVar(&f.Check, "check", false, "Run dependency diagnostics and exit")
	fs.BoolVar(&f.NoVerifyTags, "no-verify-tags", false, "Do not read back ID3 tags after conversion")
	fs.BoolVar(&f.NoProgress, "no-progress", false, "Hide the fallback conversion progress bar")
	fs.IntVarP(&f.Quality, "quality", "q", 0, "libmp3lame VBR quality 0-9 (0 is best)")
}

// Apply copies explicitly set flags and positional args into cfg.
func (f *Flags) Apply(fs *pflag.FlagSet, args []string, cfg *Config) error {
	if fs.Changed("force") && f.Force {
		cfg.SkipExisting = false
	}
	if fs.Changed("dry-run") {
		cfg.DryRun = f.DryRun
	}
	if fs.Changed("verbose") {
		cfg.Verbose = f.Verbose
	}
	if fs.Changed("log") {
		cfg.LogFile = f.LogFile
	}
	if fs.Changed("quality") {
		cfg.AudioQuality = f.Quality
	}
	if f.NoVerifyTags {
		cfg.VerifyTags = false
	}
	if f.NoProgress {
		cfg.ShowProgress = false
	}
	if f.NoColor {
		cfg.ColorMode = ColorNever
	} else if f.ForceColor {
		cfg.ColorMode = ColorAlways
	}
	cfg.CheckOnly = f.Check

	return parsePositionalArgs(args, cfg)
}

// parsePositionalArgs sets InputDir and OutputDir from up to two positional
// args; missing ones keep their configured values.
func parsePositionalArgs(args []string, cfg *Config) error {
	if len(args) > 2 {
		return fmt.Errorf("expected at most input_dir and output_dir, got %d arguments", len(args))
	}
	if len(args) >= 1 {
		cfg.InputDir = NormalizeDirArg(args[0])
	}
	if len(args) == 2 {
		cfg.OutputDir = NormalizeDirArg(args[1])
	}
	return nil
}
