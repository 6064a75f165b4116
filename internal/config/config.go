// Package config holds runtime configuration: defaults, TOML file and
// environment loading, CLI flag overrides, and validation. Defaults match
// the classic batch layout: convert "." into "completed".
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then overlaid by [Load] (file + environment) and finally by flags before
// being passed (by pointer) to packages that need it.
type Config struct {
	// Paths (positional args, config file or environment).
	InputDir  string `toml:"input_dir" env:"VID2MP3_INPUT_DIR" validate:"required"`
	OutputDir string `toml:"output_dir" env:"VID2MP3_OUTPUT_DIR" validate:"required"`

	// External tools. Empty means "resolve from PATH".
	FfmpegPath  string `toml:"ffmpeg_path" env:"VID2MP3_FFMPEG"`
	FfprobePath string `toml:"ffprobe_path" env:"VID2MP3_FFPROBE"`

	// Encoding. AudioQuality is the libmp3lame VBR quality passed as -q:a;
	// 0 is the best-quality variable bitrate setting.
	AudioQuality int `toml:"audio_quality" env:"VID2MP3_AUDIO_QUALITY" validate:"min=0,max=9"`

	// Behavior flags.
	DryRun       bool `toml:"dry_run" env:"VID2MP3_DRY_RUN"`
	SkipExisting bool `toml:"skip_existing" env:"VID2MP3_SKIP_EXISTING"` // Default: true. Cleared by --force.
	VerifyTags   bool `toml:"verify_tags" env:"VID2MP3_VERIFY_TAGS"`     // Default: true. Read back ID3 tags after conversion.

	// Display and logging.
	Verbose      bool      `toml:"verbose" env:"VID2MP3_VERBOSE"`
	ShowProgress bool      `toml:"show_progress" env:"VID2MP3_SHOW_PROGRESS"` // Default: true.
	ColorMode    ColorMode `toml:"color" env:"VID2MP3_COLOR" validate:"oneof=auto always never"`
	LogFile      string    `toml:"log_file" env:"VID2MP3_LOG_FILE"`
	CheckOnly    bool      `toml:"-"` // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with the stock defaults. Used as the base
// before [Load] and flag overrides apply.
func DefaultConfig() Config {
	return Config{
		InputDir:     ".",
		OutputDir:    "completed",
		AudioQuality: 0,
		DryRun:       false,
		SkipExisting: true,
		VerifyTags:   true,
		Verbose:      false,
		ShowProgress: true,
		ColorMode:    ColorAuto,
		CheckOnly:    false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks enum and range fields. When not in CheckOnly mode, it also
// requires that both input and output directory paths are non-empty.
func (c *Config) Validate() error {
	c.ColorMode = ColorMode(strings.ToLower(strings.TrimSpace(string(c.ColorMode))))

	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "InputDir", "OutputDir":
			if c.CheckOnly {
				continue
			}
			return errors.New("need input_dir and output_dir")
		case "ColorMode":
			return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
		case "AudioQuality":
			return fmt.Errorf("invalid audio quality %d (use 0-9, 0 is best)", c.AudioQuality)
		default:
			return fmt.Errorf("invalid %s: failed %q", fe.Field(), fe.Tag())
		}
	}
	return nil
}

// ValidatePaths rejects an output directory equal to the input directory:
// the mirror would be written over the source tree. An output directory
// nested inside the input is allowed (the default "completed" is) and is
// pruned from discovery instead. Both arguments must be absolute,
// symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	if filepath.Clean(outputAbs) == filepath.Clean(inputAbs) {
		return errors.New("output directory must differ from input directory")
	}
	return nil
}
