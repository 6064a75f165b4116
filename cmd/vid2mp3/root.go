package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backmassage/vid2mp3/internal/check"
	"github.com/backmassage/vid2mp3/internal/config"
	"github.com/backmassage/vid2mp3/internal/display"
	"github.com/backmassage/vid2mp3/internal/logging"
	"github.com/backmassage/vid2mp3/internal/pipeline"
)

var errChecksFailed = errors.New("system check failed")

func newRootCommand() *cobra.Command {
	var flags config.Flags

	rootCmd := &cobra.Command{
		Use:   "vid2mp3 [input_dir [output_dir]]",
		Short: "Extract the audio of every video in a tree as tagged MP3",
		Long: "vid2mp3 converts every .mp4, .mkv, .avi, .mov, .webm and .flv file under\n" +
			"input_dir (default \".\") to MP3 under output_dir (default \"completed\"),\n" +
			"mirroring the directory layout and carrying over title, artist, album,\n" +
			"date, genre, album artist and track tags.",
		Args:          cobra.MaximumNArgs(2),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &flags, args)
		},
	}
	flags.Register(rootCmd.Flags())
	return rootCmd
}

// run loads configuration, checks dependencies and runs the batch. Per-file
// failures are reported in the log and summary, never as an error.
func run(cmd *cobra.Command, flags *config.Flags, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// 1. Defaults < config file < environment < flags.
	cfg := config.DefaultConfig()
	configPath, err := config.Load(flags.ConfigPath, &cfg)
	if err != nil {
		return err
	}
	if err := flags.Apply(cmd.Flags(), args, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	display.PrintBanner(cmd.OutOrStdout())
	if configPath != "" {
		log.Debug("Config: %s", configPath)
	}

	// 2. System check mode.
	if cfg.CheckOnly {
		if !check.RunCheck(ctx, &cfg, log) {
			return errChecksFailed
		}
		return nil
	}

	// 3. ffmpeg and ffprobe must be usable before anything is touched.
	if err := check.CheckDeps(ctx, &cfg); err != nil {
		return err
	}
	bins, err := check.Resolve(&cfg)
	if err != nil {
		return err
	}
	cfg.FfmpegPath = bins.Ffmpeg
	cfg.FfprobePath = bins.Ffprobe
	log.Debug("ffmpeg: %s, ffprobe: %s", bins.Ffmpeg, bins.Ffprobe)

	// 4. Resolve paths: input must exist, output is created unless dry-run.
	inputAbs, err := absPath(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("cannot resolve input path %s: %w", cfg.InputDir, err)
	}
	fi, err := os.Stat(inputAbs)
	if err != nil {
		return fmt.Errorf("input not found: %s", cfg.InputDir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("input is not a directory: %s", cfg.InputDir)
	}
	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", cfg.OutputDir, err)
		}
	}
	outputAbs, err := absPath(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("cannot resolve output path %s: %w", cfg.OutputDir, err)
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		return err
	}
	cfg.InputDir = inputAbs
	cfg.OutputDir = outputAbs

	// 5. One run per output tree.
	if !cfg.DryRun {
		lock, err := pipeline.AcquireLock(outputAbs)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Warn("Failed to release lock %s: %v", lock.Path(), err)
			}
		}()
	}

	log.Info("=== vid2mp3 v%s ===", version)
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}

	stats := pipeline.Run(ctx, &cfg, log, pipeline.DefaultDeps(&cfg, log))
	if stats.Interrupted {
		return context.Canceled
	}
	return nil
}

// absPath returns the absolute path with symlinks resolved when the path
// exists, for comparing input vs output hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		return abs, nil
	}
	return resolved, err
}
