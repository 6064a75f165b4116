// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for ffmpeg, ffprobe and the MP3 encoder.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/backmassage/vid2mp3/internal/config"
)

// DownloadURL is where users are sent when FFmpeg is missing.
const DownloadURL = "https://ffmpeg.org/download.html"

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrFfmpegNotFound  = errors.New("FFmpeg is not installed or not in PATH")
	ErrFfmpegBroken    = errors.New("FFmpeg is installed but 'ffmpeg -version' failed")
	ErrFfprobeNotFound = errors.New("ffprobe is not installed or not in PATH")
)

// DepError wraps a sentinel with the command that was tried and the
// instruction shown to the user.
type DepError struct {
	Err     error
	Command string
	Detail  string
}

func (e *DepError) Error() string {
	msg := fmt.Sprintf("%v (%s)", e.Err, e.Command)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg + ". Please install FFmpeg (it ships ffprobe). You can download it from: " + DownloadURL
}

func (e *DepError) Unwrap() error { return e.Err }

// Binaries are the resolved executables used by a run.
type Binaries struct {
	Ffmpeg  string
	Ffprobe string
}

// Resolve looks up the configured (or default) ffmpeg and ffprobe
// executables and returns their full paths.
func Resolve(cfg *config.Config) (Binaries, error) {
	ffmpegCmd := commandOrDefault(cfg.FfmpegPath, "ffmpeg")
	ffmpegPath, err := exec.LookPath(ffmpegCmd)
	if err != nil {
		return Binaries{}, &DepError{Err: ErrFfmpegNotFound, Command: ffmpegCmd}
	}

	ffprobeCmd := commandOrDefault(cfg.FfprobePath, "ffprobe")
	ffprobePath, err := exec.LookPath(ffprobeCmd)
	if err != nil {
		return Binaries{}, &DepError{Err: ErrFfprobeNotFound, Command: ffprobeCmd}
	}

	return Binaries{Ffmpeg: absOrSelf(ffmpegPath), Ffprobe: absOrSelf(ffprobePath)}, nil
}

// CheckDeps is the pre-pipeline validation: ffmpeg must be found and run,
// and ffprobe (used for tag extraction and by the media library) must be
// found. Returns a *DepError wrapping a sentinel on failure.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	ffmpegCmd := commandOrDefault(cfg.FfmpegPath, "ffmpeg")
	ffmpegPath, err := exec.LookPath(ffmpegCmd)
	if err != nil {
		return &DepError{Err: ErrFfmpegNotFound, Command: ffmpegCmd}
	}
	if _, err := versionLine(ctx, ffmpegPath); err != nil {
		return &DepError{Err: ErrFfmpegBroken, Command: ffmpegPath, Detail: err.Error()}
	}

	_, err = Resolve(cfg)
	return err
}

// --- internal helpers ---

func commandOrDefault(cmd, def string) string {
	if c := strings.TrimSpace(cmd); c != "" {
		return c
	}
	return def
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// versionLine runs "<bin> -version" and returns the first output line.
func versionLine(ctx context.Context, bin string) (string, error) {
	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.Index(line, "\n"); idx > 0 {
		line = line[:idx]
	}
	return line, nil
}

// runSilent runs a command and returns true if it exits with status 0.
// Both stdout and stderr are discarded.
func runSilent(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Run() == nil
}
