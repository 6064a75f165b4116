package ffmpeg

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/backmassage/vid2mp3/internal/config"
)

// unknownError is the detail reported when ffmpeg fails without diagnostics.
const unknownError = "Unknown error"

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Result is the outcome of a primary conversion attempt.
type Result struct {
	OK     bool
	Detail string
	Reason Reason
}

// Execute runs args. When verbose is enabled, stderr is tee'd to os.Stderr in
// real time; otherwise it is captured silently for reporting.
func Execute(ctx context.Context, cfg *config.Config, args []string) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}

// Convert extracts the audio of job.Input into job.Output, overwriting it.
func Convert(ctx context.Context, cfg *config.Config, job Job) Result {
	res := Execute(ctx, cfg, Build(cfg, job))
	if res.Err == nil {
		return Result{OK: true}
	}

	detail := strings.TrimSpace(res.Stderr)
	if detail == "" {
		detail = unknownError
	}
	return Result{Detail: detail, Reason: Classify(res.Stderr)}
}

// Converter runs the primary conversion with a fixed configuration.
type Converter struct {
	cfg *config.Config
}

// NewConverter returns a Converter bound to cfg.
func NewConverter(cfg *config.Config) *Converter {
	return &Converter{cfg: cfg}
}

// Convert runs [Convert] with the bound configuration.
func (c *Converter) Convert(ctx context.Context, job Job) Result {
	return Convert(ctx, c.cfg, job)
}
