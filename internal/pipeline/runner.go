package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/vid2mp3/internal/config"
	"github.com/backmassage/vid2mp3/internal/display"
	"github.com/backmassage/vid2mp3/internal/ffmpeg"
	"github.com/backmassage/vid2mp3/internal/logging"
	"github.com/backmassage/vid2mp3/internal/metadata"
	"github.com/backmassage/vid2mp3/internal/naming"
)

// maxStderrLines bounds how much ffmpeg output is echoed for a failure.
const maxStderrLines = 20

type runner struct {
	cfg    *config.Config
	log    *logging.Logger
	deps   Deps
	claims *naming.Claims
	stats  *RunStats
}

// Run is the top-level batch entry point. It discovers files, mirrors the
// directory tree, processes each video sequentially, and returns aggregate
// stats. cfg.InputDir and cfg.OutputDir should be absolute.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, deps Deps) RunStats {
	var stats RunStats

	batch, err := Discover(cfg.InputDir, cfg.OutputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	for _, dir := range batch.Unreadable {
		log.Warn("Cannot read %s, skipping", dir)
	}

	stats.Total = len(batch.Tasks)
	stats.Counts[SkippedExtension] = batch.Ignored
	logBatchHeader(cfg, log, &stats)

	if !cfg.DryRun {
		mirrorDirs(cfg, log, batch.Dirs)
	}

	r := &runner{
		cfg:    cfg,
		log:    log,
		deps:   deps,
		claims: naming.NewClaims(),
		stats:  &stats,
	}

	for i, task := range batch.Tasks {
		if ctx.Err() != nil {
			log.Warn("Interrupted, stopping after %d of %d files", i, stats.Total)
			stats.Interrupted = true
			break
		}
		stats.Current = i + 1
		stats.record(r.processFileSafe(ctx, task))
	}

	logSummary(cfg, log, &stats)
	return stats
}

// mirrorDirs creates every input directory under the output root, including
// directories that will end up empty.
func mirrorDirs(cfg *config.Config, log *logging.Logger, dirs []string) {
	for _, rel := range dirs {
		dir := filepath.Join(cfg.OutputDir, rel)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Cannot create output directory %s: %v", dir, err)
		}
	}
}

// processFileSafe is the per-file error boundary: a panic while handling one
// file fails that file only.
func (r *runner) processFileSafe(ctx context.Context, task Task) (outcome Outcome) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("Failed to convert %s: %v", task.Input, p)
			outcome = Failed
		}
	}()
	return r.processFile(ctx, task)
}

// processFile handles one video: claim → exists → audio test → tags →
// convert (primary, then fallback) → report.
func (r *runner) processFile(ctx context.Context, task Task) Outcome {
	cfg, log := r.cfg, r.log
	name := filepath.Base(task.Input)
	log.Info("[%d/%d] %s", r.stats.Current, r.stats.Total, filepath.Join(task.RelDir, name))

	if owner, ok := r.claims.Claim(task.Input, task.Output); !ok {
		log.Warn("Skipping %s (already produced from %s)", task.Output, filepath.Base(owner))
		return SkippedExists
	}

	if cfg.SkipExisting {
		if _, err := os.Stat(task.Output); err == nil {
			log.Warn("Skipping %s (already exists)", task.Output)
			return SkippedExists
		}
	}

	if cfg.DryRun {
		log.Success("[DRY] Would convert %s -> %s", task.Input, task.Output)
		return Planned
	}

	hasAudio, err := r.deps.Library.HasAudio(ctx, task.Input)
	if err != nil {
		log.Error("Failed to convert %s: %v", task.Input, err)
		return Failed
	}
	if !hasAudio {
		log.Warn("No audio in %s, skipping.", task.Input)
		return SkippedNoAudio
	}

	log.Info("Extracting metadata from %s...", name)
	src := r.deps.Extractor.Extract(ctx, task.Input)
	tags := src.Tags

	start := time.Now()
	outcome, detail := r.convertTwoStage(ctx, task, src)
	elapsed := time.Since(start)

	switch outcome {
	case Converted:
		log.Success("Converted %s -> %s (%s)", task.Input, task.Output, elapsed.Round(time.Second))
		if len(tags) > 0 {
			log.Info("  Preserved metadata: %s", tags)
		}
		r.verifyTags(task.Output, tags)
	case ConvertedFallback:
		log.Success("Converted with fallback: %s -> %s (%s)", task.Input, task.Output, elapsed.Round(time.Second))
	default:
		log.Error("Failed to convert %s: %s", task.Input, detail)
		return Failed
	}

	r.addBytes(task)
	return outcome
}

// convertTwoStage tries the primary ffmpeg path, then the media library.
// It returns the outcome of whichever stage succeeded, or Failed with the
// last failure's detail. Every attempt writes to its own temporary file and
// only a successful one is renamed onto the destination.
func (r *runner) convertTwoStage(ctx context.Context, task Task, src metadata.Source) (Outcome, string) {
	log := r.log
	name := filepath.Base(task.Input)

	log.Info("Converting %s...", name)
	tmp := naming.TempPath(task.Output)
	res := r.deps.Converter.Convert(ctx, ffmpeg.Job{
		Input:        task.Input,
		Output:       tmp,
		Tags:         src.Tags,
		AudioStreams: src.AudioStreams,
	})
	if res.OK {
		if err := commit(tmp, task.Output); err != nil {
			return Failed, err.Error()
		}
		return Converted, ""
	}
	removeTemp(tmp)

	if ctx.Err() != nil {
		return Failed, "interrupted"
	}

	log.Warn("FFmpeg failed (%s), trying fallback...", res.Reason)
	logStderr(log, res.Detail)

	tmp = naming.TempPath(task.Output)
	onProgress, done := newProgress(r.cfg, name)
	err := r.deps.Library.WriteAudio(ctx, task.Input, tmp, onProgress)
	done()
	if err != nil {
		removeTemp(tmp)
		return Failed, err.Error()
	}
	if err := commit(tmp, task.Output); err != nil {
		return Failed, err.Error()
	}
	return ConvertedFallback, ""
}

// commit moves a finished temporary file onto its destination.
func commit(tmp, dest string) error {
	if err := os.Rename(tmp, dest); err != nil {
		removeTemp(tmp)
		return fmt.Errorf("finalize %s: %w", dest, err)
	}
	return nil
}

func removeTemp(path string) {
	_ = os.Remove(path)
}

// verifyTags reads the produced MP3 back and warns about injected keys that
// did not land.
func (r *runner) verifyTags(path string, want metadata.Tags) {
	if !r.cfg.VerifyTags || r.deps.ReadBack == nil || len(want) == 0 {
		return
	}
	got, err := r.deps.ReadBack(path)
	if err != nil {
		r.log.Debug("Tag read-back failed for %s: %v", path, err)
		return
	}
	if missing := metadata.Missing(want, got); len(missing) > 0 {
		keys := make([]string, len(missing))
		for i, k := range missing {
			keys[i] = string(k)
		}
		r.log.Warn("  Tags missing from output: %s", strings.Join(keys, ", "))
	}
}

func (r *runner) addBytes(task Task) {
	if fi, err := os.Stat(task.Input); err == nil {
		r.stats.TotalInputBytes += fi.Size()
	}
	if fi, err := os.Stat(task.Output); err == nil {
		r.stats.TotalOutputBytes += fi.Size()
	}
}

func logStderr(log *logging.Logger, stderr string) {
	if stderr == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	start := 0
	if len(lines) > maxStderrLines {
		start = len(lines) - maxStderrLines
	}
	for _, l := range lines[start:] {
		log.Warn("  FFmpeg error: %s", l)
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Input:  %s", cfg.InputDir)
	log.Info("Output: %s", cfg.OutputDir)
	log.Info("Found %d video files", stats.Total)
	log.Info("Audio: MP3 (libmp3lame VBR, -q:a %d)", cfg.AudioQuality)
	if !cfg.SkipExisting {
		log.Info("Existing outputs: overwrite")
	}
	if cfg.DryRun {
		log.Info("Dry run: nothing will be written")
	}
	log.Debug("Ignored %d non-video files", stats.Counts[SkippedExtension])
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d skipped, %d failed", stats.Converted(), stats.Skipped(), stats.Failed())

	var rows [][]string
	for o := Outcome(0); o < numOutcomes; o++ {
		n := stats.Counts[o]
		if n == 0 || (o == SkippedExtension && !log.Verbose()) {
			continue
		}
		rows = append(rows, []string{o.String(), fmt.Sprintf("%d", n)})
	}
	if !cfg.DryRun && stats.Converted() > 0 {
		rows = append(rows,
			[]string{"Input size", display.FormatBytes(stats.TotalInputBytes)},
			[]string{"MP3 size", display.FormatBytes(stats.TotalOutputBytes)},
		)
	}
	if len(rows) > 0 {
		log.Plain(display.RenderTable([]string{"Result", "Files"}, rows, []display.Align{display.AlignLeft, display.AlignRight}))
	}
}
