package check

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/backmassage/vid2mp3/internal/config"
	"github.com/backmassage/vid2mp3/internal/display"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Plain(string)
}

// Item is one line of the --check report.
type Item struct {
	Name   string
	OK     bool
	Detail string
}

// RunCheck runs the interactive --check flow: versions of ffmpeg and
// ffprobe, presence of the libmp3lame encoder and a short MP3 test encode.
// It reports false when any item fails.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	items := Diagnose(ctx, cfg)
	ok := true
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		status := "ok"
		if it.OK {
			log.Success("%s: %s", it.Name, it.Detail)
		} else {
			ok = false
			status = "FAILED"
			log.Error("%s: %s", it.Name, it.Detail)
		}
		rows = append(rows, []string{it.Name, status, it.Detail})
	}
	log.Plain(display.RenderTable([]string{"Check", "Status", "Detail"}, rows, nil))

	if ok {
		log.Success("All checks passed")
	} else {
		log.Warn("Some checks failed; download FFmpeg from %s", DownloadURL)
	}
	return ok
}

// Diagnose collects the --check items. Items after a missing ffmpeg are
// reported as skipped.
func Diagnose(ctx context.Context, cfg *config.Config) []Item {
	var items []Item

	ffmpegCmd := commandOrDefault(cfg.FfmpegPath, "ffmpeg")
	ffmpegPath, ffmpegErr := exec.LookPath(ffmpegCmd)
	items = append(items, versionItem(ctx, "ffmpeg", ffmpegCmd, ffmpegPath, ffmpegErr))

	ffprobeCmd := commandOrDefault(cfg.FfprobePath, "ffprobe")
	ffprobePath, ffprobeErr := exec.LookPath(ffprobeCmd)
	items = append(items, versionItem(ctx, "ffprobe", ffprobeCmd, ffprobePath, ffprobeErr))

	if ffmpegErr != nil {
		items = append(items,
			Item{Name: "libmp3lame encoder", Detail: "skipped (ffmpeg missing)"},
			Item{Name: "MP3 test encode", Detail: "skipped (ffmpeg missing)"},
		)
		return items
	}

	items = append(items, encoderItem(ctx, ffmpegPath))

	encode := Item{Name: "MP3 test encode"}
	if runSilent(ctx, ffmpegPath, mp3TestArgs()...) {
		encode.OK = true
		encode.Detail = "works"
	} else {
		encode.Detail = "test encode failed"
	}
	items = append(items, encode)
	return items
}

func versionItem(ctx context.Context, name, cmd, path string, lookErr error) Item {
	if lookErr != nil {
		return Item{Name: name, Detail: fmt.Sprintf("binary %q not found", cmd)}
	}
	line, err := versionLine(ctx, path)
	if err != nil {
		return Item{Name: name, Detail: fmt.Sprintf("found at %s but -version failed: %v", path, err)}
	}
	return Item{Name: name, OK: true, Detail: line}
}

func encoderItem(ctx context.Context, ffmpegPath string) Item {
	it := Item{Name: "libmp3lame encoder"}
	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		it.Detail = "could not list encoders: " + err.Error()
		return it
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "libmp3lame") {
			it.OK = true
			it.Detail = strings.Join(strings.Fields(line), " ")
			return it
		}
	}
	it.Detail = "not available in this ffmpeg build"
	return it
}

// mp3TestArgs returns the ffmpeg arguments for a minimal libmp3lame test
// encode.
func mp3TestArgs() []string {
	return []string{
		"-hide_banner", "-nostdin", "-loglevel", "error",
		"-f", "lavfi", "-i", "sine=frequency=1000:duration=0.1",
		"-c:a", "libmp3lame", "-q:a", "0",
		"-f", "null", "-",
	}
}
