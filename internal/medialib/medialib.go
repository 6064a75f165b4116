// Package medialib wraps github.com/floostack/transcoder as the fallback
// conversion path and the audio-presence test.
package medialib

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/floostack/transcoder/ffmpeg"
)

// ErrNoOutput is returned when the library reported success but produced no
// usable MP3.
var ErrNoOutput = errors.New("fallback produced no audio output")

// ErrExitStatus is returned when the fallback ffmpeg process did not exit
// successfully. Whatever it wrote is incomplete.
var ErrExitStatus = errors.New("ffmpeg exited unsuccessfully")

// ProgressFunc receives conversion progress in percent (0-100).
type ProgressFunc func(percent float64)

// Library runs ffmpeg and ffprobe through the transcoder package.
type Library struct {
	ffmpegBin  string
	ffprobeBin string
}

// New returns a Library using the given binaries. Empty paths fall back to
// "ffmpeg" and "ffprobe" on PATH.
func New(ffmpegBin, ffprobeBin string) *Library {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &Library{ffmpegBin: ffmpegBin, ffprobeBin: ffprobeBin}
}

// HasAudio opens path through the library's metadata API and reports whether
// any stream is audio. The library runs ffprobe without a context, so a
// cancelled ctx is honored only before the call starts.
func (l *Library) HasAudio(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	md, err := ffmpeg.
		New(&ffmpeg.Config{
			FfmpegBinPath:  l.ffmpegBin,
			FfprobeBinPath: l.ffprobeBin,
		}).
		Input(path).
		GetMetadata()
	if err != nil {
		return false, fmt.Errorf("open %q: %w", path, err)
	}

	for _, s := range md.GetStreams() {
		if s.GetCodecType() == "audio" {
			return true, nil
		}
	}
	return false, nil
}

// WriteAudio drops the video, encodes the audio of src to MP3 with libmp3lame
// and writes it to dst, overwriting it. Source metadata is not carried over.
//
// The transcoder does not report errors once the process has started, so
// the result is checked afterwards: ffmpeg must have exited successfully and
// dst must exist, be non-empty and contain an audio stream.
func (l *Library) WriteAudio(ctx context.Context, src, dst string, onProgress ProgressFunc) error {
	skipVideo := true
	overwrite := true
	audioCodec := "libmp3lame"
	outputFormat := "mp3"
	mapMetadata := "-1"

	opts := &ffmpeg.Options{
		SkipVideo:    &skipVideo,
		AudioCodec:   &audioCodec,
		OutputFormat: &outputFormat,
		MapMetadata:  &mapMetadata,
		Overwrite:    &overwrite,
	}

	t := ffmpeg.
		New(&ffmpeg.Config{
			ProgressEnabled: true,
			FfmpegBinPath:   l.ffmpegBin,
			FfprobeBinPath:  l.ffprobeBin,
		}).
		Input(src).
		Output(dst).
		WithContext(&ctx)

	progress, err := t.Start(opts)
	if err != nil {
		return fmt.Errorf("start fallback for %q: %w", src, err)
	}

	// The channel closes after the process has been waited on.
	for p := range progress {
		if onProgress != nil {
			onProgress(p.GetProgress())
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := exitStatus(t.GetRunningCmdInstance()); err != nil {
		return fmt.Errorf("fallback for %q: %w", src, err)
	}
	return l.verify(ctx, dst)
}

func exitStatus(cmd *exec.Cmd) error {
	if cmd == nil || cmd.ProcessState == nil {
		return fmt.Errorf("%w: process state unavailable", ErrExitStatus)
	}
	if !cmd.ProcessState.Success() {
		return fmt.Errorf("%w: %s", ErrExitStatus, cmd.ProcessState)
	}
	return nil
}

func (l *Library) verify(ctx context.Context, dst string) error {
	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrNoOutput, dst)
	}
	ok, err := l.HasAudio(ctx, dst)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoOutput, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s has no audio stream", ErrNoOutput, dst)
	}
	return nil
}
