package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/backmassage/vid2mp3/internal/config"
	"github.com/backmassage/vid2mp3/internal/metadata"
)

// Job describes one audio extraction.
type Job struct {
	Input  string
	Output string
	Tags   metadata.Tags
	// AudioStreams is the probed audio stream count; 0 when unknown.
	AudioStreams int
}

// Build constructs the complete ffmpeg argument slice for a job. args[0] is
// the executable.
//
// The output format is forced with -f mp3 so the job may write to a
// temporary name that does not end in .mp3.
func Build(cfg *config.Config, job Job) []string {
	bin := cfg.FfmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}

	args := make([]string, 0, 16+2*len(job.Tags))
	args = append(args, bin, "-hide_banner", "-nostdin", "-loglevel", "error")

	args = append(args, "-i", job.Input)
	args = append(args,
		"-q:a", strconv.Itoa(cfg.AudioQuality),
		"-map", audioMap(job.AudioStreams),
	)

	for _, k := range job.Tags.Keys() {
		args = append(args, "-metadata", string(k)+"="+escapeValue(job.Tags[k]))
	}

	args = append(args, "-f", "mp3", "-y", job.Output)
	return args
}

// audioMap selects every audio stream, or only the first when the input has
// several: the mp3 muxer accepts exactly one.
func audioMap(streams int) string {
	if streams > 1 {
		return "0:a:0"
	}
	return "0:a"
}

func escapeValue(v string) string {
	return strings.ReplaceAll(v, `"`, `\"`)
}
