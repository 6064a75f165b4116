package pipeline

import (
	"context"

	"github.com/backmassage/vid2mp3/internal/config"
	"github.com/backmassage/vid2mp3/internal/ffmpeg"
	"github.com/backmassage/vid2mp3/internal/logging"
	"github.com/backmassage/vid2mp3/internal/medialib"
	"github.com/backmassage/vid2mp3/internal/metadata"
)

// Extractor reads canonical tags and the audio stream count of a source file.
type Extractor interface {
	Extract(ctx context.Context, path string) metadata.Source
}

// Converter runs the primary conversion.
type Converter interface {
	Convert(ctx context.Context, job ffmpeg.Job) ffmpeg.Result
}

// Library is the media library used for the audio-presence test and the
// fallback conversion.
type Library interface {
	HasAudio(ctx context.Context, path string) (bool, error)
	WriteAudio(ctx context.Context, src, dst string, onProgress medialib.ProgressFunc) error
}

// Deps are the external collaborators of a run.
type Deps struct {
	Extractor Extractor
	Converter Converter
	Library   Library
	// ReadBack reads the tags of a finished MP3. Nil disables verification.
	ReadBack func(path string) (metadata.Tags, error)
}

// DefaultDeps wires the production implementations for cfg. Binary paths in
// cfg should already be resolved.
func DefaultDeps(cfg *config.Config, log *logging.Logger) Deps {
	return Deps{
		Extractor: metadata.NewExtractor(cfg.FfprobePath, log),
		Converter: ffmpeg.NewConverter(cfg),
		Library:   medialib.New(cfg.FfmpegPath, cfg.FfprobePath),
		ReadBack:  metadata.ReadBack,
	}
}
