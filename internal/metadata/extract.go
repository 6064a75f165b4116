package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/backmassage/vid2mp3/internal/probe"
)

// ProbeFunc inspects a media file. probe.Probe bound to a binary path is the
// production implementation.
type ProbeFunc func(ctx context.Context, path string) (*probe.ProbeResult, error)

// DebugLogger receives the reason a probe produced no tags.
type DebugLogger interface {
	Debug(format string, args ...interface{})
}

// Extractor reads container tags from a media file.
type Extractor struct {
	probe ProbeFunc
	log   DebugLogger
}

// NewExtractor returns an Extractor that shells out to ffprobeBin.
func NewExtractor(ffprobeBin string, log DebugLogger) *Extractor {
	return NewExtractorWith(func(ctx context.Context, path string) (*probe.ProbeResult, error) {
		return probe.Probe(ctx, ffprobeBin, path)
	}, log)
}

// NewExtractorWith returns an Extractor backed by fn.
func NewExtractorWith(fn ProbeFunc, log DebugLogger) *Extractor {
	return &Extractor{probe: fn, log: log}
}

// Source is what one probe of an input file yields.
type Source struct {
	Tags Tags
	// AudioStreams is the number of audio streams found; 0 when the probe
	// failed and the count is unknown.
	AudioStreams int
}

// Extract returns the canonical tags and audio stream count of path. Probe
// failures are logged at debug level and yield an empty mapping; the caller
// converts anyway.
func (e *Extractor) Extract(ctx context.Context, path string) Source {
	res, err := e.probe(ctx, path)
	if err != nil {
		if e.log != nil {
			e.log.Debug("metadata probe failed for %s: %v", path, err)
		}
		return Source{Tags: Tags{}}
	}
	if res == nil {
		return Source{Tags: Tags{}}
	}

	src := Source{Tags: Tags{}, AudioStreams: len(res.AudioStreams)}
	if len(res.Format.Tags) > 0 {
		src.Tags = FromFormatTags(res.Format.Tags)
	}
	if src.AudioStreams > 1 && e.log != nil {
		codecs := make([]string, len(res.AudioStreams))
		for i, s := range res.AudioStreams {
			codecs[i] = fmt.Sprintf("#%d %s", s.Index, s.Codec)
		}
		e.log.Debug("%s has %d audio streams (%s)", path, src.AudioStreams, strings.Join(codecs, ", "))
	}
	return src
}
