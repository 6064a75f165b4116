// Package probe provides ffprobe-based media inspection and typed result
// structures. A single JSON call per file covers both the container-level
// tags and the stream list.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Probe runs a single ffprobe JSON call against path and returns the parsed
// result. bin is the ffprobe executable; empty means "ffprobe" from PATH.
func Probe(ctx context.Context, bin, path string) (*ProbeResult, error) {
	if strings.TrimSpace(bin) == "" {
		bin = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, bin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("ffprobe %q: empty output", path)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a ProbeResult.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*ProbeResult, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildResult(&raw), nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Tags map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
}

// --- Conversion from wire types to domain types ---

func buildResult(raw *ffprobeOutput) *ProbeResult {
	pr := &ProbeResult{Format: FormatInfo{Tags: raw.Format.Tags}}
	for _, s := range raw.Streams {
		if s.CodecType == "audio" {
			pr.AudioStreams = append(pr.AudioStreams, Stream{Index: s.Index, Codec: s.CodecName})
		}
	}
	return pr
}
