package probe

// FormatInfo holds container-level metadata from ffprobe's format section.
type FormatInfo struct {
	Tags map[string]string
}

// Stream is one audio stream of the input.
type Stream struct {
	Index int
	Codec string
}

// ProbeResult is the parsed output of a single ffprobe JSON call.
type ProbeResult struct {
	Format       FormatInfo
	AudioStreams []Stream
}
