package pipeline

// Outcome is the terminal state of one discovered file.
type Outcome int

const (
	SkippedExtension Outcome = iota
	SkippedExists
	SkippedNoAudio
	Converted
	ConvertedFallback
	Failed
	Planned // dry run: would have been converted

	numOutcomes
)

var outcomeLabels = [numOutcomes]string{
	SkippedExtension:  "Ignored (not a video)",
	SkippedExists:     "Skipped (exists)",
	SkippedNoAudio:    "Skipped (no audio)",
	Converted:         "Converted",
	ConvertedFallback: "Converted (fallback)",
	Failed:            "Failed",
	Planned:           "Would convert",
}

func (o Outcome) String() string {
	if o < 0 || o >= numOutcomes {
		return "unknown"
	}
	return outcomeLabels[o]
}

// IsSkip reports whether o is a discovered video that was skipped. Ignored
// non-video files are not skips.
func (o Outcome) IsSkip() bool {
	return o == SkippedExists || o == SkippedNoAudio
}

// IsSuccess reports whether o produced a destination file.
func (o Outcome) IsSuccess() bool {
	return o == Converted || o == ConvertedFallback
}
