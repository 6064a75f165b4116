package ffmpeg

import "regexp"

// Reason is a short label for a recognised ffmpeg failure.
type Reason string

const (
	ReasonUnknown       Reason = "unknown"
	ReasonNoAudio       Reason = "no audio stream"
	ReasonMultipleAudio Reason = "multiple audio streams"
	ReasonNoEncoder     Reason = "mp3 encoder unavailable"
	ReasonInvalidInput  Reason = "invalid input data"
	ReasonPermission    Reason = "permission denied"
	ReasonDiskFull      Reason = "no space left on device"
)

// Pre-compiled regexes for classifying ffmpeg stderr output. Checked in
// order by [Classify]; the first match wins.
var classifiers = []struct {
	re     *regexp.Regexp
	reason Reason
}{
	{regexp.MustCompile(
		`Stream map '0:a' matches no streams|` +
			`Output file (#\d+ )?does not contain any stream`),
		ReasonNoAudio},
	{regexp.MustCompile(
		`Exactly one MP3 audio stream is required|Invalid audio stream`),
		ReasonMultipleAudio},
	{regexp.MustCompile(
		`(?i)Unknown encoder '?libmp3lame|Encoder not found|` +
			`Automatic encoder selection failed`),
		ReasonNoEncoder},
	{regexp.MustCompile(
		`Invalid data found when processing input|moov atom not found|` +
			`EBML header parsing failed`),
		ReasonInvalidInput},
	{regexp.MustCompile(`Permission denied`), ReasonPermission},
	{regexp.MustCompile(`No space left on device`), ReasonDiskFull},
}

// Classify labels stderr output of a failed run.
func Classify(stderr string) Reason {
	for _, c := range classifiers {
		if c.re.MatchString(stderr) {
			return c.reason
		}
	}
	return ReasonUnknown
}
