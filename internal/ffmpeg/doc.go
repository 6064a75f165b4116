// Package ffmpeg builds and runs the primary audio extraction command.
//
// A conversion is one ffmpeg invocation: the first input's audio streams are
// re-encoded as VBR MP3 at a fixed quality and the canonical tags are
// re-injected with -metadata. Tool failure is reported as a [Result] with the
// captured stderr, never as a Go error, so the caller can fall back to the
// media library.
package ffmpeg
