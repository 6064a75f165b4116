// Package naming maps input video paths onto the mirrored MP3 tree: the
// destination path, the hidden temporary name a conversion writes to, and
// in-run ownership of destinations shared by several inputs.
package naming
