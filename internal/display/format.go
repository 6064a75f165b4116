// Package display renders human-facing output: the banner, byte sizes and
// the end-of-run summary table.
package display

import (
	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size (B, KiB, MiB, ...).
// Negative values are rendered with a leading minus sign.
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}
