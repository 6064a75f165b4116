package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/vid2mp3/internal/config"
	"github.com/backmassage/vid2mp3/internal/medialib"
	"github.com/backmassage/vid2mp3/internal/term"
)

// progressOut picks where fallback progress bars are drawn; nil disables
// them. Bars are only drawn to a terminal.
var progressOut = func(cfg *config.Config) io.Writer {
	if !cfg.ShowProgress || !term.IsTerminal(os.Stderr) {
		return nil
	}
	return os.Stderr
}

// newProgress returns a progress callback for a fallback conversion and a
// function that removes the bar when the conversion ends.
func newProgress(cfg *config.Config, desc string) (medialib.ProgressFunc, func()) {
	w := progressOut(cfg)
	if w == nil {
		return nil, func() {}
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionEnableColorCodes(term.Enabled()),
		progressbar.OptionClearOnFinish(),
	)
	update := func(percent float64) {
		switch {
		case percent < 0:
			percent = 0
		case percent > 100:
			percent = 100
		}
		_ = bar.Set(int(percent))
	}
	return update, func() { _ = bar.Finish() }
}
