package display

import (
	"fmt"
	"io"

	"github.com/backmassage/vid2mp3/internal/term"
)

const banner = `       _     _ ____  __  __ ____ _____
__   _(_) __| |___ \|  \/  |  _ \___ /
\ \ / / |/ _` + "`" + ` | __) | |\/| | |_) ||_ \
 \ V /| | (_| |/ __/| |  | |  __/___) |
  \_/ |_|\__,_|_____|_|  |_|_|  |____/
`

// PrintBanner prints the ASCII art banner; magenta when colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta.Sprint(banner))
}
