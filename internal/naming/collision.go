package naming

import "sync"

// Claims tracks which input owns each destination during a run. Inputs
// that differ only by video extension (a.mp4, a.mkv) share one .mp3; the
// first input to claim it wins. All methods are goroutine-safe.
type Claims struct {
	mu     sync.Mutex
	owners map[string]string // output path → input path that owns it
}

// NewClaims creates a ready-to-use claim table.
func NewClaims() *Claims {
	return &Claims{owners: make(map[string]string)}
}

// Claim records input as the owner of output. It reports false, with the
// current owner, when another input already holds output.
func (c *Claims) Claim(input, output string) (owner string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner, exists := c.owners[output]
	if !exists || owner == input {
		c.owners[output] = input
		return input, true
	}
	return owner, false
}
