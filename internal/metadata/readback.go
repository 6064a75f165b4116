package metadata

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// ReadBack reads the ID3 tags of a finished MP3 and returns the canonical
// keys that carry a value.
func ReadBack(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags %q: %w", path, err)
	}

	out := make(Tags)
	set := func(k Key, v string) {
		if v != "" {
			out[k] = v
		}
	}
	set(Title, m.Title())
	set(Artist, m.Artist())
	set(Album, m.Album())
	set(Genre, m.Genre())
	set(AlbumArtist, m.AlbumArtist())
	if y := m.Year(); y > 0 {
		out[Date] = strconv.Itoa(y)
	}
	if n, _ := m.Track(); n > 0 {
		out[Track] = strconv.Itoa(n)
	}
	return out, nil
}

// Missing returns the keys of want, in canonical order, that got does not
// carry.
func Missing(want, got Tags) []Key {
	var missing []Key
	for _, k := range want.Keys() {
		if _, ok := got[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
