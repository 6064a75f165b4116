// Package metadata maps container tags reported by ffprobe onto the small
// canonical tag set that survives into the MP3, and reads tags back from
// finished MP3 files.
package metadata

import (
	"sort"
	"strings"
)

// Key is a canonical tag name as written with ffmpeg's -metadata option.
type Key string

const (
	Title       Key = "title"
	Artist      Key = "artist"
	Album       Key = "album"
	Date        Key = "date"
	Genre       Key = "genre"
	AlbumArtist Key = "album_artist"
	Track       Key = "track"
)

// CanonicalOrder is the emission and reporting order of canonical keys.
var CanonicalOrder = []Key{Title, Artist, Album, Date, Genre, AlbumArtist, Track}

// synonyms maps lower-cased source tag names to canonical keys.
var synonyms = map[string]Key{
	"title":         Title,
	"artist":        Artist,
	"author":        Artist,
	"album":         Album,
	"date":          Date,
	"year":          Date,
	"creation_time": Date,
	"genre":         Genre,
	"album_artist":  AlbumArtist,
	"albumartist":   AlbumArtist,
	"track":         Track,
}

// Tags is a mapping from canonical key to value. A nil Tags is a valid empty
// mapping.
type Tags map[Key]string

// Keys returns the keys present in t in canonical order.
func (t Tags) Keys() []Key {
	keys := make([]Key, 0, len(t))
	for _, k := range CanonicalOrder {
		if _, ok := t[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// String renders the present keys as "title, artist", or "none".
func (t Tags) String() string {
	keys := t.Keys()
	if len(keys) == 0 {
		return "none"
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// Lookup resolves a source tag name to its canonical key, ignoring case.
func Lookup(name string) (Key, bool) {
	k, ok := synonyms[strings.ToLower(name)]
	return k, ok
}

// FromFormatTags maps a container tag set onto canonical keys. Unrecognised
// names are dropped.
//
// When several source names resolve to the same key, a source name that
// already equals the canonical key wins; among the rest the lexically last
// name wins. Date values of four or more characters are cut to the year.
func FromFormatTags(src map[string]string) Tags {
	names := make([]string, 0, len(src))
	for name := range src {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Tags)
	exact := make(map[Key]bool)
	for _, name := range names {
		key, ok := Lookup(name)
		if !ok {
			continue
		}
		isExact := strings.ToLower(name) == string(key)
		if exact[key] && !isExact {
			continue
		}
		out[key] = normalize(key, src[name])
		if isExact {
			exact[key] = true
		}
	}
	return out
}

func normalize(key Key, value string) string {
	if key != Date {
		return value
	}
	r := []rune(value)
	if len(r) >= 4 {
		return string(r[:4])
	}
	return value
}
