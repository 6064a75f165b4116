package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/backmassage/vid2mp3/internal/naming"
)

// Supported video file extensions (lowercase, with leading dot).
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
}

// IsVideo reports whether path has a supported extension, ignoring case.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// Task is one video file to convert.
type Task struct {
	Input  string // absolute source path
	Output string // mirrored destination (.mp3)
	RelDir string // directory of Input relative to the input root
}

// Batch is the result of walking the input tree.
type Batch struct {
	Dirs       []string // every directory relative to the input root, "." first
	Tasks      []Task
	Ignored    int      // regular files without a supported extension
	Unreadable []string // directories that could not be listed
}

// Discover walks inputRoot in lexical order, recording every directory and a
// Task for every supported video. When outputRoot lies inside inputRoot its
// subtree is pruned so earlier results are never fed back in.
func Discover(inputRoot, outputRoot string) (*Batch, error) {
	inAbs, err := filepath.Abs(inputRoot)
	if err != nil {
		return nil, err
	}
	outAbs, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, err
	}

	b := &Batch{}
	err = filepath.WalkDir(inAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == inAbs {
				return err
			}
			b.Unreadable = append(b.Unreadable, path)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == outAbs {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(inAbs, path)
			if err != nil {
				return err
			}
			b.Dirs = append(b.Dirs, rel)
			return nil
		}

		if !IsVideo(path) {
			b.Ignored++
			return nil
		}

		out, err := naming.OutputPath(inAbs, outAbs, path)
		if err != nil {
			return err
		}
		relDir, err := filepath.Rel(inAbs, filepath.Dir(path))
		if err != nil {
			return err
		}
		b.Tasks = append(b.Tasks, Task{Input: path, Output: out, RelDir: relDir})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
