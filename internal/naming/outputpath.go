package naming

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutputExt is the extension of every produced file.
const OutputExt = ".mp3"

// TempSuffix marks an in-progress conversion.
const TempSuffix = ".part"

// OutputPath returns the destination for path: its location relative to
// inputRoot, mirrored under outputRoot, with the extension replaced by .mp3.
//
//	in/sub/b.avi → out/sub/b.mp3
func OutputPath(inputRoot, outputRoot, path string) (string, error) {
	rel, err := filepath.Rel(inputRoot, path)
	if err != nil {
		return "", fmt.Errorf("relative path of %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside %q", path, inputRoot)
	}
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(outputRoot, stem+OutputExt), nil
}

// TempPath returns a unique hidden sibling of dest, e.g.
// out/.a.mp3.3f2c….part, so a half-written file never sits at dest.
func TempPath(dest string) string {
	dir, base := filepath.Split(dest)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+TempSuffix)
}
