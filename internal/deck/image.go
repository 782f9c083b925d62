package deck

import (
	"path/filepath"
	"strings"
)

// ImageURLPrefix is where adapters serve the image directory
const ImageURLPrefix = "/img/"

// LocalImagePath maps an image reference to a file under imageDir.
// References to remote URLs have no local file.
func LocalImagePath(imageDir, ref string) (string, bool) {
	if ref == "" || strings.Contains(ref, "://") {
		return "", false
	}

	rel := strings.TrimPrefix(ref, ImageURLPrefix)
	rel = strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+rel)), "/")
	if rel == "" {
		return "", false
	}
	return filepath.Join(imageDir, filepath.FromSlash(rel)), true
}
