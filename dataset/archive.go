package dataset

import (
	"fmt"
	"strings"

	"github.com/xyproto/unzip"
)

// ExtractArchive unpacks a zipped dataset bundle into a directory next to
// the archive and returns that directory's path.
func ExtractArchive(path string) (string, error) {
	if !strings.HasSuffix(path, ".zip") {
		return "", fmt.Errorf("dataset: %s is not a .zip archive", path)
	}
	dir := strings.TrimSuffix(path, ".zip")
	if err := unzip.Extract(path, dir); err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return dir, nil
}
