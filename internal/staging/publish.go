package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Suffix is appended to a final output path to form its staging path.
const Suffix = ".tmp"

// PathFor returns the staging path for a final output path.
func PathFor(finalPath string) string {
	return finalPath + Suffix
}

// Publish promotes a completed staging artifact to its final path. Any
// pre-existing object at the final path is removed first; re-runs replace
// earlier results unconditionally. A rename failure leaves no staging file
// behind and is returned for classification as a finalize failure.
func Publish(stagingPath, finalPath string) error {
	if err := os.Remove(finalPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		Discard(stagingPath)
		return fmt.Errorf("remove existing output %s: %w", finalPath, err)
	}
	if err := os.Rename(stagingPath, finalPath); err != nil {
		Discard(stagingPath)
		return fmt.Errorf("rename staging artifact: %w", err)
	}
	return nil
}

// Discard removes a staging artifact, tolerating its absence. A conversion
// that failed before producing output leaves nothing to remove; a removal
// failure here is picked up by the stale sweep on the next run.
func Discard(stagingPath string) {
	_ = os.Remove(stagingPath)
}
