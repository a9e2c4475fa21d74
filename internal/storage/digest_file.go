// Package storage writes run artifacts to disk. The saved HTML is the
// debugging trail for delivery problems, mail clients mangle markup and
// the file shows what was actually generated.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deusflow/aidigest/internal/logger"
)

// SaveDigest writes the rendered HTML under dir and returns the full
// path. File names carry a timestamp so consecutive runs never clobber
// each other.
func SaveDigest(dir, html string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	name := fmt.Sprintf("digest_%s.html", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing digest: %w", err)
	}

	logger.Debug("digest saved", "path", path)
	return path, nil
}
