// Package cache prunes stale files from the directories the application writes to over time.
package cache

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/eyedrop-cli/eyedrop/filesystem"
	"github.com/eyedrop-cli/eyedrop/log"
	"github.com/spf13/afero"
)

// TTL is how long a file may stay untouched before it is removed.
const TTL = 14 * 24 * time.Hour

// CollectGarbage removes regular files under dirs that were last modified
// before now minus ttl. It returns the number of removed files.
func CollectGarbage(now time.Time, ttl time.Duration, dirs ...string) int {
	fsys := filesystem.API()
	var removed int

	for _, dir := range dirs {
		_ = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if now.Sub(info.ModTime()) <= ttl {
				return nil
			}

			if err := fsys.Remove(path); err != nil {
				log.Debugf("prune %s: %v", filepath.Base(path), err)
				return nil
			}
			removed++
			return nil
		})
	}

	return removed
}
