package app

import (
	"os"

	"classmetrics/internal/shared/util"
)

func (a *App) rememberHashes(hashes map[string]string) {
	next := make(map[string]string, len(hashes))
	for path, hash := range hashes {
		next[path] = hash
	}
	a.hashMu.Lock()
	a.hashes = next
	a.hashMu.Unlock()
}

// changedSinceLastRun reports whether any path differs from what the last
// run read: new, deleted, or with different content.
func (a *App) changedSinceLastRun(paths []string) bool {
	a.hashMu.RLock()
	defer a.hashMu.RUnlock()

	for _, path := range paths {
		previous, known := a.hashes[path]
		content, err := os.ReadFile(path)
		if err != nil {
			if known || !os.IsNotExist(err) {
				return true
			}
			continue
		}
		if !known || previous != util.ContentHash(content) {
			return true
		}
	}
	return false
}
