package util

import (
	"io/fs"
	"os"
	pathpkg "path"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HasPathPrefix reports whether path equals prefix or lies beneath it.
// Both are compared in slash form, so mixed separators still match.
func HasPathPrefix(path, prefix string) bool {
	path, prefix = slashClean(path), slashClean(prefix)
	if path == "" || prefix == "" {
		return path == prefix
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func slashClean(p string) string {
	clean := pathpkg.Clean(strings.TrimSpace(strings.ReplaceAll(p, "\\", "/")))
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WriteFileWithDirs replaces path atomically through a temporary sibling,
// creating parent directories as needed.
func WriteFileWithDirs(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// HeapAllocMB is the current heap allocation in MiB.
func HeapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc >> 20
}

// ContentHash is the hex xxhash64 of a file's bytes.
func ContentHash(content []byte) string {
	return strconv.FormatUint(xxhash.Sum64(content), 16)
}
