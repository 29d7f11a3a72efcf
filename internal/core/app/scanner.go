package app

import (
	"io/fs"
	"path/filepath"
	"sort"

	"classmetrics/internal/core/errors"
)

// ScanDirectories lists every analysable source file under roots, sorted
// and without duplicates.
func (a *App) ScanDirectories(roots []string) ([]string, error) {
	return a.current().scan(roots)
}

func (p *pipeline) scan(roots []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range uniqueScanRoots(roots) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path == root {
					return nil
				}
				for _, g := range p.excludeDirs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !p.frontEnd.IsSupportedPath(path) {
				return nil
			}
			if !p.cfg.Scan.IncludeTests && p.frontEnd.IsTestFile(path) {
				return nil
			}
			for _, g := range p.excludeFiles {
				if g.Match(base) {
					return nil
				}
			}

			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "scan source root"), errors.CtxPath, root)
		}
	}

	sort.Strings(files)
	return files, nil
}

func uniqueScanRoots(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		normalized := filepath.Clean(p)
		if abs, err := filepath.Abs(normalized); err == nil {
			normalized = filepath.Clean(abs)
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		roots = append(roots, normalized)
	}
	sort.Strings(roots)
	return roots
}
