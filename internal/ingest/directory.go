package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// IngestDirectory walks root, filters by includeExts (or every supported
// format), skips hidden entries if requested, and calls IngestPath for each
// file. Returns per-file results + aggregate stats.
func (u *Usecase) IngestDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}
	exts := extSet(includeExts)
	if exts == nil {
		exts = u.AllowedExts
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !allowed(path, exts) {
			return nil
		}
		stats.Matched++

		res, err := u.IngestPath(ctx, path)
		results = append(results, res)
		if err != nil {
			u.logger.Warn("file ingest failed", "path", path, "error", err)
			stats.Failed++
			return nil
		}
		stats.Succeeded++
		if res.Existing {
			stats.Existing++
		}
		return nil
	})
	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	u.logger.Info("directory ingested",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"existing", stats.Existing,
		"failed", stats.Failed,
	)
	return results, stats, nil
}
