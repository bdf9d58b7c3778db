package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// exportTimestamp parses a sessions-<timestamp>.csv file name, reporting
// whether it is one of ours. Foreign files in the exports directory are
// never touched by pruning.
func exportTimestamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, "sessions-") || !strings.HasSuffix(name, ".csv") {
		return time.Time{}, false
	}
	ts := strings.TrimSuffix(strings.TrimPrefix(name, "sessions-"), ".csv")
	t, err := time.Parse(fileTimestampLayout, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PruneKeepRecent removes all export files except the most recent keep
// files. If dryRun is true, no files are deleted; the function only returns
// the names that would be removed. Returns the list of pruned file names.
func PruneKeepRecent(dataDir string, keep int, dryRun bool) ([]string, error) {
	dir := filepath.Join(dataDir, exportsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading exports directory: %w", err)
	}

	// Filter to only timestamp-named export files.
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := exportTimestamp(entry.Name()); ok {
			names = append(names, entry.Name())
		}
	}

	// Sort chronologically (timestamp names sort lexicographically).
	sort.Strings(names)

	if len(names) <= keep {
		return nil, nil
	}

	toRemove := names[:len(names)-keep]
	var pruned []string

	for _, name := range toRemove {
		if !dryRun {
			if rmErr := os.Remove(filepath.Join(dir, name)); rmErr != nil {
				return pruned, fmt.Errorf("removing %s: %w", name, rmErr)
			}
		}
		pruned = append(pruned, name)
	}

	return pruned, nil
}
