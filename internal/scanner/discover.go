// Package scanner makes the Store reflect the current filesystem state of a
// vault: it walks a directory tree, invokes parsevault per file, diffs
// against the Store by content hash, and issues the resulting
// upserts/deletes within one transaction per scan.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const obsidianDir = ".obsidian"

var excludedDirNames = map[string]bool{
	obsidianDir:    true,
	".git":         true,
	"node_modules": true,
}

// DiscoverVaults returns every directory under root whose immediate subtree
// contains a directory literally named ".obsidian". Discovery does not
// descend into .git, node_modules, or any .obsidian directory, and does not
// touch the Store.
func DiscoverVaults(root string) ([]string, error) {
	var vaults []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if excludedDirNames[d.Name()] {
			return filepath.SkipDir
		}
		if hasObsidianDir(path) {
			vaults = append(vaults, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(vaults)
	return vaults, nil
}

func hasObsidianDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, obsidianDir))
	return err == nil && info.IsDir()
}

// enumerateMarkdownFiles walks vaultRoot and returns every ".md" file's
// path relative to vaultRoot, sorted for deterministic scan ordering.
// Symlinks resolving outside vaultRoot are skipped and reported as
// warnings rather than followed.
func enumerateMarkdownFiles(vaultRoot string) (paths []string, warnings []Warning, err error) {
	absRoot, err := filepath.Abs(vaultRoot)
	if err != nil {
		return nil, nil, err
	}

	err = filepath.WalkDir(vaultRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if excludedDirNames[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(name, ".md") {
			return nil
		}

		resolved, statErr := filepath.EvalSymlinks(path)
		if statErr != nil {
			warnings = append(warnings, Warning{Path: path, Message: "unreadable path: " + statErr.Error()})
			return nil
		}
		absResolved, absErr := filepath.Abs(resolved)
		if absErr != nil {
			warnings = append(warnings, Warning{Path: path, Message: "could not resolve absolute path: " + absErr.Error()})
			return nil
		}
		if !strings.HasPrefix(absResolved, absRoot+string(filepath.Separator)) && absResolved != absRoot {
			warnings = append(warnings, Warning{Path: path, Message: "symlink target escapes vault root, skipped"})
			return nil
		}

		rel, relErr := filepath.Rel(vaultRoot, path)
		if relErr != nil {
			return relErr
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	sort.Strings(paths)
	return paths, warnings, nil
}
