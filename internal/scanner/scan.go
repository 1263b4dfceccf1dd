package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arkanvault/vaultgraph/internal/parsevault"
	"github.com/arkanvault/vaultgraph/internal/store"
)

// Options configures a scan. Concurrency and BatchSize default to sane
// values when left zero.
type Options struct {
	Concurrency int
	BatchSize   int
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	return o
}

type parsedFile struct {
	relativePath string
	note         *parsevault.ParsedNote
	warnings     []parsevault.Warning
	readErr      error
}

// parseFilesConcurrently reads and parses each path under vaultRoot using a
// bounded worker pool: a buffered channel of work items drained by
// opts.Concurrency goroutines, joined via sync.WaitGroup before returning.
// The pool is owned by this call and never outlives it.
func parseFilesConcurrently(vaultRoot string, paths []string, opts Options) []parsedFile {
	results := make([]parsedFile, len(paths))

	workCh := make(chan int, len(paths))
	for i := range paths {
		workCh <- i
	}
	close(workCh)

	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				relPath := paths[i]
				content, err := os.ReadFile(filepath.Join(vaultRoot, relPath))
				if err != nil {
					results[i] = parsedFile{relativePath: relPath, readErr: err}
					continue
				}
				note, warnings := parsevault.Parse(content, relPath)
				results[i] = parsedFile{relativePath: relPath, note: note, warnings: warnings}
			}
		}()
	}
	wg.Wait()

	return results
}

// Scan makes the Store reflect vaultRoot's current filesystem state:
// register the vault, enumerate its Markdown files, diff against what's
// known, parse and write the changes, then delete notes whose file
// vanished. displayName names the vault if this is its first scan; it is
// ignored on subsequent scans. ctx is checked at each file boundary during
// the write phase; cancelling it aborts the scan and rolls back its
// transaction, so none of its note, link, or tag writes are kept. The vault
// row (on a first scan) and the scan_history row, which is marked failed,
// are written outside that transaction and remain.
func Scan(ctx context.Context, s *store.Store, vaultRoot, displayName string, opts Options) (Result, error) {
	opts = opts.withDefaults()
	start := time.Now()

	absRoot, err := filepath.Abs(vaultRoot)
	if err != nil {
		return Result{}, fmt.Errorf("scanner: resolve vault root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("scanner: %s is not a directory", vaultRoot)
	}

	vaultID, err := s.AddVault(absRoot, resolveDisplayName(displayName, absRoot))
	if err != nil {
		return Result{}, fmt.Errorf("scanner: register vault: %w", err)
	}

	scanID, err := s.BeginScan(vaultID)
	if err != nil {
		return Result{}, fmt.Errorf("scanner: begin scan: %w", err)
	}

	result, scanErr := runScan(ctx, s, vaultID, absRoot, opts)
	result.VaultID = vaultID
	result.DurationSeconds = time.Since(start).Seconds()

	if scanErr != nil {
		result.Errors = append(result.Errors, scanErr)
		_ = s.FailScan(scanID, scanErr)
		return result, scanErr
	}

	if err := s.CompleteScan(scanID, result.NotesScanned, result.NotesAdded, result.NotesUpdated, result.NotesDeleted, result.DurationSeconds); err != nil {
		return result, fmt.Errorf("scanner: complete scan: %w", err)
	}

	var totalSize int64
	if sizes, err := dirSize(absRoot); err == nil {
		totalSize = sizes
	}
	_ = s.TouchVaultScanned(vaultID, totalSize)

	return result, nil
}

func resolveDisplayName(displayName, absRoot string) string {
	if displayName != "" {
		return displayName
	}
	return filepath.Base(absRoot)
}

// runScan does the filesystem-to-store reconciliation inside a single
// transaction: enumerate, diff against known paths, upsert/replace-links
// for each inserted or changed file, and delete notes whose path vanished.
func runScan(ctx context.Context, s *store.Store, vaultID, vaultRoot string, opts Options) (Result, error) {
	var result Result

	currentPaths, warnings, err := enumerateMarkdownFiles(vaultRoot)
	if err != nil {
		return result, fmt.Errorf("scanner: enumerate files: %w", err)
	}
	result.Warnings = append(result.Warnings, warnings...)

	knownPaths, err := s.NotePathHashes(vaultID)
	if err != nil {
		return result, fmt.Errorf("scanner: load known paths: %w", err)
	}

	parsed := parseFilesConcurrently(vaultRoot, currentPaths, opts)

	tx, err := s.Begin()
	if err != nil {
		return result, fmt.Errorf("scanner: begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	currentPathSet := make(map[string]bool, len(currentPaths))

	for _, pf := range parsed {
		if ctx.Err() != nil {
			return result, fmt.Errorf("scanner: scan cancelled: %w", ctx.Err())
		}

		currentPathSet[pf.relativePath] = true

		if pf.readErr != nil {
			result.Warnings = append(result.Warnings, Warning{Path: pf.relativePath, Message: "read failed: " + pf.readErr.Error()})
			continue
		}
		for _, w := range pf.warnings {
			result.Warnings = append(result.Warnings, Warning{Path: pf.relativePath, Message: w.Message})
		}

		result.NotesScanned++
		result.LinksFound += len(pf.note.WikiLinks)
		result.TagsFound += len(pf.note.Tags)

		knownHash, known := knownPaths[pf.relativePath]
		if known && knownHash == pf.note.ContentHash {
			continue // unchanged, nothing to write
		}

		info, statErr := os.Stat(filepath.Join(vaultRoot, pf.relativePath))
		modTime := time.Now()
		if statErr == nil {
			modTime = info.ModTime()
		}

		noteID, wasNew, err := tx.UpsertNote(vaultID, store.NoteUpsert{
			RelativePath: pf.relativePath,
			Title:        pf.note.Title,
			ContentHash:  pf.note.ContentHash,
			WordCount:    pf.note.WordCount,
			CharCount:    pf.note.CharCount,
			ModifiedAt:   modTime,
			Tags:         pf.note.Tags,
			Aliases:      pf.note.Aliases,
			Metadata:     pf.note.Frontmatter,
		})
		if err != nil {
			return result, fmt.Errorf("scanner: upsert note %s: %w", pf.relativePath, err)
		}

		links := make([]store.ParsedLink, 0, len(pf.note.WikiLinks))
		for _, wl := range pf.note.WikiLinks {
			links = append(links, store.ParsedLink{TargetPath: wl.Target, LinkText: wl.Display})
		}
		if err := tx.ReplaceLinks(noteID, links); err != nil {
			return result, fmt.Errorf("scanner: replace links for %s: %w", pf.relativePath, err)
		}

		if wasNew {
			result.NotesAdded++
		} else {
			result.NotesUpdated++
		}
	}

	for path, noteID := range noteIDsForVanishedPaths(tx, vaultID, knownPaths, currentPathSet) {
		if err := tx.DeleteNote(noteID); err != nil {
			return result, fmt.Errorf("scanner: delete note %s: %w", path, err)
		}
		result.NotesDeleted++
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("scanner: commit transaction: %w", err)
	}
	committed = true

	return result, nil
}

// noteIDsForVanishedPaths maps each known path no longer present on disk to
// its note id, so the caller can delete it within the scan's transaction.
func noteIDsForVanishedPaths(tx *store.Tx, vaultID string, knownPaths map[string]string, currentPaths map[string]bool) map[string]string {
	out := make(map[string]string)
	for path := range knownPaths {
		if currentPaths[path] {
			continue
		}
		id, err := tx.NoteIDByPath(vaultID, path)
		if err != nil {
			continue
		}
		out[path] = id
	}
	return out
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if excludedDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total, err
}
