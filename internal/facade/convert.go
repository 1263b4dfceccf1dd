package facade

import (
	"path/filepath"

	"github.com/arkanvault/vaultgraph/internal/scanner"
	"github.com/arkanvault/vaultgraph/internal/store"
)

func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func toVault(v store.Vault) Vault {
	return Vault{
		ID:             v.ID,
		Name:           v.Name,
		AbsolutePath:   v.AbsolutePath,
		CreatedAt:      v.CreatedAt,
		LastScannedAt:  v.LastScannedAt,
		NoteCount:      v.NoteCount,
		TotalSizeBytes: v.TotalSizeBytes,
		Metadata:       map[string]any(v.Metadata),
	}
}

func toNote(n store.Note) Note {
	return Note{
		ID:           n.ID,
		VaultID:      n.VaultID,
		RelativePath: n.RelativePath,
		Title:        n.Title,
		ContentHash:  n.ContentHash,
		WordCount:    n.WordCount,
		CharCount:    n.CharCount,
		CreatedAt:    n.CreatedAt,
		ModifiedAt:   n.ModifiedAt,
		ScannedAt:    n.ScannedAt,
		Tags:         []string(n.Tags),
		Aliases:      []string(n.Aliases),
		Metadata:     map[string]any(n.Metadata),
	}
}

func toGraphMetrics(m store.GraphMetric) GraphMetrics {
	return GraphMetrics{
		NoteID:                m.NoteID,
		PageRank:              m.PageRank,
		InDegree:              m.InDegree,
		OutDegree:             m.OutDegree,
		Betweenness:           m.Betweenness,
		Closeness:             m.Closeness,
		ClusteringCoefficient: m.ClusteringCoefficient,
		ComputedAt:            m.ComputedAt,
	}
}

func toScanResult(r scanner.Result) ScanResult {
	errs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e.Error())
	}
	warnings := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		warnings = append(warnings, w.String())
	}
	return ScanResult{
		VaultID:         r.VaultID,
		NotesScanned:    r.NotesScanned,
		NotesAdded:      r.NotesAdded,
		NotesUpdated:    r.NotesUpdated,
		NotesDeleted:    r.NotesDeleted,
		LinksFound:      r.LinksFound,
		TagsFound:       r.TagsFound,
		DurationSeconds: r.DurationSeconds,
		Errors:          errs,
		Warnings:        warnings,
	}
}
