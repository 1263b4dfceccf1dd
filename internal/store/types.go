// Package store is vaultgraph's single source of truth: a transactional,
// relational store for vaults, notes, links, tags, and graph metrics. Every
// other component (parser excepted, which is pure) acts through it; it has
// no dependency on any of them.
package store

import "time"

// Vault is one scanned directory.
type Vault struct {
	ID             string
	Name           string
	AbsolutePath   string
	CreatedAt      time.Time
	LastScannedAt  *time.Time
	NoteCount      int
	TotalSizeBytes int64
	Metadata       JSONMap
}

// Note is one Markdown file currently present in a vault.
type Note struct {
	ID          string
	VaultID     string
	RelativePath string
	Title       string
	ContentHash string
	WordCount   int
	CharCount   int
	CreatedAt   time.Time
	ModifiedAt  time.Time
	ScannedAt   time.Time
	Tags        StringList
	Aliases     StringList
	Metadata    JSONMap
}

// LinkType enumerates the kinds a Link row can take.
type LinkType string

const (
	LinkInternal LinkType = "internal"
	LinkExternal LinkType = "external"
	LinkBroken   LinkType = "broken"
)

// Link is a directed edge from a source note to a textual target, resolved
// or not.
type Link struct {
	ID           string
	SourceNoteID string
	TargetNoteID *string
	TargetPath   string
	LinkType     LinkType
	LinkText     string
}

// Tag is a normalized tag name shared across the store.
type Tag struct {
	ID        string
	Tag       string
	NoteCount int
}

// GraphMetric is one row of computed graph metrics per note.
type GraphMetric struct {
	NoteID                string
	PageRank              float64
	InDegree              int
	OutDegree             int
	Betweenness           float64
	Closeness             float64
	ClusteringCoefficient float64
	ComputedAt            time.Time
}

// ScanStatus enumerates the lifecycle states of a ScanRun.
type ScanStatus string

const (
	ScanRunning   ScanStatus = "running"
	ScanCompleted ScanStatus = "completed"
	ScanFailed    ScanStatus = "failed"
)

// ScanRun is the audit trail for one scan.
type ScanRun struct {
	ID              string
	VaultID         string
	StartedAt       time.Time
	CompletedAt     *time.Time
	NotesScanned    int
	NotesAdded      int
	NotesUpdated    int
	NotesDeleted    int
	DurationSeconds float64
	Status          ScanStatus
	ErrorMessage    string
}

// ParsedLink is the input shape the Scanner hands to ReplaceLinks: a
// wikilink as extracted by the parser, not yet resolved.
type ParsedLink struct {
	TargetPath string
	LinkText   string
}

// NoteUpsert is the input shape the Scanner hands to UpsertNote.
type NoteUpsert struct {
	RelativePath string
	Title        string
	ContentHash  string
	WordCount    int
	CharCount    int
	ModifiedAt   time.Time
	Tags         []string
	Aliases      []string
	Metadata     map[string]any
}
