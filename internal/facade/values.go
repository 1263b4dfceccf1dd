package facade

import "time"

// Value objects mirror the Store's entities but use json:"snake_case"
// tags and plain types so the Facade's serialization is stable regardless
// of internal storage representation.

// Vault is one tracked vault directory.
type Vault struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	AbsolutePath   string            `json:"absolute_path"`
	CreatedAt      time.Time         `json:"created_at"`
	LastScannedAt  *time.Time        `json:"last_scanned_at,omitempty"`
	NoteCount      int               `json:"note_count"`
	TotalSizeBytes int64             `json:"total_size_bytes"`
	Metadata       map[string]any    `json:"metadata,omitempty"`
}

// Note is one Markdown file.
type Note struct {
	ID           string         `json:"id"`
	VaultID      string         `json:"vault_id"`
	RelativePath string         `json:"relative_path"`
	Title        string         `json:"title"`
	ContentHash  string         `json:"content_hash"`
	WordCount    int            `json:"word_count"`
	CharCount    int            `json:"char_count"`
	CreatedAt    time.Time      `json:"created_at"`
	ModifiedAt   time.Time      `json:"modified_at"`
	ScannedAt    time.Time      `json:"scanned_at"`
	Tags         []string       `json:"tags,omitempty"`
	Aliases      []string       `json:"aliases,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ScanResult is returned by ScanVault.
type ScanResult struct {
	VaultID         string   `json:"vault_id"`
	NotesScanned    int      `json:"notes_scanned"`
	NotesAdded      int      `json:"notes_added"`
	NotesUpdated    int      `json:"notes_updated"`
	NotesDeleted    int      `json:"notes_deleted"`
	LinksFound      int      `json:"links_found"`
	TagsFound       int      `json:"tags_found"`
	DurationSeconds float64  `json:"duration_seconds"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
}

// Success is true when Errors is empty.
func (r ScanResult) Success() bool { return len(r.Errors) == 0 }

// VaultStats summarizes a vault's current size.
type VaultStats struct {
	VaultID       string  `json:"vault_id"`
	NoteCount     int     `json:"note_count"`
	TagCount      int     `json:"tag_count"`
	BrokenLinks   int     `json:"broken_links"`
	OrphanedNotes int     `json:"orphaned_notes"`
	AvgWordCount  float64 `json:"avg_word_count"`
}

// LinkStats summarizes one resolve pass.
type LinkStats struct {
	Resolved int `json:"resolved"`
	Broken   int `json:"broken"`
	Total    int `json:"total"`
}

// GraphStats summarizes aggregate graph shape.
type GraphStats struct {
	Notes   int     `json:"notes"`
	Edges   int     `json:"edges"`
	Density float64 `json:"density"`
}

// AnalyzeResult is returned by AnalyzeVault.
type AnalyzeResult struct {
	LinkStats  LinkStats   `json:"link_stats"`
	GraphStats GraphStats  `json:"graph_stats"`
	Clusters   [][]string  `json:"clusters"`
}

// GraphMetrics is one note's computed metrics.
type GraphMetrics struct {
	NoteID                string    `json:"note_id"`
	PageRank              float64   `json:"pagerank"`
	InDegree              int       `json:"in_degree"`
	OutDegree             int       `json:"out_degree"`
	Betweenness           float64   `json:"betweenness"`
	Closeness             float64   `json:"closeness"`
	ClusteringCoefficient float64   `json:"clustering_coefficient"`
	ComputedAt            time.Time `json:"computed_at"`
}

// BrokenLink is one distinct unresolved link target.
type BrokenLink struct {
	SourceNoteID string `json:"source_note_id"`
	TargetPath   string `json:"target_path"`
	Occurrences  int    `json:"occurrences"`
}

// EgoGraph is the neighborhood subgraph around one note.
type EgoGraph struct {
	Center string       `json:"center"`
	Notes  []string     `json:"notes"`
	Edges  []EgoGraphEdge `json:"edges"`
}

// EgoGraphEdge is one directed edge within an EgoGraph.
type EgoGraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
