package store

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type graphMetricRow struct {
	NoteID                string  `db:"note_id"`
	PageRank              float64 `db:"pagerank"`
	InDegree              int     `db:"in_degree"`
	OutDegree             int     `db:"out_degree"`
	Betweenness           float64 `db:"betweenness"`
	Closeness             float64 `db:"closeness"`
	ClusteringCoefficient float64 `db:"clustering_coefficient"`
	ComputedAt            string  `db:"computed_at"`
}

func (r graphMetricRow) toMetric() (*GraphMetric, error) {
	t, err := parseTimeString(r.ComputedAt)
	if err != nil {
		return nil, err
	}
	return &GraphMetric{
		NoteID:                r.NoteID,
		PageRank:              r.PageRank,
		InDegree:              r.InDegree,
		OutDegree:             r.OutDegree,
		Betweenness:           r.Betweenness,
		Closeness:             r.Closeness,
		ClusteringCoefficient: r.ClusteringCoefficient,
		ComputedAt:            t,
	}, nil
}

func upsertGraphMetric(q querier, m GraphMetric) error {
	_, err := q.Exec(`
		INSERT INTO graph_metrics (note_id, pagerank, in_degree, out_degree, betweenness, closeness, clustering_coefficient, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET
			pagerank = excluded.pagerank,
			in_degree = excluded.in_degree,
			out_degree = excluded.out_degree,
			betweenness = excluded.betweenness,
			closeness = excluded.closeness,
			clustering_coefficient = excluded.clustering_coefficient,
			computed_at = excluded.computed_at`,
		m.NoteID, m.PageRank, m.InDegree, m.OutDegree, m.Betweenness, m.Closeness, m.ClusteringCoefficient, timeString(m.ComputedAt),
	)
	return err
}

// UpsertGraphMetric runs upsertGraphMetric standalone, in its own
// transaction.
func (s *Store) UpsertGraphMetric(m GraphMetric) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		return upsertGraphMetric(tx, m)
	})
}

// UpsertGraphMetric runs upsertGraphMetric as part of this caller-managed
// transaction — used by analysis, which persists metrics for every note in
// a vault as one commit.
func (t *Tx) UpsertGraphMetric(m GraphMetric) error {
	return upsertGraphMetric(t.tx, m)
}

// GetNoteMetrics retrieves the computed metrics for a single note.
func (s *Store) GetNoteMetrics(noteID string) (*GraphMetric, error) {
	var row graphMetricRow
	err := s.db.Get(&row, `SELECT note_id, pagerank, in_degree, out_degree, betweenness, closeness, clustering_coefficient, computed_at FROM graph_metrics WHERE note_id = ?`, noteID)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "graph_metrics", ID: noteID}
	}
	if err != nil {
		return nil, err
	}
	return row.toMetric()
}

// HubNote pairs a Note with its degree totals, via the hub_notes view.
type HubNote struct {
	Note
	InDegree    int `db:"in_degree"`
	OutDegree   int `db:"out_degree"`
	TotalDegree int `db:"total_degree"`
}

// HubNotes returns the hub_notes view rows for a vault: notes whose
// combined in/out degree exceeds the view's fixed threshold of 10, ordered
// by total degree descending.
func (s *Store) HubNotes(vaultID string) ([]HubNote, error) {
	type row struct {
		noteRow
		InDegree    int `db:"in_degree"`
		OutDegree   int `db:"out_degree"`
		TotalDegree int `db:"total_degree"`
	}
	var rows []row
	err := s.db.Select(&rows, `
		SELECT id, vault_id, relative_path, title, content_hash, word_count, char_count,
		       created_at, modified_at, scanned_at, tags, aliases, metadata, in_degree, out_degree, total_degree
		FROM hub_notes WHERE vault_id = ? ORDER BY total_degree DESC`, vaultID)
	if err != nil {
		return nil, err
	}
	out := make([]HubNote, 0, len(rows))
	for _, r := range rows {
		n, err := r.noteRow.toNote()
		if err != nil {
			return nil, err
		}
		out = append(out, HubNote{Note: *n, InDegree: r.InDegree, OutDegree: r.OutDegree, TotalDegree: r.TotalDegree})
	}
	return out, nil
}

// AllNoteMetrics returns every computed metric row for a vault, keyed by
// note id — used to answer get_note_metrics-style bulk queries without a
// round trip per note.
func (s *Store) AllNoteMetrics(vaultID string) (map[string]GraphMetric, error) {
	var rows []graphMetricRow
	err := s.db.Select(&rows, `
		SELECT gm.note_id, gm.pagerank, gm.in_degree, gm.out_degree, gm.betweenness, gm.closeness, gm.clustering_coefficient, gm.computed_at
		FROM graph_metrics gm
		JOIN notes n ON n.id = gm.note_id
		WHERE n.vault_id = ?`, vaultID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]GraphMetric, len(rows))
	for _, r := range rows {
		m, err := r.toMetric()
		if err != nil {
			return nil, err
		}
		out[r.NoteID] = *m
	}
	return out, nil
}
