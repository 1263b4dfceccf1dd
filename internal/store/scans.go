package store

import (
	"database/sql"

	"github.com/google/uuid"
)

type scanRunRow struct {
	ID              string  `db:"id"`
	VaultID         string  `db:"vault_id"`
	StartedAt       string  `db:"started_at"`
	CompletedAt     *string `db:"completed_at"`
	NotesScanned    int     `db:"notes_scanned"`
	NotesAdded      int     `db:"notes_added"`
	NotesUpdated    int     `db:"notes_updated"`
	NotesDeleted    int     `db:"notes_deleted"`
	DurationSeconds float64 `db:"duration_seconds"`
	Status          string  `db:"status"`
	ErrorMessage    *string `db:"error_message"`
}

func (r scanRunRow) toScanRun() (*ScanRun, error) {
	started, err := parseTimeString(r.StartedAt)
	if err != nil {
		return nil, err
	}
	run := &ScanRun{
		ID:              r.ID,
		VaultID:         r.VaultID,
		StartedAt:       started,
		NotesScanned:    r.NotesScanned,
		NotesAdded:      r.NotesAdded,
		NotesUpdated:    r.NotesUpdated,
		NotesDeleted:    r.NotesDeleted,
		DurationSeconds: r.DurationSeconds,
		Status:          ScanStatus(r.Status),
	}
	if r.CompletedAt != nil {
		t, err := parseTimeString(*r.CompletedAt)
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}
	if r.ErrorMessage != nil {
		run.ErrorMessage = *r.ErrorMessage
	}
	return run, nil
}

// BeginScan records the start of a scan and returns its id. The Scanner
// holds this id for the duration of the scan and calls CompleteScan or
// FailScan when it finishes.
func (s *Store) BeginScan(vaultID string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO scan_history (id, vault_id, started_at, status) VALUES (?, ?, ?, ?)`,
		id, vaultID, timeString(nowUTC()), ScanRunning,
	)
	return id, err
}

// CompleteScan closes out a scan run with its final counters.
func (s *Store) CompleteScan(scanID string, scanned, added, updated, deleted int, duration float64) error {
	_, err := s.db.Exec(
		`UPDATE scan_history SET completed_at = ?, notes_scanned = ?, notes_added = ?, notes_updated = ?, notes_deleted = ?, duration_seconds = ?, status = ? WHERE id = ?`,
		timeString(nowUTC()), scanned, added, updated, deleted, duration, ScanCompleted, scanID,
	)
	return err
}

// FailScan closes out a scan run that aborted with an error.
func (s *Store) FailScan(scanID string, scanErr error) error {
	_, err := s.db.Exec(
		`UPDATE scan_history SET completed_at = ?, status = ?, error_message = ? WHERE id = ?`,
		timeString(nowUTC()), ScanFailed, scanErr.Error(), scanID,
	)
	return err
}

// GetScanRun retrieves one scan's audit record.
func (s *Store) GetScanRun(scanID string) (*ScanRun, error) {
	var row scanRunRow
	err := s.db.Get(&row, `SELECT id, vault_id, started_at, completed_at, notes_scanned, notes_added, notes_updated, notes_deleted, duration_seconds, status, error_message FROM scan_history WHERE id = ?`, scanID)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "scan_history", ID: scanID}
	}
	if err != nil {
		return nil, err
	}
	return row.toScanRun()
}

// ScanHistory lists a vault's scan runs, most recent first.
func (s *Store) ScanHistory(vaultID string, limit int) ([]ScanRun, error) {
	query := `SELECT id, vault_id, started_at, completed_at, notes_scanned, notes_added, notes_updated, notes_deleted, duration_seconds, status, error_message FROM scan_history WHERE vault_id = ? ORDER BY started_at DESC`
	args := []any{vaultID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	var rows []scanRunRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	runs := make([]ScanRun, 0, len(rows))
	for _, r := range rows {
		run, err := r.toScanRun()
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, nil
}
