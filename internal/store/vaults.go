package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
)

// vaultRow mirrors the vaults table; timestamps are TEXT in SQLite, so they
// are scanned as strings and converted at the boundary (adapted from the
// teacher's direct time.Time db-tagged fields, which relied on
// PostgreSQL's native timestamp type).
type vaultRow struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	AbsolutePath   string  `db:"absolute_path"`
	CreatedAt      string  `db:"created_at"`
	LastScannedAt  *string `db:"last_scanned_at"`
	NoteCount      int     `db:"note_count"`
	TotalSizeBytes int64   `db:"total_size_bytes"`
	Metadata       JSONMap `db:"metadata"`
}

func (r vaultRow) toVault() (*Vault, error) {
	created, err := parseTimeString(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	v := &Vault{
		ID:             r.ID,
		Name:           r.Name,
		AbsolutePath:   r.AbsolutePath,
		CreatedAt:      created,
		NoteCount:      r.NoteCount,
		TotalSizeBytes: r.TotalSizeBytes,
		Metadata:       r.Metadata,
	}
	if r.LastScannedAt != nil {
		t, err := parseTimeString(*r.LastScannedAt)
		if err != nil {
			return nil, err
		}
		v.LastScannedAt = &t
	}
	return v, nil
}

// VaultID derives a deterministic id from a vault's absolute path, so
// re-scanning the same path always yields the same id.
func VaultID(absolutePath string) string {
	sum := sha256.Sum256([]byte(absolutePath))
	return "vault_" + hex.EncodeToString(sum[:])[:16]
}

// AddVault creates a Vault row for absolutePath if one does not already
// exist, returning its id either way.
func (s *Store) AddVault(absolutePath, name string) (string, error) {
	id := VaultID(absolutePath)

	var existing string
	err := s.db.Get(&existing, `SELECT id FROM vaults WHERE absolute_path = ?`, absolutePath)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	_, err = s.db.Exec(
		`INSERT INTO vaults (id, name, absolute_path, created_at, note_count, total_size_bytes) VALUES (?, ?, ?, ?, 0, 0)`,
		id, name, absolutePath, timeString(nowUTC()),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetVault retrieves a vault by id.
func (s *Store) GetVault(id string) (*Vault, error) {
	var row vaultRow
	err := s.db.Get(&row, `SELECT id, name, absolute_path, created_at, last_scanned_at, note_count, total_size_bytes, metadata FROM vaults WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "vault", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return row.toVault()
}

// GetVaultByPath retrieves a vault by its absolute path.
func (s *Store) GetVaultByPath(absolutePath string) (*Vault, error) {
	var row vaultRow
	err := s.db.Get(&row, `SELECT id, name, absolute_path, created_at, last_scanned_at, note_count, total_size_bytes, metadata FROM vaults WHERE absolute_path = ?`, absolutePath)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "vault", ID: absolutePath}
	}
	if err != nil {
		return nil, err
	}
	return row.toVault()
}

// ListVaults returns all known vaults, most recently scanned first.
func (s *Store) ListVaults() ([]Vault, error) {
	var rows []vaultRow
	err := s.db.Select(&rows, `SELECT id, name, absolute_path, created_at, last_scanned_at, note_count, total_size_bytes, metadata FROM vaults ORDER BY last_scanned_at DESC`)
	if err != nil {
		return nil, err
	}
	vaults := make([]Vault, 0, len(rows))
	for _, r := range rows {
		v, err := r.toVault()
		if err != nil {
			return nil, err
		}
		vaults = append(vaults, *v)
	}
	return vaults, nil
}

// TouchVaultScanned updates last_scanned_at and the total content size
// after a scan completes.
func (s *Store) TouchVaultScanned(vaultID string, totalSizeBytes int64) error {
	_, err := s.db.Exec(`UPDATE vaults SET last_scanned_at = ?, total_size_bytes = ? WHERE id = ?`,
		timeString(nowUTC()), totalSizeBytes, vaultID)
	return err
}

// DeleteVault removes a vault and, via ON DELETE CASCADE, all its notes,
// links, metrics, and scan history.
func (s *Store) DeleteVault(vaultID string) error {
	res, err := s.db.Exec(`DELETE FROM vaults WHERE id = ?`, vaultID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &NotFoundError{Resource: "vault", ID: vaultID}
	}
	return nil
}
