package store

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type noteRow struct {
	ID           string     `db:"id"`
	VaultID      string     `db:"vault_id"`
	RelativePath string     `db:"relative_path"`
	Title        string     `db:"title"`
	ContentHash  string     `db:"content_hash"`
	WordCount    int        `db:"word_count"`
	CharCount    int        `db:"char_count"`
	CreatedAt    string     `db:"created_at"`
	ModifiedAt   string     `db:"modified_at"`
	ScannedAt    string     `db:"scanned_at"`
	Tags         StringList `db:"tags"`
	Aliases      StringList `db:"aliases"`
	Metadata     JSONMap    `db:"metadata"`
}

func (r noteRow) toNote() (*Note, error) {
	created, err := parseTimeString(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	modified, err := parseTimeString(r.ModifiedAt)
	if err != nil {
		return nil, err
	}
	scanned, err := parseTimeString(r.ScannedAt)
	if err != nil {
		return nil, err
	}
	return &Note{
		ID:           r.ID,
		VaultID:      r.VaultID,
		RelativePath: r.RelativePath,
		Title:        r.Title,
		ContentHash:  r.ContentHash,
		WordCount:    r.WordCount,
		CharCount:    r.CharCount,
		CreatedAt:    created,
		ModifiedAt:   modified,
		ScannedAt:    scanned,
		Tags:         r.Tags,
		Aliases:      r.Aliases,
		Metadata:     r.Metadata,
	}, nil
}

const noteColumns = `id, vault_id, relative_path, title, content_hash, word_count, char_count, created_at, modified_at, scanned_at, tags, aliases, metadata`

// upsertNote identifies a note by (vault_id, relative_path): it inserts a
// new row if none exists, or replaces content/metadata in place (same id)
// if one does. It also reconciles the note_tags join so Tag.note_count
// stays accurate. Returns the note id and whether it was newly created.
//
// Takes a querier so it can run standalone (Store.UpsertNote) or as one
// step of a larger caller-managed transaction (Tx.UpsertNote, used by a
// vault scan applying many notes under a single commit).
func upsertNote(q querier, vaultID string, upsert NoteUpsert) (noteID string, wasNew bool, err error) {
	var existingID string
	getErr := q.Get(&existingID, `SELECT id FROM notes WHERE vault_id = ? AND relative_path = ?`, vaultID, upsert.RelativePath)

	now := timeString(nowUTC())

	if getErr == sql.ErrNoRows {
		noteID = uuid.New().String()
		wasNew = true
		_, err = q.Exec(
			`INSERT INTO notes (id, vault_id, relative_path, title, content_hash, word_count, char_count, created_at, modified_at, scanned_at, tags, aliases, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			noteID, vaultID, upsert.RelativePath, upsert.Title, upsert.ContentHash,
			upsert.WordCount, upsert.CharCount, timeString(upsert.ModifiedAt), timeString(upsert.ModifiedAt), now,
			StringList(upsert.Tags), StringList(upsert.Aliases), JSONMap(upsert.Metadata),
		)
		if err != nil {
			return "", false, err
		}
	} else if getErr != nil {
		return "", false, getErr
	} else {
		noteID = existingID
		_, err = q.Exec(
			`UPDATE notes SET title = ?, content_hash = ?, word_count = ?, char_count = ?, modified_at = ?, scanned_at = ?, tags = ?, aliases = ?, metadata = ? WHERE id = ?`,
			upsert.Title, upsert.ContentHash, upsert.WordCount, upsert.CharCount,
			timeString(upsert.ModifiedAt), now, StringList(upsert.Tags), StringList(upsert.Aliases), JSONMap(upsert.Metadata), noteID,
		)
		if err != nil {
			return "", false, err
		}
	}

	if err := reconcileNoteTags(q, noteID, upsert.Tags); err != nil {
		return "", false, err
	}
	return noteID, wasNew, nil
}

// UpsertNote runs upsertNote standalone, in its own transaction.
func (s *Store) UpsertNote(vaultID string, upsert NoteUpsert) (noteID string, wasNew bool, err error) {
	err = s.withTx(func(tx *sqlx.Tx) error {
		var txErr error
		noteID, wasNew, txErr = upsertNote(tx, vaultID, upsert)
		return txErr
	})
	return noteID, wasNew, err
}

// UpsertNote runs upsertNote as part of this caller-managed transaction.
func (t *Tx) UpsertNote(vaultID string, upsert NoteUpsert) (noteID string, wasNew bool, err error) {
	return upsertNote(t.tx, vaultID, upsert)
}

// reconcileNoteTags sets a note's tag associations to exactly the given
// set, creating Tag rows as needed. Driven by deletes/inserts on note_tags
// so the counter-maintaining triggers in schema.sql fire correctly.
func reconcileNoteTags(q querier, noteID string, tags []string) error {
	if _, err := q.Exec(`DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return err
	}

	for _, tag := range tags {
		tagID, err := getOrCreateTag(q, tag)
		if err != nil {
			return err
		}
		if _, err := q.Exec(`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`, noteID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func getOrCreateTag(q querier, tag string) (string, error) {
	var id string
	err := q.Get(&id, `SELECT id FROM tags WHERE tag = ?`, tag)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	id = uuid.New().String()
	_, err = q.Exec(`INSERT INTO tags (id, tag, note_count) VALUES (?, ?, 0)`, id, tag)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetNote retrieves a note by id.
func (s *Store) GetNote(noteID string) (*Note, error) {
	var row noteRow
	err := s.db.Get(&row, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, noteID)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "note", ID: noteID}
	}
	if err != nil {
		return nil, err
	}
	return row.toNote()
}

// GetNotes lists notes in a vault ordered by relative path, optionally
// paginated.
func (s *Store) GetNotes(vaultID string, limit, offset int) ([]Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE vault_id = ? ORDER BY relative_path`
	args := []any{vaultID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []noteRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	notes := make([]Note, 0, len(rows))
	for _, r := range rows {
		n, err := r.toNote()
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, nil
}

// NotePathHashes returns the (relative_path -> content_hash) map for every
// note currently known in a vault — the Scanner's known-paths input for
// diffing against the filesystem.
func (s *Store) NotePathHashes(vaultID string) (map[string]string, error) {
	type row struct {
		RelativePath string `db:"relative_path"`
		ContentHash  string `db:"content_hash"`
	}
	var rows []row
	if err := s.db.Select(&rows, `SELECT relative_path, content_hash FROM notes WHERE vault_id = ?`, vaultID); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.RelativePath] = r.ContentHash
	}
	return out, nil
}

func noteIDByPath(q querier, vaultID, relativePath string) (string, error) {
	var id string
	err := q.Get(&id, `SELECT id FROM notes WHERE vault_id = ? AND relative_path = ?`, vaultID, relativePath)
	if err == sql.ErrNoRows {
		return "", &NotFoundError{Resource: "note", ID: relativePath}
	}
	return id, err
}

// NoteIDByPath looks up a note's id by its relative path within a vault.
func (s *Store) NoteIDByPath(vaultID, relativePath string) (string, error) {
	return noteIDByPath(s.db, vaultID, relativePath)
}

// NoteIDByPath looks up a note's id by its relative path within a vault, as
// part of this caller-managed transaction — used when a scan needs to
// resolve vanished paths to ids without leaving the scan's transaction
// (the store's single pooled connection would otherwise deadlock against
// itself for the duration of the open transaction).
func (t *Tx) NoteIDByPath(vaultID, relativePath string) (string, error) {
	return noteIDByPath(t.tx, vaultID, relativePath)
}

func deleteNote(q querier, noteID string) error {
	res, err := q.Exec(`DELETE FROM notes WHERE id = ?`, noteID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &NotFoundError{Resource: "note", ID: noteID}
	}
	return nil
}

// DeleteNote removes a note; cascades to its links and metrics.
func (s *Store) DeleteNote(noteID string) error {
	return deleteNote(s.db, noteID)
}

// DeleteNote removes a note as part of this caller-managed transaction —
// used when a scan finds a previously-known path gone from disk.
func (t *Tx) DeleteNote(noteID string) error {
	return deleteNote(t.tx, noteID)
}
