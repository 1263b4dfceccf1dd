package store

// ListTags returns every tag known in the store, most-used first. Tags are
// store-wide rather than per-vault, so note_count can span vaults once
// more than one is tracked.
func (s *Store) ListTags() ([]Tag, error) {
	var rows []Tag
	err := s.db.Select(&rows, `SELECT id, tag, note_count FROM tags ORDER BY note_count DESC, tag`)
	return rows, err
}

// NotesByTag returns the notes in vaultID carrying the given tag.
func (s *Store) NotesByTag(vaultID, tag string) ([]Note, error) {
	var rows []noteRow
	err := s.db.Select(&rows, `
		SELECT n.id, n.vault_id, n.relative_path, n.title, n.content_hash, n.word_count, n.char_count,
		       n.created_at, n.modified_at, n.scanned_at, n.tags, n.aliases, n.metadata
		FROM notes n
		JOIN note_tags nt ON nt.note_id = n.id
		JOIN tags t ON t.id = nt.tag_id
		WHERE n.vault_id = ? AND t.tag = ?
		ORDER BY n.relative_path`, vaultID, tag)
	if err != nil {
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
