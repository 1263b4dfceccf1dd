package store

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type linkRow struct {
	ID           string  `db:"id"`
	SourceNoteID string  `db:"source_note_id"`
	TargetNoteID *string `db:"target_note_id"`
	TargetPath   string  `db:"target_path"`
	LinkType     string  `db:"link_type"`
	LinkText     string  `db:"link_text"`
}

func (r linkRow) toLink() Link {
	return Link{
		ID:           r.ID,
		SourceNoteID: r.SourceNoteID,
		TargetNoteID: r.TargetNoteID,
		TargetPath:   r.TargetPath,
		LinkType:     LinkType(r.LinkType),
		LinkText:     r.LinkText,
	}
}

// replaceLinks deletes every existing outgoing link from sourceNoteID and
// replaces it with the given set, all unresolved (target_note_id NULL,
// link_type "broken") until the resolver runs. Delete-all-then-reinsert is
// chosen over diffing because link identity is purely positional and cheap
// to regenerate. Starting new links at "broken" rather than "internal" keeps
// the internal-implies-non-null-target invariant true for freshly inserted
// links. A link whose target note is later deleted keeps link_type
// "internal" with a NULL target until the next resolve pass marks it broken
// (see UnresolvedLinks).
func replaceLinks(q querier, sourceNoteID string, links []ParsedLink) error {
	if _, err := q.Exec(`DELETE FROM links WHERE source_note_id = ?`, sourceNoteID); err != nil {
		return err
	}
	for _, l := range links {
		id := uuid.New().String()
		if _, err := q.Exec(
			`INSERT INTO links (id, source_note_id, target_note_id, target_path, link_type, link_text) VALUES (?, ?, NULL, ?, ?, ?)`,
			id, sourceNoteID, l.TargetPath, LinkBroken, l.LinkText,
		); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceLinks runs replaceLinks standalone, in its own transaction.
func (s *Store) ReplaceLinks(sourceNoteID string, links []ParsedLink) error {
	return s.withTx(func(tx *sqlx.Tx) error {
		return replaceLinks(tx, sourceNoteID, links)
	})
}

// ReplaceLinks runs replaceLinks as part of this caller-managed transaction.
func (t *Tx) ReplaceLinks(sourceNoteID string, links []ParsedLink) error {
	return replaceLinks(t.tx, sourceNoteID, links)
}

func setLinkTarget(q querier, linkID, targetNoteID string) error {
	_, err := q.Exec(`UPDATE links SET target_note_id = ?, link_type = ? WHERE id = ?`, targetNoteID, LinkInternal, linkID)
	return err
}

// SetLinkTarget marks a link as resolved to targetNoteID, standalone.
func (s *Store) SetLinkTarget(linkID, targetNoteID string) error {
	return setLinkTarget(s.db, linkID, targetNoteID)
}

// SetLinkTarget marks a link as resolved to targetNoteID, as part of this
// caller-managed transaction — used by a resolve pass applying many
// resolutions under a single commit.
func (t *Tx) SetLinkTarget(linkID, targetNoteID string) error {
	return setLinkTarget(t.tx, linkID, targetNoteID)
}

// MarkLinkExternal marks a link as a recognized non-vault target (a URL, or
// any scheme the resolver is configured to treat as external) rather than
// broken.
func (s *Store) MarkLinkExternal(linkID string) error {
	_, err := s.db.Exec(`UPDATE links SET link_type = ? WHERE id = ?`, LinkExternal, linkID)
	return err
}

func markLinkBroken(q querier, linkID string) error {
	_, err := q.Exec(`UPDATE links SET target_note_id = NULL, link_type = ? WHERE id = ?`, LinkBroken, linkID)
	return err
}

// MarkLinkBroken marks a link as unresolved, standalone.
func (s *Store) MarkLinkBroken(linkID string) error {
	return markLinkBroken(s.db, linkID)
}

// MarkLinkBroken marks a link as unresolved, as part of this caller-managed
// transaction — used by a resolve pass to settle links a cache lookup
// couldn't match.
func (t *Tx) MarkLinkBroken(linkID string) error {
	return markLinkBroken(t.tx, linkID)
}

// UnresolvedLinks returns every link in a vault still awaiting resolution:
// target_note_id NULL with link_type 'broken' (never matched) or 'internal'
// (its target note was since deleted, which nulls target_note_id via the
// links.target_note_id foreign key's ON DELETE SET NULL but leaves link_type
// untouched) — the resolver's input set.
func (s *Store) UnresolvedLinks(vaultID string) ([]Link, error) {
	var rows []linkRow
	err := s.db.Select(&rows, `
		SELECT l.id, l.source_note_id, l.target_note_id, l.target_path, l.link_type, l.link_text
		FROM links l
		JOIN notes n ON n.id = l.source_note_id
		WHERE n.vault_id = ? AND l.target_note_id IS NULL AND l.link_type IN ('broken', 'internal')`, vaultID)
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(rows))
	for _, r := range rows {
		links = append(links, r.toLink())
	}
	return links, nil
}

// SourcePath returns the relative_path of a link's source note — the
// resolver needs this to apply the same-directory tiebreak.
func (s *Store) SourcePath(sourceNoteID string) (string, error) {
	var path string
	err := s.db.Get(&path, `SELECT relative_path FROM notes WHERE id = ?`, sourceNoteID)
	return path, err
}

// BrokenLinkCount is one row of the broken_links view: a distinct unresolved
// target, grouped by the note that references it.
type BrokenLinkCount struct {
	SourceNoteID string `db:"source_note_id"`
	TargetPath   string `db:"target_path"`
	VaultID      string `db:"vault_id"`
	Occurrences  int    `db:"occurrences"`
}

// BrokenLinks returns the broken_links view rows for a vault.
func (s *Store) BrokenLinks(vaultID string) ([]BrokenLinkCount, error) {
	var rows []BrokenLinkCount
	err := s.db.Select(&rows, `SELECT source_note_id, target_path, vault_id, occurrences FROM broken_links WHERE vault_id = ? ORDER BY occurrences DESC`, vaultID)
	return rows, err
}

// OrphanedNotes returns notes in a vault with neither inbound nor outbound
// links, via the orphaned_notes view.
func (s *Store) OrphanedNotes(vaultID string) ([]Note, error) {
	var rows []noteRow
	err := s.db.Select(&rows, `SELECT `+noteColumns+` FROM orphaned_notes WHERE vault_id = ? ORDER BY relative_path`, vaultID)
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

// AllLinks returns every link whose source note belongs to vaultID — the
// edge set the GraphEngine builds its digraph from.
func (s *Store) AllLinks(vaultID string) ([]Link, error) {
	var rows []linkRow
	err := s.db.Select(&rows, `
		SELECT l.id, l.source_note_id, l.target_note_id, l.target_path, l.link_type, l.link_text
		FROM links l
		JOIN notes n ON n.id = l.source_note_id
		WHERE n.vault_id = ?`, vaultID)
	if err != nil {
		return nil, err
	}
	links := make([]Link, 0, len(rows))
	for _, r := range rows {
		links = append(links, r.toLink())
	}
	return links, nil
}
