package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenInstallsSchema(t *testing.T) {
	s := newTestStore(t)

	var version int
	err := s.db.Get(&version, `SELECT version FROM schema_version`)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestAddVaultIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	id1, err := s.AddVault("/tmp/vault-a", "vault-a")
	require.NoError(t, err)

	id2, err := s.AddVault("/tmp/vault-a", "vault-a")
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, VaultID("/tmp/vault-a"), id1)
}

func TestGetVaultNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetVault("does-not-exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertNoteCreatesThenUpdates(t *testing.T) {
	s := newTestStore(t)
	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	id1, wasNew, err := s.UpsertNote(vaultID, NoteUpsert{
		RelativePath: "a.md",
		Title:        "A",
		ContentHash:  "hash1",
		WordCount:    10,
		CharCount:    50,
		ModifiedAt:   time.Now(),
		Tags:         []string{"alpha", "beta"},
	})
	require.NoError(t, err)
	assert.True(t, wasNew)

	vault, err := s.GetVault(vaultID)
	require.NoError(t, err)
	assert.Equal(t, 1, vault.NoteCount)

	id2, wasNew, err := s.UpsertNote(vaultID, NoteUpsert{
		RelativePath: "a.md",
		Title:        "A Updated",
		ContentHash:  "hash2",
		WordCount:    20,
		CharCount:    100,
		ModifiedAt:   time.Now(),
		Tags:         []string{"alpha"},
	})
	require.NoError(t, err)
	assert.False(t, wasNew)
	assert.Equal(t, id1, id2)

	note, err := s.GetNote(id1)
	require.NoError(t, err)
	assert.Equal(t, "A Updated", note.Title)
	assert.Equal(t, "hash2", note.ContentHash)
	assert.Equal(t, StringList{"alpha"}, note.Tags)

	vault, err = s.GetVault(vaultID)
	require.NoError(t, err)
	assert.Equal(t, 1, vault.NoteCount, "update must not double-count note_count")

	tags, err := s.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	for _, tag := range tags {
		if tag.Tag == "alpha" {
			assert.Equal(t, 1, tag.NoteCount)
		}
		if tag.Tag == "beta" {
			assert.Equal(t, 0, tag.NoteCount, "removed tag must drop its note_count back to zero")
		}
	}
}

func TestDeleteNoteDecrementsVaultCount(t *testing.T) {
	s := newTestStore(t)
	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	noteID, _, err := s.UpsertNote(vaultID, NoteUpsert{RelativePath: "a.md", Title: "A", ContentHash: "h", ModifiedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(noteID))

	vault, err := s.GetVault(vaultID)
	require.NoError(t, err)
	assert.Equal(t, 0, vault.NoteCount)

	_, err = s.GetNote(noteID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceLinksAndResolution(t *testing.T) {
	s := newTestStore(t)
	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	sourceID, _, err := s.UpsertNote(vaultID, NoteUpsert{RelativePath: "a.md", Title: "A", ContentHash: "h1", ModifiedAt: time.Now()})
	require.NoError(t, err)
	targetID, _, err := s.UpsertNote(vaultID, NoteUpsert{RelativePath: "b.md", Title: "B", ContentHash: "h2", ModifiedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceLinks(sourceID, []ParsedLink{
		{TargetPath: "b", LinkText: "b"},
		{TargetPath: "missing", LinkText: "missing"},
	}))

	unresolved, err := s.UnresolvedLinks(vaultID)
	require.NoError(t, err)
	require.Len(t, unresolved, 2)

	for _, link := range unresolved {
		if link.TargetPath == "b" {
			require.NoError(t, s.SetLinkTarget(link.ID, targetID))
		}
	}

	broken, err := s.BrokenLinks(vaultID)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, "missing", broken[0].TargetPath)

	all, err := s.AllLinks(vaultID)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestTxBatchesMultipleNotes(t *testing.T) {
	s := newTestStore(t)
	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	tx, err := s.Begin()
	require.NoError(t, err)

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		_, _, err := tx.UpsertNote(vaultID, NoteUpsert{RelativePath: name, Title: name, ContentHash: "h", ModifiedAt: time.Now()})
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())

	notes, err := s.GetNotes(vaultID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 3)

	vault, err := s.GetVault(vaultID)
	require.NoError(t, err)
	assert.Equal(t, 3, vault.NoteCount)
}

func TestOrphanedNotes(t *testing.T) {
	s := newTestStore(t)
	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	aID, _, err := s.UpsertNote(vaultID, NoteUpsert{RelativePath: "a.md", Title: "A", ContentHash: "h", ModifiedAt: time.Now()})
	require.NoError(t, err)
	bID, _, err := s.UpsertNote(vaultID, NoteUpsert{RelativePath: "b.md", Title: "B", ContentHash: "h", ModifiedAt: time.Now()})
	require.NoError(t, err)
	_, _, err = s.UpsertNote(vaultID, NoteUpsert{RelativePath: "orphan.md", Title: "Orphan", ContentHash: "h", ModifiedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceLinks(aID, []ParsedLink{{TargetPath: "b", LinkText: "b"}}))
	_, err = s.db.Exec(`UPDATE links SET target_note_id = ? WHERE source_note_id = ?`, bID, aID)
	require.NoError(t, err)

	orphans, err := s.OrphanedNotes(vaultID)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "orphan.md", orphans[0].RelativePath)
}

func TestScanLifecycle(t *testing.T) {
	s := newTestStore(t)
	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	scanID, err := s.BeginScan(vaultID)
	require.NoError(t, err)

	require.NoError(t, s.CompleteScan(scanID, 5, 2, 1, 0, 0.25))

	run, err := s.GetScanRun(scanID)
	require.NoError(t, err)
	assert.Equal(t, ScanCompleted, run.Status)
	assert.Equal(t, 5, run.NotesScanned)
	assert.NotNil(t, run.CompletedAt)
}

func TestOpenRejectsMismatchedSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s.db.Exec(`UPDATE schema_version SET version = ?`, SchemaVersion+1)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, nil)
	require.Error(t, err)
	var mismatch *SchemaMismatchError
	assert.ErrorAs(t, err, &mismatch)
}
