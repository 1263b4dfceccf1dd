package facade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanvault/vaultgraph/internal/config"
	"github.com/arkanvault/vaultgraph/internal/store"
)

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, config.Default(), nil)
}

func writeVault(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".obsidian"), 0o755))
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestScanVaultIsIdempotent(t *testing.T) {
	f := newTestFacade(t)
	root := writeVault(t, map[string]string{
		"a.md": "# Alpha\n\nLinks to [[b]].\n",
		"b.md": "# Beta\n\n#project\n",
	})

	first, err := f.ScanVault(context.Background(), root, "my-vault")
	require.NoError(t, err)
	assert.Equal(t, 2, first.NotesAdded)

	second, err := f.ScanVault(context.Background(), root, "my-vault")
	require.NoError(t, err)
	assert.Equal(t, 0, second.NotesAdded)
	assert.Equal(t, 0, second.NotesUpdated)
	assert.Equal(t, first.VaultID, second.VaultID)
}

func TestGetVaultNotFoundIsTypedError(t *testing.T) {
	f := newTestFacade(t)

	_, err := f.GetVault("vault_doesnotexist")
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindVaultNotFound, fe.Kind)
}

func TestGetNoteNotFoundIsTypedError(t *testing.T) {
	f := newTestFacade(t)

	_, err := f.GetNote("note_doesnotexist")
	require.Error(t, err)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindNoteNotFound, fe.Kind)
}

func TestAnalyzeVaultPersistsMetricsAndClusters(t *testing.T) {
	f := newTestFacade(t)
	root := writeVault(t, map[string]string{
		"a.md": "# Alpha\n\n[[b]] [[c]]\n",
		"b.md": "# Beta\n\n[[a]]\n",
		"c.md": "# Gamma\n\n[[a]]\n",
	})

	scan, err := f.ScanVault(context.Background(), root, "v")
	require.NoError(t, err)
	require.True(t, scan.Success())

	result, err := f.AnalyzeVault(context.Background(), scan.VaultID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.GraphStats.Notes)
	assert.Equal(t, 4, result.GraphStats.Edges)
	assert.Equal(t, 0, result.LinkStats.Broken)
	require.Len(t, result.Clusters, 1)
	assert.Len(t, result.Clusters[0], 3)

	notes, err := f.GetNotes(scan.VaultID, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, notes)

	metrics, err := f.GetNoteMetrics(notes[0].ID)
	require.NoError(t, err)
	assert.Equal(t, notes[0].ID, metrics.NoteID)
}

func TestGetVaultStatsCountsOrphansAndBrokenLinks(t *testing.T) {
	f := newTestFacade(t)
	root := writeVault(t, map[string]string{
		"a.md": "# Alpha\n\n[[missing]]\n",
		"b.md": "# Beta\n",
	})

	scan, err := f.ScanVault(context.Background(), root, "v")
	require.NoError(t, err)

	_, err = f.AnalyzeVault(context.Background(), scan.VaultID)
	require.NoError(t, err)

	stats, err := f.GetVaultStats(scan.VaultID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.NoteCount)
	assert.Equal(t, 1, stats.BrokenLinks)
	assert.Equal(t, 1, stats.OrphanedNotes) // b.md has no links at all

	broken, err := f.GetBrokenLinks(scan.VaultID, 0)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, "missing", broken[0].TargetPath)
}

// TestDeletingLinkTargetProducesBrokenLink covers the case where a link was
// already resolved, then its target note is removed from the vault: the
// note's deletion cascades to null out the link's target_note_id, and the
// next analyze_vault must surface it as broken rather than leaving it
// silently unresolved.
func TestDeletingLinkTargetProducesBrokenLink(t *testing.T) {
	f := newTestFacade(t)
	root := writeVault(t, map[string]string{
		"a.md": "# Alpha\n\n[[b]]\n",
		"b.md": "# Beta\n",
	})

	scan, err := f.ScanVault(context.Background(), root, "v")
	require.NoError(t, err)

	result, err := f.AnalyzeVault(context.Background(), scan.VaultID)
	require.NoError(t, err)
	require.Equal(t, 0, result.LinkStats.Broken)

	require.NoError(t, os.Remove(filepath.Join(root, "b.md")))

	_, err = f.ScanVault(context.Background(), root, "v")
	require.NoError(t, err)

	result, err = f.AnalyzeVault(context.Background(), scan.VaultID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.LinkStats.Broken)

	broken, err := f.GetBrokenLinks(scan.VaultID, 0)
	require.NoError(t, err)
	require.Len(t, broken, 1)
	assert.Equal(t, "b", broken[0].TargetPath)
}

func TestGetEgoGraphRespectsRadius(t *testing.T) {
	f := newTestFacade(t)
	root := writeVault(t, map[string]string{
		"a.md": "# Alpha\n\n[[b]]\n",
		"b.md": "# Beta\n\n[[c]]\n",
		"c.md": "# Gamma\n",
	})

	scan, err := f.ScanVault(context.Background(), root, "v")
	require.NoError(t, err)
	_, err = f.AnalyzeVault(context.Background(), scan.VaultID)
	require.NoError(t, err)

	notes, err := f.GetNotes(scan.VaultID, 0, 0)
	require.NoError(t, err)

	var alphaID string
	for _, n := range notes {
		if n.RelativePath == "a.md" {
			alphaID = n.ID
		}
	}
	require.NotEmpty(t, alphaID)

	ego, err := f.GetEgoGraph(scan.VaultID, alphaID, 1)
	require.NoError(t, err)
	assert.Len(t, ego.Notes, 2) // a, b only at radius 1
}

func TestDeleteVaultRemovesItFromListing(t *testing.T) {
	f := newTestFacade(t)
	root := writeVault(t, map[string]string{"a.md": "# Alpha\n"})

	scan, err := f.ScanVault(context.Background(), root, "v")
	require.NoError(t, err)

	require.NoError(t, f.DeleteVault(scan.VaultID))

	_, err = f.GetVault(scan.VaultID)
	require.Error(t, err)
}
