package graph

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanvault/vaultgraph/internal/store"
)

// buildTestGraph sets up a small vault in a real Store: a triangle
// (a -> b -> c -> a) plus a pendant (a -> d).
func buildTestGraph(t *testing.T) (*store.Store, string, map[string]string) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	vaultID, err := s.AddVault("/tmp/vault", "vault")
	require.NoError(t, err)

	ids := make(map[string]string)
	for _, name := range []string{"a", "b", "c", "d"} {
		id, _, err := s.UpsertNote(vaultID, store.NoteUpsert{
			RelativePath: name + ".md", Title: name, ContentHash: "h-" + name, ModifiedAt: time.Now(),
		})
		require.NoError(t, err)
		ids[name] = id
	}

	// a -> b, a -> d; b -> c; c -> a (a triangle a/b/c plus pendant d).
	outgoing := map[string][]string{
		"a": {"b", "d"},
		"b": {"c"},
		"c": {"a"},
	}
	for source, targets := range outgoing {
		links := make([]store.ParsedLink, 0, len(targets))
		for _, target := range targets {
			links = append(links, store.ParsedLink{TargetPath: target, LinkText: target})
		}
		require.NoError(t, s.ReplaceLinks(ids[source], links))
	}

	unresolved, err := s.UnresolvedLinks(vaultID)
	require.NoError(t, err)
	for _, l := range unresolved {
		targetID, ok := ids[l.TargetPath]
		require.True(t, ok, "unexpected link target %q", l.TargetPath)
		require.NoError(t, s.SetLinkTarget(l.ID, targetID))
	}

	return s, vaultID, ids
}

func TestBuildCountsNodesAndEdges(t *testing.T) {
	s, vaultID, _ := buildTestGraph(t)

	g, err := Build(s, vaultID)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())
}

func TestPageRankSumsToApproximatelyOne(t *testing.T) {
	s, vaultID, _ := buildTestGraph(t)
	g, err := Build(s, vaultID)
	require.NoError(t, err)

	ranks := g.PageRank(context.Background())
	require.Len(t, ranks, 4)

	var total float64
	for _, r := range ranks {
		total += r
	}
	assert.InDelta(t, 1.0, total, 1e-6)
}

func TestPageRankHandlesDanglingNodes(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	vaultID, err := s.AddVault("/tmp/v", "v")
	require.NoError(t, err)
	_, _, err = s.UpsertNote(vaultID, store.NoteUpsert{RelativePath: "lonely.md", Title: "lonely", ContentHash: "h", ModifiedAt: time.Now()})
	require.NoError(t, err)

	g, err := Build(s, vaultID)
	require.NoError(t, err)

	ranks := g.PageRank(context.Background())
	require.Len(t, ranks, 1)
	for _, r := range ranks {
		assert.False(t, math.IsNaN(r))
	}
}

func TestClusteringCoefficientOfTriangleIsOne(t *testing.T) {
	s, vaultID, ids := buildTestGraph(t)
	g, err := Build(s, vaultID)
	require.NoError(t, err)

	cc := g.ClusteringCoefficient()
	assert.InDelta(t, 1.0, cc[ids["b"]], 1e-9, "b's only two neighbors a,c are themselves connected")
}

func TestFindClustersRespectsMinSize(t *testing.T) {
	s, vaultID, _ := buildTestGraph(t)
	g, err := Build(s, vaultID)
	require.NoError(t, err)

	clusters := g.FindClusters(1)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 4)

	none := g.FindClusters(5)
	assert.Empty(t, none)
}

func TestEgoGraphRespectsRadius(t *testing.T) {
	s, vaultID, ids := buildTestGraph(t)
	g, err := Build(s, vaultID)
	require.NoError(t, err)

	ego := g.EgoGraph(ids["d"], 1)
	assert.Len(t, ego.Notes, 2, "d's 1-hop neighborhood is just a and d")

	ego2 := g.EgoGraph(ids["d"], 2)
	assert.Len(t, ego2.Notes, 4, "within 2 hops, d reaches everyone via a")
}

func TestAnalyzePersistsMetrics(t *testing.T) {
	s, vaultID, ids := buildTestGraph(t)

	stats, err := Analyze(context.Background(), s, vaultID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Notes)
	assert.Equal(t, 4, stats.Edges)

	metric, err := s.GetNoteMetrics(ids["a"])
	require.NoError(t, err)
	assert.Equal(t, 2, metric.OutDegree)
	assert.Equal(t, 1, metric.InDegree)
	assert.Greater(t, metric.PageRank, 0.0)
}
