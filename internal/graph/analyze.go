package graph

import (
	"context"
	"time"

	"github.com/arkanvault/vaultgraph/internal/store"
)

// Stats is the aggregate summary returned alongside persisted per-note
// metrics.
type Stats struct {
	Notes   int
	Edges   int
	Density float64
}

// Analyze builds the graph for vaultID, computes every per-node metric,
// and persists them as one transaction: either every note gets its
// metrics row or none does.
func Analyze(ctx context.Context, s *store.Store, vaultID string) (Stats, error) {
	g, err := Build(s, vaultID)
	if err != nil {
		return Stats{}, err
	}

	pagerank := g.PageRank(ctx)
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	betweenness := g.Betweenness()
	closeness := g.Closeness()
	clustering := g.ClusteringCoefficient()
	computedAt := time.Now().UTC()

	tx, err := s.Begin()
	if err != nil {
		return Stats{}, err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	for _, id := range g.NoteIDs() {
		metric := store.GraphMetric{
			NoteID:                id,
			PageRank:              pagerank[id],
			InDegree:              g.InDegree(id),
			OutDegree:             g.OutDegree(id),
			Betweenness:           betweenness[id],
			Closeness:             closeness[id],
			ClusteringCoefficient: clustering[id],
			ComputedAt:            computedAt,
		}
		if err := tx.UpsertGraphMetric(metric); err != nil {
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, err
	}
	committed = true

	return Stats{
		Notes:   g.NodeCount(),
		Edges:   g.EdgeCount(),
		Density: g.Density(),
	}, nil
}
