package facade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arkanvault/vaultgraph/internal/config"
	"github.com/arkanvault/vaultgraph/internal/gitsync"
	"github.com/arkanvault/vaultgraph/internal/graph"
	"github.com/arkanvault/vaultgraph/internal/resolver"
	"github.com/arkanvault/vaultgraph/internal/scanner"
	"github.com/arkanvault/vaultgraph/internal/store"
)

// Facade is vaultgraph's single entry point. It holds one Store and a
// per-vault mutex so a scan, a resolve pass, and an analysis on the same
// vault never interleave — concurrent requests for different vaults still
// run in parallel.
type Facade struct {
	store *store.Store
	cfg   *config.Config
	log   *slog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds a Facade over an already-open Store.
func New(s *store.Store, cfg *config.Config, logger *slog.Logger) *Facade {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Facade{
		store: s,
		cfg:   cfg,
		log:   logger,
		locks: make(map[string]*sync.Mutex),
	}
}

// lockVault returns the exclusive mutex for vaultID, creating it on first
// use. The map itself is guarded separately so looking up a lock for one
// vault never blocks on another vault's held lock.
func (f *Facade) lockVault(vaultID string) *sync.Mutex {
	f.locksMu.Lock()
	defer f.locksMu.Unlock()
	m, ok := f.locks[vaultID]
	if !ok {
		m = &sync.Mutex{}
		f.locks[vaultID] = m
	}
	return m
}

// DiscoverVaults walks root for directories containing a .obsidian
// subdirectory, returning their absolute paths.
func (f *Facade) DiscoverVaults(root string) ([]string, error) {
	paths, err := scanner.DiscoverVaults(root)
	if err != nil {
		return nil, newError(KindInvalidPath, fmt.Sprintf("discover vaults under %s", root), err)
	}
	for i, p := range paths {
		paths[i] = mustAbs(p)
	}
	return paths, nil
}

// ScanVault runs a scan of path, registering it as a new vault on first
// call. name is used only the first time a vault is seen. Cancelling ctx
// aborts the scan and rolls back its transaction.
func (f *Facade) ScanVault(ctx context.Context, path, name string) (ScanResult, error) {
	vaultID := store.VaultID(mustAbs(path))
	lock := f.lockVault(vaultID)
	lock.Lock()
	defer lock.Unlock()

	result, err := scanner.Scan(ctx, f.store, path, name, scanner.Options{
		Concurrency: f.cfg.Scan.Concurrency,
		BatchSize:   f.cfg.Scan.BatchSize,
	})
	if err != nil {
		return ScanResult{}, newError(KindScanError, fmt.Sprintf("scan vault %s", path), err)
	}
	return toScanResult(result), nil
}

// SyncAndScanVault fetches a remote vault via git before scanning it
// (gitsync, a domain addition beyond plain local-path scanning). src's
// LocalPath is scanned once the sync completes.
func (f *Facade) SyncAndScanVault(ctx context.Context, src gitsync.Source, name string) (ScanResult, error) {
	localPath, err := gitsync.Sync(ctx, src, f.log)
	if err != nil {
		return ScanResult{}, newError(KindScanError, fmt.Sprintf("sync vault from %s", src.RepoURL), err)
	}
	return f.ScanVault(ctx, localPath, name)
}

// DeleteVault removes a vault and everything derived from it.
func (f *Facade) DeleteVault(vaultID string) error {
	lock := f.lockVault(vaultID)
	lock.Lock()
	defer lock.Unlock()

	if err := f.store.DeleteVault(vaultID); err != nil {
		return f.wrapNotFound(err, KindVaultNotFound, "delete vault "+vaultID)
	}
	return nil
}

// ListVaults returns every tracked vault, most recently scanned first.
func (f *Facade) ListVaults() ([]Vault, error) {
	vaults, err := f.store.ListVaults()
	if err != nil {
		return nil, newError(KindStoreError, "list vaults", err)
	}
	out := make([]Vault, 0, len(vaults))
	for _, v := range vaults {
		out = append(out, toVault(v))
	}
	return out, nil
}

// GetVault retrieves a vault by id.
func (f *Facade) GetVault(vaultID string) (Vault, error) {
	v, err := f.store.GetVault(vaultID)
	if err != nil {
		return Vault{}, f.wrapNotFound(err, KindVaultNotFound, "get vault "+vaultID)
	}
	return toVault(*v), nil
}

// GetVaultByPath retrieves a vault by its absolute path.
func (f *Facade) GetVaultByPath(absolutePath string) (Vault, error) {
	v, err := f.store.GetVaultByPath(absolutePath)
	if err != nil {
		return Vault{}, f.wrapNotFound(err, KindVaultNotFound, "get vault at "+absolutePath)
	}
	return toVault(*v), nil
}

// GetNotes lists notes in a vault, optionally paginated.
func (f *Facade) GetNotes(vaultID string, limit, offset int) ([]Note, error) {
	notes, err := f.store.GetNotes(vaultID, limit, offset)
	if err != nil {
		return nil, newError(KindStoreError, "list notes for vault "+vaultID, err)
	}
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNote(n))
	}
	return out, nil
}

// GetNote retrieves a single note by id.
func (f *Facade) GetNote(noteID string) (Note, error) {
	n, err := f.store.GetNote(noteID)
	if err != nil {
		return Note{}, f.wrapNotFound(err, KindNoteNotFound, "get note "+noteID)
	}
	return toNote(*n), nil
}

// GetVaultStats summarizes a vault's current size and link health.
func (f *Facade) GetVaultStats(vaultID string) (VaultStats, error) {
	v, err := f.store.GetVault(vaultID)
	if err != nil {
		return VaultStats{}, f.wrapNotFound(err, KindVaultNotFound, "get vault "+vaultID)
	}

	tags, err := f.store.ListTags()
	if err != nil {
		return VaultStats{}, newError(KindStoreError, "list tags for vault "+vaultID, err)
	}

	broken, err := f.store.BrokenLinks(vaultID)
	if err != nil {
		return VaultStats{}, newError(KindStoreError, "count broken links for vault "+vaultID, err)
	}

	orphans, err := f.store.OrphanedNotes(vaultID)
	if err != nil {
		return VaultStats{}, newError(KindStoreError, "count orphaned notes for vault "+vaultID, err)
	}

	notes, err := f.store.GetNotes(vaultID, 0, 0)
	if err != nil {
		return VaultStats{}, newError(KindStoreError, "list notes for vault "+vaultID, err)
	}
	var totalWords int
	for _, n := range notes {
		totalWords += n.WordCount
	}
	avg := 0.0
	if len(notes) > 0 {
		avg = float64(totalWords) / float64(len(notes))
	}

	return VaultStats{
		VaultID:       vaultID,
		NoteCount:     v.NoteCount,
		TagCount:      len(tags),
		BrokenLinks:   len(broken),
		OrphanedNotes: len(orphans),
		AvgWordCount:  avg,
	}, nil
}

// AnalyzeVault runs a resolve pass followed by full graph analysis
// (PageRank, centrality, clustering), persisting the result. Cancelling
// ctx aborts PageRank's iteration loop early, before any metrics are
// written; link resolutions already committed by the resolve pass stay.
func (f *Facade) AnalyzeVault(ctx context.Context, vaultID string) (AnalyzeResult, error) {
	lock := f.lockVault(vaultID)
	lock.Lock()
	defer lock.Unlock()

	linkStats, err := resolver.ResolveVault(f.store, vaultID)
	if err != nil {
		return AnalyzeResult{}, newError(KindAnalysisError, "resolve links for vault "+vaultID, err)
	}

	stats, err := graph.Analyze(ctx, f.store, vaultID)
	if err != nil {
		return AnalyzeResult{}, newError(KindAnalysisError, "analyze graph for vault "+vaultID, err)
	}

	g, err := graph.Build(f.store, vaultID)
	if err != nil {
		return AnalyzeResult{}, newError(KindAnalysisError, "build graph for vault "+vaultID, err)
	}
	clusters := g.FindClusters(f.cfg.Graph.ClusterMinSize)
	clusterSets := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		clusterSets = append(clusterSets, c.Members)
	}

	return AnalyzeResult{
		LinkStats:  LinkStats{Resolved: linkStats.Resolved, Broken: linkStats.Broken, Total: linkStats.Total},
		GraphStats: GraphStats{Notes: stats.Notes, Edges: stats.Edges, Density: stats.Density},
		Clusters:   clusterSets,
	}, nil
}

// GetNoteMetrics retrieves the last computed metrics for a note.
func (f *Facade) GetNoteMetrics(noteID string) (GraphMetrics, error) {
	m, err := f.store.GetNoteMetrics(noteID)
	if err != nil {
		return GraphMetrics{}, f.wrapNotFound(err, KindNoteNotFound, "get metrics for note "+noteID)
	}
	return toGraphMetrics(*m), nil
}

// GetHubNotes returns notes whose combined degree meets or exceeds
// minLinks, falling back to the configured default threshold when
// minLinks is zero. Candidates come from the hub_notes view, which only
// holds notes with a combined degree above 10, so a minLinks of 10 or
// less still returns only notes with degree 11 or more.
func (f *Facade) GetHubNotes(vaultID string, minLinks int) ([]Note, error) {
	if minLinks <= 0 {
		minLinks = f.cfg.Graph.HubDegreeThreshold
	}
	hubs, err := f.store.HubNotes(vaultID)
	if err != nil {
		return nil, newError(KindStoreError, "list hub notes for vault "+vaultID, err)
	}
	out := make([]Note, 0, len(hubs))
	for _, h := range hubs {
		if h.TotalDegree < minLinks {
			continue
		}
		out = append(out, toNote(h.Note))
	}
	return out, nil
}

// GetOrphanNotes returns notes with no inbound or outbound links.
func (f *Facade) GetOrphanNotes(vaultID string, limit int) ([]Note, error) {
	notes, err := f.store.OrphanedNotes(vaultID)
	if err != nil {
		return nil, newError(KindStoreError, "list orphan notes for vault "+vaultID, err)
	}
	if limit > 0 && limit < len(notes) {
		notes = notes[:limit]
	}
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNote(n))
	}
	return out, nil
}

// GetBrokenLinks returns every unresolved link target in a vault.
func (f *Facade) GetBrokenLinks(vaultID string, limit int) ([]BrokenLink, error) {
	rows, err := f.store.BrokenLinks(vaultID)
	if err != nil {
		return nil, newError(KindStoreError, "list broken links for vault "+vaultID, err)
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out := make([]BrokenLink, 0, len(rows))
	for _, r := range rows {
		out = append(out, BrokenLink{SourceNoteID: r.SourceNoteID, TargetPath: r.TargetPath, Occurrences: r.Occurrences})
	}
	return out, nil
}

// FindClusters returns weakly connected components of at least minSize
// notes, falling back to the configured default when minSize is zero.
func (f *Facade) FindClusters(vaultID string, minSize int) ([][]string, error) {
	if minSize <= 0 {
		minSize = f.cfg.Graph.ClusterMinSize
	}
	g, err := graph.Build(f.store, vaultID)
	if err != nil {
		return nil, newError(KindAnalysisError, "build graph for vault "+vaultID, err)
	}
	clusters := g.FindClusters(minSize)
	out := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, c.Members)
	}
	return out, nil
}

// GetEgoGraph returns the neighborhood subgraph within radius hops of
// noteID, following edges in either direction.
func (f *Facade) GetEgoGraph(vaultID, noteID string, radius int) (EgoGraph, error) {
	if radius <= 0 {
		radius = 1
	}
	g, err := graph.Build(f.store, vaultID)
	if err != nil {
		return EgoGraph{}, newError(KindAnalysisError, "build graph for vault "+vaultID, err)
	}
	ego := g.EgoGraph(noteID, radius)

	edges := make([]EgoGraphEdge, 0, len(ego.Edges))
	for _, e := range ego.Edges {
		edges = append(edges, EgoGraphEdge{Source: e.Source, Target: e.Target})
	}
	return EgoGraph{Center: ego.Center, Notes: ego.Notes, Edges: edges}, nil
}

// wrapNotFound maps a store.NotFoundError to the given Kind, and any other
// store error to KindStoreError.
func (f *Facade) wrapNotFound(err error, kind Kind, message string) error {
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		return newError(kind, message, err)
	}
	return newError(KindStoreError, message, err)
}
