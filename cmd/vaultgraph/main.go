// Package main is vaultgraph's command-line entry point: discover, scan,
// and inspect Obsidian-style vaults from a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/arkanvault/vaultgraph/internal/cliutil"
	"github.com/arkanvault/vaultgraph/internal/config"
	"github.com/arkanvault/vaultgraph/internal/facade"
	"github.com/arkanvault/vaultgraph/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return cliutil.ExitFailure
	}

	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "path to config.yaml")
	jsonOut := fs.Bool("json", false, "emit machine-readable JSON")
	verbose := fs.Bool("verbose", false, "log scan/analysis progress")
	scanAfter := fs.Bool("scan", false, "scan each discovered vault immediately")
	analyzeAfter := fs.Bool("analyze", false, "analyze the vault immediately after scanning")
	vaultFlag := fs.String("vault", "", "vault id")
	limit := fs.Int("limit", 0, "maximum rows to return (0 = unlimited)")
	minLinks := fs.Int("min-links", 0, "minimum combined degree for hub notes (0 = config default)")
	minSize := fs.Int("min-size", 0, "minimum cluster size (0 = config default)")
	radius := fs.Int("radius", 1, "ego graph radius in hops")
	if err := fs.Parse(rest); err != nil {
		return cliutil.ExitFailure
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := config.LoadFromYAMLOrDefault(*configPath)
	if err != nil {
		return fail(*jsonOut, "InvalidPath", err)
	}

	s, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return fail(*jsonOut, "StoreError", err)
	}
	defer s.Close()

	f := facade.New(s, cfg, logger)

	switch cmd {
	case "discover":
		return cmdDiscover(f, fs.Args(), *jsonOut, *scanAfter, *analyzeAfter, logger)
	case "scan":
		return cmdScan(f, fs.Args(), *jsonOut, *analyzeAfter, logger)
	case "analyze":
		return cmdAnalyze(f, fs.Args(), *jsonOut)
	case "vaults":
		return cmdVaults(f, *jsonOut)
	case "stats":
		return cmdStats(f, *vaultFlag, *jsonOut)
	case "notes":
		return cmdNotes(f, *vaultFlag, *limit, *jsonOut)
	case "hubs":
		return cmdHubs(f, *vaultFlag, *minLinks, *jsonOut)
	case "orphans":
		return cmdOrphans(f, *vaultFlag, *limit, *jsonOut)
	case "broken-links":
		return cmdBrokenLinks(f, *vaultFlag, *limit, *jsonOut)
	case "clusters":
		return cmdClusters(f, *vaultFlag, *minSize, *jsonOut)
	case "ego":
		return cmdEgo(f, *vaultFlag, fs.Args(), *radius, *jsonOut)
	default:
		usage()
		return cliutil.ExitFailure
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `vaultgraph <command> [flags]

Commands:
  discover <path> [--scan] [--analyze]   find vaults under a directory
  scan <path> [--analyze]                scan one vault
  analyze <vault-id>                     resolve links and compute graph metrics
  vaults                                 list tracked vaults
  stats --vault <id>                     summarize a vault
  notes --vault <id> [--limit n]         list notes in a vault
  hubs --vault <id> [--min-links n]      list hub notes
  orphans --vault <id> [--limit n]       list notes with no links
  broken-links --vault <id> [--limit n]  list unresolved link targets
  clusters --vault <id> [--min-size n]   list connected components
  ego --vault <id> <note-id> [--radius n] neighborhood subgraph of a note

Flags: --config path --json --verbose`)
}

func fail(jsonOut bool, kind string, err error) int {
	if jsonOut {
		cliutil.PrintJSONError(os.Stdout, kind, err.Error())
	} else {
		cliutil.Printf(os.Stderr, cliutil.Error, "%v", err)
	}
	return cliutil.ExitCodeFor(err)
}

func cmdDiscover(f *facade.Facade, args []string, jsonOut, scanAfter, analyzeAfter bool, logger *slog.Logger) int {
	if len(args) < 1 {
		usage()
		return cliutil.ExitFailure
	}
	paths, err := f.DiscoverVaults(args[0])
	if err != nil {
		return fail(jsonOut, "InvalidPath", err)
	}

	if !scanAfter {
		if jsonOut {
			cliutil.PrintJSON(os.Stdout, paths)
		} else {
			for _, p := range paths {
				fmt.Println(p)
			}
		}
		return cliutil.ExitOK
	}

	var results []facade.ScanResult
	for _, p := range paths {
		logger.Info("scanning discovered vault", "path", p)
		result, err := f.ScanVault(context.Background(), p, "")
		if err != nil {
			return fail(jsonOut, "ScanError", err)
		}
		if analyzeAfter {
			if _, err := f.AnalyzeVault(context.Background(), result.VaultID); err != nil {
				return fail(jsonOut, "AnalysisError", err)
			}
		}
		results = append(results, result)
	}

	if jsonOut {
		cliutil.PrintJSON(os.Stdout, results)
	} else {
		for _, r := range results {
			cliutil.Printf(os.Stdout, cliutil.Info, "scanned %s: %d notes (%d added, %d updated, %d deleted)",
				r.VaultID, r.NotesScanned, r.NotesAdded, r.NotesUpdated, r.NotesDeleted)
		}
	}
	return cliutil.ExitOK
}

func cmdScan(f *facade.Facade, args []string, jsonOut, analyzeAfter bool, logger *slog.Logger) int {
	if len(args) < 1 {
		usage()
		return cliutil.ExitFailure
	}
	result, err := f.ScanVault(context.Background(), args[0], "")
	if err != nil {
		return fail(jsonOut, "ScanError", err)
	}
	if analyzeAfter {
		if _, err := f.AnalyzeVault(context.Background(), result.VaultID); err != nil {
			return fail(jsonOut, "AnalysisError", err)
		}
	}

	if jsonOut {
		cliutil.PrintJSON(os.Stdout, result)
		return cliutil.ExitOK
	}
	cliutil.Printf(os.Stdout, cliutil.Info, "scanned %s: %d notes (%d added, %d updated, %d deleted) in %.2fs",
		result.VaultID, result.NotesScanned, result.NotesAdded, result.NotesUpdated, result.NotesDeleted, result.DurationSeconds)
	for _, w := range result.Warnings {
		cliutil.Printf(os.Stdout, cliutil.Warn, "%s", w)
	}
	return cliutil.ExitOK
}

func cmdAnalyze(f *facade.Facade, args []string, jsonOut bool) int {
	if len(args) < 1 {
		usage()
		return cliutil.ExitFailure
	}
	result, err := f.AnalyzeVault(context.Background(), args[0])
	if err != nil {
		return fail(jsonOut, "AnalysisError", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, result)
		return cliutil.ExitOK
	}
	cliutil.Printf(os.Stdout, cliutil.Info, "links: %d resolved, %d broken (of %d)", result.LinkStats.Resolved, result.LinkStats.Broken, result.LinkStats.Total)
	cliutil.Printf(os.Stdout, cliutil.Info, "graph: %d notes, %d edges, density %.4f", result.GraphStats.Notes, result.GraphStats.Edges, result.GraphStats.Density)
	cliutil.Printf(os.Stdout, cliutil.Info, "clusters: %d", len(result.Clusters))
	return cliutil.ExitOK
}

func cmdVaults(f *facade.Facade, jsonOut bool) int {
	vaults, err := f.ListVaults()
	if err != nil {
		return fail(jsonOut, "StoreError", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, vaults)
		return cliutil.ExitOK
	}
	for _, v := range vaults {
		fmt.Printf("%s\t%s\t%d notes\t%s\n", v.ID, v.Name, v.NoteCount, v.AbsolutePath)
	}
	return cliutil.ExitOK
}

func cmdStats(f *facade.Facade, vaultID string, jsonOut bool) int {
	if vaultID == "" {
		usage()
		return cliutil.ExitFailure
	}
	stats, err := f.GetVaultStats(vaultID)
	if err != nil {
		return fail(jsonOut, "VaultNotFound", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, stats)
		return cliutil.ExitOK
	}
	cliutil.Printf(os.Stdout, cliutil.Info, "%d notes, %d tags, %d broken links, %d orphaned notes, avg %.1f words/note",
		stats.NoteCount, stats.TagCount, stats.BrokenLinks, stats.OrphanedNotes, stats.AvgWordCount)
	return cliutil.ExitOK
}

func cmdNotes(f *facade.Facade, vaultID string, limit int, jsonOut bool) int {
	if vaultID == "" {
		usage()
		return cliutil.ExitFailure
	}
	notes, err := f.GetNotes(vaultID, limit, 0)
	if err != nil {
		return fail(jsonOut, "VaultNotFound", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, notes)
		return cliutil.ExitOK
	}
	for _, n := range notes {
		fmt.Printf("%s\t%s\t%d words\n", n.ID, n.RelativePath, n.WordCount)
	}
	return cliutil.ExitOK
}

func cmdHubs(f *facade.Facade, vaultID string, minLinks int, jsonOut bool) int {
	if vaultID == "" {
		usage()
		return cliutil.ExitFailure
	}
	notes, err := f.GetHubNotes(vaultID, minLinks)
	if err != nil {
		return fail(jsonOut, "VaultNotFound", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, notes)
		return cliutil.ExitOK
	}
	for _, n := range notes {
		fmt.Printf("%s\t%s\n", n.ID, n.RelativePath)
	}
	return cliutil.ExitOK
}

func cmdOrphans(f *facade.Facade, vaultID string, limit int, jsonOut bool) int {
	if vaultID == "" {
		usage()
		return cliutil.ExitFailure
	}
	notes, err := f.GetOrphanNotes(vaultID, limit)
	if err != nil {
		return fail(jsonOut, "VaultNotFound", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, notes)
		return cliutil.ExitOK
	}
	for _, n := range notes {
		fmt.Printf("%s\t%s\n", n.ID, n.RelativePath)
	}
	return cliutil.ExitOK
}

func cmdBrokenLinks(f *facade.Facade, vaultID string, limit int, jsonOut bool) int {
	if vaultID == "" {
		usage()
		return cliutil.ExitFailure
	}
	links, err := f.GetBrokenLinks(vaultID, limit)
	if err != nil {
		return fail(jsonOut, "VaultNotFound", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, links)
		return cliutil.ExitOK
	}
	for _, l := range links {
		fmt.Printf("%s -> %s (%d)\n", l.SourceNoteID, l.TargetPath, l.Occurrences)
	}
	return cliutil.ExitOK
}

func cmdClusters(f *facade.Facade, vaultID string, minSize int, jsonOut bool) int {
	if vaultID == "" {
		usage()
		return cliutil.ExitFailure
	}
	clusters, err := f.FindClusters(vaultID, minSize)
	if err != nil {
		return fail(jsonOut, "AnalysisError", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, clusters)
		return cliutil.ExitOK
	}
	for i, c := range clusters {
		fmt.Printf("cluster %d: %d notes\n", i, len(c))
	}
	return cliutil.ExitOK
}

func cmdEgo(f *facade.Facade, vaultID string, args []string, radius int, jsonOut bool) int {
	if vaultID == "" || len(args) < 1 {
		usage()
		return cliutil.ExitFailure
	}
	ego, err := f.GetEgoGraph(vaultID, args[0], radius)
	if err != nil {
		return fail(jsonOut, "NoteNotFound", err)
	}
	if jsonOut {
		cliutil.PrintJSON(os.Stdout, ego)
		return cliutil.ExitOK
	}
	fmt.Printf("center: %s\nnotes: %d\nedges: %d\n", ego.Center, len(ego.Notes), len(ego.Edges))
	return cliutil.ExitOK
}
