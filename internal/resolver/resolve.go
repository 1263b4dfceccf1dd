package resolver

import "github.com/arkanvault/vaultgraph/internal/store"

// Result summarizes one resolve pass over a vault.
type Result struct {
	Resolved int
	Broken   int
	Total    int
}

// ResolveVault builds a Cache from every note currently in vaultID, then
// applies it to every unresolved link, persisting resolutions in a single
// transaction. A link whose target remains unmatched — including one whose
// previously-resolved target note was since deleted — is (re)marked broken.
func ResolveVault(s *store.Store, vaultID string) (Result, error) {
	notes, err := s.GetNotes(vaultID, 0, 0)
	if err != nil {
		return Result{}, err
	}

	refs := make([]NoteRef, 0, len(notes))
	for _, n := range notes {
		refs = append(refs, NoteRef{
			ID:           n.ID,
			RelativePath: n.RelativePath,
			Title:        n.Title,
			Aliases:      n.Aliases,
		})
	}
	cache := NewCache(refs)

	links, err := s.UnresolvedLinks(vaultID)
	if err != nil {
		return Result{}, err
	}

	sourcePaths := make(map[string]string, len(refs))
	for _, n := range notes {
		sourcePaths[n.ID] = n.RelativePath
	}

	tx, err := s.Begin()
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()

	var res Result
	res.Total = len(links)
	for _, link := range links {
		sourcePath := sourcePaths[link.SourceNoteID]
		targetID, ok := cache.Resolve(link.TargetPath, sourcePath)
		if !ok {
			if err := tx.MarkLinkBroken(link.ID); err != nil {
				return Result{}, err
			}
			res.Broken++
			continue
		}
		if err := tx.SetLinkTarget(link.ID, targetID); err != nil {
			return Result{}, err
		}
		res.Resolved++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}
