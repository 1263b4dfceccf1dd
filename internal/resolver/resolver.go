// Package resolver matches the textual target of a wikilink to a concrete
// note, using a layered strategy: exact path, relative path, filename,
// title/alias, in that order.
package resolver

import (
	"path"
	"strings"
)

// NoteRef is the minimal view of a note the resolver's cache needs.
// ResolveVault builds these from Store rows.
type NoteRef struct {
	ID           string
	RelativePath string // forward-slash, vault-relative, including ".md"
	Title        string
	Aliases      []string
}

// Cache is the lookup structure built once per resolve pass from a vault's
// current notes.
type Cache struct {
	byRelativePath map[string]string   // normalized path (with/without .md) -> note id
	byFilename     map[string][]string // lowercase filename w/o ext -> note ids
	byTitleOrAlias map[string][]string // lowercase title/alias -> note ids
	dirByID        map[string]string   // note id -> directory of its relative path
}

// NewCache builds the resolver's lookup maps from the given notes. Building
// the cache does not mutate the Store; it is pure in-memory indexing.
func NewCache(notes []NoteRef) *Cache {
	c := &Cache{
		byRelativePath: make(map[string]string),
		byFilename:     make(map[string][]string),
		byTitleOrAlias: make(map[string][]string),
		dirByID:        make(map[string]string),
	}

	for _, n := range notes {
		normalized := normalizePath(n.RelativePath)
		withoutExt := strings.TrimSuffix(normalized, ".md")

		c.byRelativePath[normalized] = n.ID
		c.byRelativePath[withoutExt] = n.ID
		c.dirByID[n.ID] = path.Dir(normalized)

		base := path.Base(withoutExt)
		c.byFilename[strings.ToLower(base)] = append(c.byFilename[strings.ToLower(base)], n.ID)

		if n.Title != "" {
			key := strings.ToLower(n.Title)
			c.byTitleOrAlias[key] = append(c.byTitleOrAlias[key], n.ID)
		}
		for _, alias := range n.Aliases {
			key := strings.ToLower(alias)
			c.byTitleOrAlias[key] = append(c.byTitleOrAlias[key], n.ID)
		}
	}

	return c
}

// normalizePath lowercases and forward-slashes a path for map lookups.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.ToLower(p)
}

// Resolve resolves a single wikilink target written in sourcePath to a note
// id, following the layered strategy step by step. ok is false when every
// step misses (the caller marks the link broken).
func (c *Cache) Resolve(target, sourcePath string) (id string, ok bool) {
	normTarget := normalizePath(target)
	withExt := normTarget
	if !strings.HasSuffix(withExt, ".md") {
		withExt += ".md"
	}
	withoutExt := strings.TrimSuffix(normTarget, ".md")

	// Step 2: exact relative-path match, either form.
	if id, ok := c.byRelativePath[normTarget]; ok {
		return id, true
	}
	if id, ok := c.byRelativePath[withExt]; ok {
		return id, true
	}
	if id, ok := c.byRelativePath[withoutExt]; ok {
		return id, true
	}

	// Step 3: resolve relative to the source note's directory.
	if sourcePath != "" {
		sourceDir := path.Dir(normalizePath(sourcePath))
		joined := path.Clean(path.Join(sourceDir, withoutExt))
		if id, ok := c.byRelativePath[joined]; ok {
			return id, true
		}
	}

	// Step 4: filename match, preferring same directory as source.
	base := path.Base(withoutExt)
	if ids, ok := c.byFilename[base]; ok {
		if id, ok := c.selectBest(ids, sourcePath); ok {
			return id, true
		}
	}

	// Step 5: title/alias match on the whole target.
	if ids, ok := c.byTitleOrAlias[strings.ToLower(strings.TrimSpace(target))]; ok {
		if id, ok := c.selectBest(ids, sourcePath); ok {
			return id, true
		}
	}

	return "", false
}

// selectBest applies the tiebreak rule shared by steps 4 and 5: prefer a
// candidate in the same directory as the source note, else the
// lexicographically first candidate id. Deterministic given the same inputs.
func (c *Cache) selectBest(ids []string, sourcePath string) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}
	if len(ids) == 1 {
		return ids[0], true
	}

	if sourcePath != "" {
		sourceDir := path.Dir(normalizePath(sourcePath))
		for _, id := range ids {
			if c.dirByID[id] == sourceDir {
				return id, true
			}
		}
	}

	best := ids[0]
	for _, id := range ids[1:] {
		if id < best {
			best = id
		}
	}
	return best, true
}
