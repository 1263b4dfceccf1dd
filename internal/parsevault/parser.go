package parsevault

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
)

// ParsedNote is the pure output of Parse: everything that can be learned
// from a note's bytes and its path within the vault, before any link has
// been resolved against other notes.
type ParsedNote struct {
	Title        string
	Frontmatter  map[string]any
	Aliases      []string
	Tags         []string
	WikiLinks    []WikiLink
	WordCount    int
	CharCount    int
	ContentHash  string
}

// Warning describes a non-fatal problem encountered while parsing a note.
// The parser never fails outright; malformed input degrades to a
// best-effort ParsedNote plus warnings for the caller to record.
type Warning struct {
	Message string
}

func (w Warning) Error() string { return w.Message }

// headingRegex matches the first top-level ATX heading ("# ...") in a body.
var headingRegex = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*$`)

// Parse converts the raw bytes of one Markdown file into a ParsedNote. relativePath
// is used only for filename-derived title fallback; Parse performs no I/O.
func Parse(content []byte, relativePath string) (*ParsedNote, []Warning) {
	var warnings []Warning

	raw := string(content)
	frontmatter, body, warn := extractFrontmatter(raw)
	if warn != nil {
		warnings = append(warnings, *warn)
	}

	wikilinks := extractWikiLinks(body)

	tags := mergeTags(frontmatter, body)
	aliases := frontmatterStringList(frontmatter, "aliases")

	title := resolveTitle(frontmatter, body, relativePath)

	countedBody := stripTitleHeading(frontmatter, body)
	words := len(strings.Fields(countedBody))
	chars := len(countedBody)

	sum := sha256.Sum256(content)

	return &ParsedNote{
		Title:       title,
		Frontmatter: frontmatter,
		Aliases:     aliases,
		Tags:        tags,
		WikiLinks:   wikilinks,
		WordCount:   words,
		CharCount:   chars,
		ContentHash: hex.EncodeToString(sum[:]),
	}, warnings
}

// mergeTags combines body #tag occurrences with frontmatter tags,
// deduplicating while preserving first-occurrence order. Body tags are
// scanned first, then the frontmatter-declared set is merged in.
func mergeTags(frontmatter map[string]any, body string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(tag string) {
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		out = append(out, tag)
	}

	for _, t := range extractBodyTags(body) {
		add(t)
	}
	for _, t := range frontmatterStringList(frontmatter, "tags") {
		add(strings.TrimPrefix(t, "#"))
	}

	return out
}

// resolveTitle applies the ordered title resolution: frontmatter title,
// else first top-level heading, else the filename without extension.
func resolveTitle(frontmatter map[string]any, body, relativePath string) string {
	if title, ok := frontmatterString(frontmatter, "title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}

	if m := headingRegex.FindStringSubmatch(body); m != nil {
		if h := strings.TrimSpace(m[1]); h != "" {
			return h
		}
	}

	base := filepath.Base(relativePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// stripTitleHeading removes the heading line resolveTitle would fall back to
// from body, so that line's "#" marker and title words aren't double-counted
// as body content. Only applies when the heading is actually load-bearing for
// the title (no frontmatter title present); a heading elsewhere in the body,
// or one the frontmatter title already supersedes, counts normally.
func stripTitleHeading(frontmatter map[string]any, body string) string {
	if title, ok := frontmatterString(frontmatter, "title"); ok && strings.TrimSpace(title) != "" {
		return body
	}

	loc := headingRegex.FindStringIndex(body)
	if loc == nil {
		return body
	}
	return body[:loc[0]] + body[loc[1]:]
}
