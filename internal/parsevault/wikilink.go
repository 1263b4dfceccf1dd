package parsevault

import (
	"regexp"
	"strings"
)

// WikiLink is a single [[Target]] or [[Target|Display]] reference found in a
// note's body, in source order.
type WikiLink struct {
	Target  string
	Display string
}

// wikiLinkRegex matches [[Target]] or [[Target|Display]]. Target runs up to
// the first ']' or '|'; Display runs up to the first ']'.
var wikiLinkRegex = regexp.MustCompile(`\[\[([^\]\|]*)(?:\|([^\]]*))?\]\]`)

// extractWikiLinks finds all wikilinks in body content, preserving source
// order. It does not resolve targets to notes.
func extractWikiLinks(body string) []WikiLink {
	matches := wikiLinkRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}

	links := make([]WikiLink, 0, len(matches))
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if target == "" {
			continue
		}
		link := WikiLink{Target: target}
		if len(m) > 2 && m[2] != "" {
			link.Display = strings.TrimSpace(m[2])
		}
		links = append(links, link)
	}
	return links
}

// tagRegex matches #tag occurrences in body content: letters, digits,
// underscore, slash, hyphen.
var tagRegex = regexp.MustCompile(`#([A-Za-z0-9_/-]+)`)

// extractBodyTags finds all #tag occurrences in body content, in source
// order, without deduplicating (the caller deduplicates across body and
// frontmatter tags together).
func extractBodyTags(body string) []string {
	matches := tagRegex.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}
