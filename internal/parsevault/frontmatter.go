// Package parsevault turns the bytes of a single Markdown note into a
// structured ParsedNote. It is pure: given the same bytes and path it always
// returns the same result, and it never touches the filesystem.
package parsevault

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatterRegex matches a leading YAML block delimited by --- lines.
var frontmatterRegex = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?\n)?---[ \t]*\r?\n`)

// extractFrontmatter splits content into its frontmatter map and the
// remaining body. Malformed YAML is never fatal: it yields an empty map and
// a warning, and the body is still returned in full.
func extractFrontmatter(content string) (map[string]any, string, *Warning) {
	matches := frontmatterRegex.FindStringSubmatch(content)
	if matches == nil {
		return map[string]any{}, content, nil
	}

	yamlBlock := matches[1]
	body := strings.TrimPrefix(content, matches[0])

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &raw); err != nil {
		return map[string]any{}, body, &Warning{Message: "malformed frontmatter, ignoring: " + err.Error()}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, body, nil
}

// frontmatterString reads a string-valued field, returning ok=false if the
// field is absent or not a string.
func frontmatterString(fm map[string]any, key string) (string, bool) {
	v, ok := fm[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// frontmatterStringList reads a field that may be declared as a YAML list or
// as a single comma-separated string, normalizing both to a string slice.
func frontmatterStringList(fm map[string]any, key string) []string {
	v, ok := fm[key]
	if !ok {
		return nil
	}

	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case []string:
		return val
	case string:
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}
