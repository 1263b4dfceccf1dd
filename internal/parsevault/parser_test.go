package parsevault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MinimalNote(t *testing.T) {
	note, warnings := Parse([]byte("# Alpha\nHello world.\n"), "Alpha.md")
	require.Empty(t, warnings)
	assert.Equal(t, "Alpha", note.Title)
	assert.Equal(t, 2, note.WordCount)
	assert.Empty(t, note.WikiLinks)
	assert.NotEmpty(t, note.ContentHash)
}

func TestParse_TitleFromFrontmatter(t *testing.T) {
	content := "---\ntitle: Custom Title\ntags: [a, b]\n---\n# Heading\nBody text here.\n"
	note, warnings := Parse([]byte(content), "notes/foo.md")
	require.Empty(t, warnings)
	assert.Equal(t, "Custom Title", note.Title)
	assert.Equal(t, []string{"a", "b"}, note.Tags)
}

func TestParse_TitleFallsBackToHeadingThenFilename(t *testing.T) {
	note, _ := Parse([]byte("# My Heading\nbody\n"), "ignored.md")
	assert.Equal(t, "My Heading", note.Title)

	note2, _ := Parse([]byte("just body text, no heading\n"), "My File.md")
	assert.Equal(t, "My File", note2.Title)
}

func TestParse_WikiLinks(t *testing.T) {
	note, _ := Parse([]byte("See [[B]] and [[C|Display Text]].\n"), "A.md")
	require.Len(t, note.WikiLinks, 2)
	assert.Equal(t, "B", note.WikiLinks[0].Target)
	assert.Equal(t, "", note.WikiLinks[0].Display)
	assert.Equal(t, "C", note.WikiLinks[1].Target)
	assert.Equal(t, "Display Text", note.WikiLinks[1].Display)
}

func TestParse_TagsFromBodyAndFrontmatter(t *testing.T) {
	content := "---\ntags: theory\n---\nThis note is about #research and #research again.\n"
	note, _ := Parse([]byte(content), "x.md")
	assert.Equal(t, []string{"research", "theory"}, note.Tags)
}

func TestParse_TagCharacterClass(t *testing.T) {
	note, _ := Parse([]byte("Tags: #foo-bar #foo_baz #foo/qux #not!valid\n"), "x.md")
	assert.Contains(t, note.Tags, "foo-bar")
	assert.Contains(t, note.Tags, "foo_baz")
	assert.Contains(t, note.Tags, "foo/qux")
	assert.NotContains(t, note.Tags, "not!valid")
}

func TestParse_AliasesFromFrontmatter(t *testing.T) {
	content := "---\naliases:\n  - Nickname\n  - Other Name\n---\nbody\n"
	note, _ := Parse([]byte(content), "x.md")
	assert.Equal(t, []string{"Nickname", "Other Name"}, note.Aliases)
}

func TestParse_MalformedFrontmatterIsNonFatal(t *testing.T) {
	content := "---\ntitle: [unterminated\n---\nbody text\n"
	note, warnings := Parse([]byte(content), "x.md")
	require.NotNil(t, note)
	assert.NotEmpty(t, warnings)
	assert.Empty(t, note.Frontmatter)
}

func TestParse_WordCharCountExcludeFrontmatter(t *testing.T) {
	content := "---\ntitle: T\ntags: [a]\n---\none two three\n"
	note, _ := Parse([]byte(content), "x.md")
	assert.Equal(t, 3, note.WordCount)
	assert.Equal(t, len("one two three\n"), note.CharCount)
}

func TestParse_ContentHashCoversOriginalBytes(t *testing.T) {
	a, _ := Parse([]byte("---\ntitle: T\n---\nbody\n"), "x.md")
	b, _ := Parse([]byte("---\ntitle: T\n---\nbody!\n"), "x.md")
	assert.NotEqual(t, a.ContentHash, b.ContentHash)
}
