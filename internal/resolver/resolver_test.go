package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func notes() []NoteRef {
	return []NoteRef{
		{ID: "1", RelativePath: "Projects/Alpha.md", Title: "Alpha", Aliases: []string{"Alpha Project"}},
		{ID: "2", RelativePath: "Projects/Beta.md", Title: "Beta"},
		{ID: "3", RelativePath: "Archive/Alpha.md", Title: "Old Alpha"},
		{ID: "4", RelativePath: "notes/Gamma.md", Title: "Gamma"},
	}
}

func TestResolveExactPath(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("Projects/Beta.md", "Projects/Alpha.md")
	assert.True(t, ok)
	assert.Equal(t, "2", id)
}

func TestResolveExactPathWithoutExtension(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("Projects/Beta", "Projects/Alpha.md")
	assert.True(t, ok)
	assert.Equal(t, "2", id)
}

func TestResolveRelativeToSourceDir(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("Beta", "Projects/Alpha.md")
	assert.True(t, ok)
	assert.Equal(t, "2", id)
}

func TestResolveFilenamePrefersSameDirectory(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("Alpha", "Projects/Beta.md")
	assert.True(t, ok)
	assert.Equal(t, "1", id, "ambiguous filename should prefer the note in the source's directory")
}

func TestResolveFilenameFallsBackToLexicographicFirst(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("Alpha", "notes/Gamma.md")
	assert.True(t, ok)
	assert.Equal(t, "1", id, "with no same-directory candidate, the lexicographically first id wins")
}

func TestResolveTitleAndAlias(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("Alpha Project", "notes/Gamma.md")
	assert.True(t, ok)
	assert.Equal(t, "1", id)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	c := NewCache(notes())

	id, ok := c.Resolve("gamma", "Projects/Alpha.md")
	assert.True(t, ok)
	assert.Equal(t, "4", id)
}

func TestResolveMissingTargetIsBroken(t *testing.T) {
	c := NewCache(notes())

	_, ok := c.Resolve("Does Not Exist", "Projects/Alpha.md")
	assert.False(t, ok)
}

func TestResolveIsDeterministicAcrossCalls(t *testing.T) {
	c := NewCache(notes())

	first, _ := c.Resolve("Alpha", "notes/Gamma.md")
	second, _ := c.Resolve("Alpha", "notes/Gamma.md")
	assert.Equal(t, first, second)
}
