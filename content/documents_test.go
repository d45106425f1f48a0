package content

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	t.Run("full header", func(t *testing.T) {
		fm, body, err := splitFrontmatter([]byte("---\ntitle: \"Post\"\ndate: \"2025-03-04\"\ntags:\n  - go\n  - web\nreadingTime: \"4 min\"\n---\nBody text\n"))
		require.NoError(t, err)
		assert.Equal(t, "Post", fm.Title)
		assert.Equal(t, "2025-03-04", fm.Date)
		assert.Equal(t, []string{"go", "web"}, fm.Tags)
		assert.Equal(t, "4 min", fm.ReadingTime)
		assert.Equal(t, "Body text\n", string(body))
	})

	t.Run("crlf line endings", func(t *testing.T) {
		fm, body, err := splitFrontmatter([]byte("---\r\ntitle: \"Windows\"\r\n---\r\nBody\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Windows", fm.Title)
		assert.Equal(t, "Body\r\n", string(body))
	})

	t.Run("no header", func(t *testing.T) {
		fm, body, err := splitFrontmatter([]byte("# Heading\n"))
		require.NoError(t, err)
		assert.Empty(t, fm.Title)
		assert.Equal(t, "# Heading\n", string(body))
	})

	t.Run("horizontal rule is not a header", func(t *testing.T) {
		_, body, err := splitFrontmatter([]byte("----\ntext\n"))
		require.NoError(t, err)
		assert.Equal(t, "----\ntext\n", string(body))
	})

	t.Run("unterminated header", func(t *testing.T) {
		_, _, err := splitFrontmatter([]byte("---\ntitle: \"x\"\n"))
		assert.ErrorIs(t, err, ErrUnterminatedFrontmatter)
	})
}

func TestDocumentStore_Get(t *testing.T) {
	files := fstest.MapFS{
		"intro.md":  {Data: []byte("---\ntitle: \"Intro\"\n---\n| a | b |\n|---|---|\n| 1 | 2 |\n")},
		"mixed.mdx": {Data: []byte("---\ntitle: \"From MDX\"\n---\nimport Chart from '../components/chart'\n\nSome ~~old~~ text\n\n```js\nimport x from 'y'\n```\n")},
		"mixed.md":  {Data: []byte("---\ntitle: \"From MD\"\n---\nshadowed\n")},
	}
	store := NewDocumentStore(files, "blog")
	ctx := context.Background()

	post, err := store.Get(ctx, "intro")
	require.NoError(t, err)
	assert.Contains(t, post.HTML, "<table>")

	post, err = store.Get(ctx, "mixed")
	require.NoError(t, err)
	assert.Equal(t, "From MDX", post.Frontmatter.Title)
	assert.NotContains(t, post.HTML, "Chart")
	assert.Contains(t, post.HTML, "<del>old</del>")
	assert.Contains(t, post.HTML, "import x from")

	_, err = store.Get(ctx, "absent")
	assert.True(t, errs.IsNotFound(err))
}

func TestDocumentStore_List(t *testing.T) {
	files := fstest.MapFS{
		"b.md":           {Data: []byte("---\ntitle: \"B\"\n---\n")},
		"a.mdx":          {Data: []byte("---\ntitle: \"A\"\n---\n")},
		"a.md":           {Data: []byte("---\ntitle: \"A old\"\n---\n")},
		"Not_A_Slug.md":  {Data: []byte("---\ntitle: \"skip\"\n---\n")},
		"notes.txt":      {Data: []byte("ignored")},
		"nested/deep.md": {Data: []byte("---\ntitle: \"nested\"\n---\n")},
	}
	store := NewDocumentStore(files, "blog")

	summaries, err := store.List(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, slugsOf(summaries))
	assert.Equal(t, "A", summaries[0].Frontmatter.Title)
	assert.Equal(t, SourceDocument, summaries[0].Source)
}

func TestDocumentStore_ListEmptyDirectory(t *testing.T) {
	store := NewDocumentStore(fstest.MapFS{}, "blog")

	summaries, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, summaries)
}

type erroringFS struct{}

func (erroringFS) Open(string) (fs.File, error) { return nil, errors.New("disk unavailable") }

func TestDocumentStore_UnreadableDirectory(t *testing.T) {
	store := NewDocumentStore(erroringFS{}, "blog")

	_, err := store.List(context.Background())
	assert.True(t, errs.IsSourceUnavailableError(err))

	_, err = store.Get(context.Background(), "anything")
	assert.True(t, errs.IsSourceUnavailableError(err))
}
