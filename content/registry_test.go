package content

import (
	"context"
	"errors"
	"testing"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr func(error) bool
	}{
		{
			name:    "empty slug",
			entry:   structuredEntry("", Frontmatter{Title: "x"}, ""),
			wantErr: errs.IsInvalidSlugError,
		},
		{
			name:    "upper case slug",
			entry:   structuredEntry("Hello-World", Frontmatter{Title: "x"}, ""),
			wantErr: errs.IsInvalidSlugError,
		},
		{
			name:    "path separator",
			entry:   structuredEntry("a/b", Frontmatter{Title: "x"}, ""),
			wantErr: errs.IsInvalidSlugError,
		},
		{
			name:    "nil loader",
			entry:   Entry{Slug: "no-loader"},
			wantErr: func(err error) bool { return errors.Is(err, ErrMissingLoader) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.entry)
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
		})
	}
}

func TestRegistry_RejectsDuplicateSlug(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(structuredEntry("launch", Frontmatter{Title: "First"}, "")))

	err := registry.Register(structuredEntry("launch", Frontmatter{Title: "Second"}, ""))

	assert.ErrorIs(t, err, ErrDuplicateSlug)
	assert.Equal(t, []string{"launch"}, registry.Slugs())
}

func TestRegistry_Verify(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(
		structuredEntry("fine", Frontmatter{Title: "Fine"}, "<p>ok</p>"),
		Entry{Slug: "no-render", Load: Static(StructuredModule{Frontmatter: Frontmatter{Title: "Nope"}})},
		Entry{Slug: "nil-module", Load: func(context.Context) (*StructuredModule, error) { return nil, nil }},
	))

	err := registry.Verify(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidModule)
	assert.Contains(t, err.Error(), `"no-render"`)
	assert.Contains(t, err.Error(), `"nil-module"`)
	assert.NotContains(t, err.Error(), `"fine"`)
}

func TestRegistry_GetRendersModule(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(structuredEntry("hello", Frontmatter{Title: "Hello"}, "<h1>Hi</h1>")))

	post, err := registry.Get(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", post.HTML)
	assert.Equal(t, SourceStructured, post.Source)

	_, err = registry.Get(context.Background(), "unknown")
	assert.True(t, errs.IsNotFound(err))
}

func TestValidSlug(t *testing.T) {
	assert.True(t, ValidSlug("shipping-a-design-system-in-2025"))
	assert.True(t, ValidSlug("a"))
	assert.False(t, ValidSlug("-leading"))
	assert.False(t, ValidSlug("double--hyphen"))
	assert.False(t, ValidSlug(".."))
	assert.False(t, ValidSlug("with space"))
}
