package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrDuplicateSlug = errors.New("slug already registered")
	ErrMissingLoader = errors.New("entry has no loader")
	ErrInvalidModule = errors.New("loaded module is invalid")
)

// RenderFunc writes a post body as HTML.
type RenderFunc func(ctx context.Context, w io.Writer) error

// StructuredModule is a compiled post: its metadata plus the code that renders it.
type StructuredModule struct {
	Frontmatter Frontmatter
	Render      RenderFunc
}

func (m *StructuredModule) validate() error {
	if m == nil {
		return fmt.Errorf("%w: loader returned nil", ErrInvalidModule)
	}
	if m.Render == nil {
		return fmt.Errorf("%w: no render function", ErrInvalidModule)
	}
	return nil
}

// Loader produces a module on demand.
type Loader func(ctx context.Context) (*StructuredModule, error)

// Entry pairs a slug with the loader for its module.
type Entry struct {
	Slug string
	Load Loader
}

// Static wraps an already built module in a Loader.
func Static(module StructuredModule) Loader {
	return func(context.Context) (*StructuredModule, error) {
		m := module
		return &m, nil
	}
}

// Registry is the structured content source. It is built once at startup and
// handed to the resolver; there is no package-level instance.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
	logger  zerolog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		loaders: make(map[string]Loader),
		logger:  log.With().Str("source", string(SourceStructured)).Logger(),
	}
}

// Register adds entries. It fails on the first entry with an invalid or
// duplicate slug or a nil loader; earlier entries in the call stay registered.
func (r *Registry) Register(entries ...Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if !ValidSlug(e.Slug) {
			return errs.NewInvalidSlugError(e.Slug)
		}
		if e.Load == nil {
			return fmt.Errorf("register %q: %w", e.Slug, ErrMissingLoader)
		}
		if _, exists := r.loaders[e.Slug]; exists {
			return fmt.Errorf("register %q: %w", e.Slug, ErrDuplicateSlug)
		}
		r.loaders[e.Slug] = e.Load
	}
	return nil
}

// Slugs returns every registered slug in lexical order.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := make([]string, 0, len(r.loaders))
	for slug := range r.loaders {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

func (r *Registry) load(ctx context.Context, slug string) (*StructuredModule, error) {
	r.mu.RLock()
	loader, ok := r.loaders[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("structured post")
	}

	module, err := loader(ctx)
	if err != nil {
		return nil, errs.NewSourceUnavailableError(string(SourceStructured), slug, err)
	}
	if err := module.validate(); err != nil {
		return nil, errs.NewSourceUnavailableError(string(SourceStructured), slug, err)
	}
	return module, nil
}

// Verify loads every registered module once and returns the combined errors of
// those that fail to load or do not validate. It is meant to run at startup.
func (r *Registry) Verify(ctx context.Context) error {
	var problems []error
	for _, slug := range r.Slugs() {
		if _, err := r.load(ctx, slug); err != nil {
			var apiErr *errs.ApiErr
			if errors.As(err, &apiErr) && apiErr.Cause != nil {
				err = apiErr.Cause
			}
			problems = append(problems, fmt.Errorf("structured post %q: %w", slug, err))
		}
	}
	return errors.Join(problems...)
}

// List loads every registered module for its metadata. Modules that fail to
// load are logged and left out.
func (r *Registry) List(ctx context.Context) ([]PostSummary, error) {
	slugs := r.Slugs()
	summaries := make([]PostSummary, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		module, err := r.load(ctx, slug)
		if err != nil {
			r.logger.Warn().Err(err).Str("slug", slug).Msg("skipping structured post that failed to load")
			continue
		}
		summaries = append(summaries, PostSummary{Slug: slug, Frontmatter: module.Frontmatter, Source: SourceStructured})
	}
	return summaries, nil
}

// Get loads and renders the module registered under slug.
func (r *Registry) Get(ctx context.Context, slug string) (*ResolvedPost, error) {
	module, err := r.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := module.Render(ctx, &body); err != nil {
		return nil, errs.NewSourceUnavailableError(string(SourceStructured), slug, err)
	}

	return &ResolvedPost{
		Slug:        slug,
		Source:      SourceStructured,
		Frontmatter: module.Frontmatter,
		HTML:        body.String(),
	}, nil
}
