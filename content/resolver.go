package content

import (
	"context"
	"errors"
	"sort"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Resolver merges the structured and document sources into one slug space.
// The structured source always wins a shared slug.
type Resolver struct {
	structured Source
	documents  Source
	logger     zerolog.Logger
}

func NewResolver(structured, documents Source) *Resolver {
	return &Resolver{
		structured: structured,
		documents:  documents,
		logger:     log.With().Str("service", "contentResolver").Logger(),
	}
}

// ResolvePost returns the post for slug. The document source is consulted only
// when the structured source misses or fails; a failure in either source is a
// miss, and a miss in both is NotFound.
func (r *Resolver) ResolvePost(ctx context.Context, slug string) (*ResolvedPost, error) {
	if !ValidSlug(slug) {
		return nil, errs.NewInvalidSlugError(slug)
	}

	post, err := r.structured.Get(ctx, slug)
	if err == nil {
		return post, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	r.logMiss(err, SourceStructured, slug)

	post, err = r.documents.Get(ctx, slug)
	if err == nil {
		return post, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	r.logMiss(err, SourceDocument, slug)

	return nil, errs.NewNotFound("post")
}

func (r *Resolver) logMiss(err error, source SourceKind, slug string) {
	if errs.IsNotFound(err) {
		return
	}
	r.logger.Warn().Err(err).Str("source", string(source)).Str("slug", slug).Msg("content source failed, treating as a miss")
}

// ListAllPosts enumerates both sources concurrently and returns one summary per
// slug, newest first. Entries without a title are left out and undated entries
// sort last.
func (r *Resolver) ListAllPosts(ctx context.Context) ([]PostSummary, error) {
	var structured, documents []PostSummary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		structured, err = r.enumerate(gctx, r.structured, SourceStructured)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = r.enumerate(gctx, r.documents, SourceDocument)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeSummaries(structured, documents), nil
}

// enumerate lists one source. Only cancellation is returned as an error; any
// other failure leaves that source empty.
func (r *Resolver) enumerate(ctx context.Context, source Source, kind SourceKind) ([]PostSummary, error) {
	summaries, err := source.List(ctx)
	if err == nil {
		return summaries, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	r.logger.Warn().Err(err).Str("source", string(kind)).Msg("content source listing failed, continuing without it")
	return nil, nil
}

func mergeSummaries(structured, documents []PostSummary) []PostSummary {
	bySlug := make(map[string]PostSummary, len(structured)+len(documents))
	for _, s := range structured {
		if _, seen := bySlug[s.Slug]; !seen {
			bySlug[s.Slug] = s
		}
	}
	for _, d := range documents {
		if _, seen := bySlug[d.Slug]; !seen {
			bySlug[d.Slug] = d
		}
	}

	merged := make([]PostSummary, 0, len(bySlug))
	for _, entry := range bySlug {
		if !entry.Frontmatter.Listable() {
			continue
		}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		ti, tj := merged[i].Frontmatter.PublishedAt(), merged[j].Frontmatter.PublishedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return merged[i].Slug < merged[j].Slug
	})
	return merged
}
