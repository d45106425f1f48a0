package content

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// SourceKind names where a resolved post came from.
type SourceKind string

const (
	SourceStructured SourceKind = "structured"
	SourceDocument   SourceKind = "document"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// maxSlugLength bounds slugs accepted from URLs and file names.
const maxSlugLength = 200

// ValidSlug reports whether slug is a lower-case, hyphen separated URL segment.
func ValidSlug(slug string) bool {
	return len(slug) <= maxSlugLength && slugPattern.MatchString(slug)
}

// Frontmatter is the metadata every post carries regardless of its source.
type Frontmatter struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Date        string   `yaml:"date" json:"date,omitempty"`
	ReadingTime string   `yaml:"readingTime" json:"readingTime,omitempty"`
	Canonical   string   `yaml:"canonical" json:"canonical,omitempty"`
	Author      string   `yaml:"author" json:"author,omitempty"`
	AuthorURL   string   `yaml:"authorUrl" json:"authorUrl,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
}

// Listable reports whether the entry is complete enough to appear in listings.
func (f Frontmatter) Listable() bool {
	return strings.TrimSpace(f.Title) != ""
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// PublishedAt parses Date. A missing or unparseable date yields the zero time.
func (f Frontmatter) PublishedAt() time.Time {
	raw := strings.TrimSpace(f.Date)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PostSummary is a listing entry: metadata only, no body.
type PostSummary struct {
	Slug        string      `json:"slug"`
	Frontmatter Frontmatter `json:"frontmatter"`
	Source      SourceKind  `json:"-"`
}

// ResolvedPost is a single post ready for rendering.
type ResolvedPost struct {
	Slug        string      `json:"slug"`
	Source      SourceKind  `json:"source"`
	Frontmatter Frontmatter `json:"frontmatter"`
	HTML        string      `json:"html"`
}

// Source is one content store. Get returns an errs.ErrNotFound error when the
// slug is unknown and an errs.ErrSourceUnavailable error when it exists but
// could not be loaded.
type Source interface {
	List(ctx context.Context) ([]PostSummary, error)
	Get(ctx context.Context, slug string) (*ResolvedPost, error)
}
