package content

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Extensions are tried in this order; an .mdx file shadows a .md file with the
// same slug.
var documentExtensions = []string{".mdx", ".md"}

// DocumentStore is the document content source: markdown files in the top
// level of a file system, parsed on every request.
type DocumentStore struct {
	fsys   fs.FS
	name   string
	logger zerolog.Logger
}

// NewDocumentStore serves documents from fsys. name labels log lines and
// errors ("blog", "legal").
func NewDocumentStore(fsys fs.FS, name string) *DocumentStore {
	return &DocumentStore{
		fsys:   fsys,
		name:   name,
		logger: log.With().Str("source", string(SourceDocument)).Str("store", name).Logger(),
	}
}

// slugs maps each valid slug to the file that backs it.
func (s *DocumentStore) slugs() (map[string]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, err
	}

	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := path.Ext(name)
		if !isDocumentExtension(ext) {
			continue
		}
		slug := strings.TrimSuffix(name, ext)
		if !ValidSlug(slug) {
			s.logger.Debug().Str("file", name).Msg("ignoring document with an invalid slug")
			continue
		}
		if existing, ok := files[slug]; ok && extensionRank(path.Ext(existing)) <= extensionRank(ext) {
			continue
		}
		files[slug] = name
	}
	return files, nil
}

func isDocumentExtension(ext string) bool {
	return extensionRank(ext) >= 0
}

func extensionRank(ext string) int {
	for i, candidate := range documentExtensions {
		if ext == candidate {
			return i
		}
	}
	return -1
}

// List parses the front matter of every document. Unparseable documents are
// logged and left out.
func (s *DocumentStore) List(ctx context.Context) ([]PostSummary, error) {
	files, err := s.slugs()
	if err != nil {
		return nil, errs.NewSourceUnavailableError(s.name, "*", err)
	}

	slugs := make([]string, 0, len(files))
	for slug := range files {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	summaries := make([]PostSummary, 0, len(slugs))
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fm, _, err := s.read(files[slug])
		if err != nil {
			s.logger.Warn().Err(err).Str("slug", slug).Msg("skipping unreadable document")
			continue
		}
		summaries = append(summaries, PostSummary{Slug: slug, Frontmatter: fm, Source: SourceDocument})
	}
	return summaries, nil
}

// Get parses and renders the document for slug.
func (s *DocumentStore) Get(ctx context.Context, slug string) (*ResolvedPost, error) {
	if !ValidSlug(slug) {
		return nil, errs.NewInvalidSlugError(slug)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ext := range documentExtensions {
		name := slug + ext
		fm, body, err := s.read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errs.NewSourceUnavailableError(s.name, slug, err)
		}

		html, err := RenderMarkdown(body)
		if err != nil {
			return nil, errs.NewSourceUnavailableError(s.name, slug, err)
		}
		return &ResolvedPost{
			Slug:        slug,
			Source:      SourceDocument,
			Frontmatter: fm,
			HTML:        html,
		}, nil
	}

	return nil, errs.NewNotFound(s.name + " document")
}

func (s *DocumentStore) read(name string) (Frontmatter, []byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return Frontmatter{}, nil, err
	}

	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return Frontmatter{}, nil, err
	}
	if path.Ext(name) == ".mdx" {
		if body, err = stripMDXStatements(body); err != nil {
			return Frontmatter{}, nil, err
		}
	}
	return fm, body, nil
}
