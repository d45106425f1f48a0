package posts

import (
	"context"

	"github.com/brightline-studio/site-backend/content"
)

type section struct {
	Anchor     string
	Heading    string
	Paragraphs []string
}

type guide struct {
	Lede     string
	Sections []section
}

func loadContentGuide(context.Context) (*content.StructuredModule, error) {
	g := guide{
		Lede:     "Most marketing sites need two kinds of pages: a handful of carefully designed stories and a steady stream of plain articles.",
		Sections: []section{
			{
				Anchor:     "compiled-posts",
				Heading:    "Compiled posts",
				Paragraphs: []string{
					"Pages with custom layouts, charts or interactive pieces are built as code. They ship with the release and cannot break at request time because of a typo in a file.",
				},
			},
			{
				Anchor:     "markdown-posts",
				Heading:    "Markdown posts",
				Paragraphs: []string{
					"Everything else lives as markdown with a small front matter header. Writers add a file, and it shows up in the listing on the next request.",
					"When both exist for the same address, the compiled version is served. That lets a popular article graduate to a richer layout without changing its URL.",
				},
			},
		},
	}

	return &content.StructuredModule{
		Frontmatter: content.Frontmatter{
			Title:       "Choosing between a CMS and markdown for a studio site",
			Description: "Why we serve hand-built stories and markdown articles from one slug space.",
			Date:        "2025-02-11",
			ReadingTime: "4 min read",
			Author:      "Brightline Studio",
			Tags:        []string{"content", "architecture"},
		},
		Render: render("guide", g),
	}, nil
}
