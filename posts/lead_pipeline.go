package posts

import (
	"context"

	"github.com/brightline-studio/site-backend/content"
)

type metric struct {
	Label string
	Value string
}

type caseStudy struct {
	Lede         string
	Problem      string
	Deliverables []string
	Metrics      []metric
}

func loadLeadPipelineCaseStudy(context.Context) (*content.StructuredModule, error) {
	study := caseStudy{
		Lede:         "A regional logistics firm was losing inbound leads between a web form, a shared inbox and a spreadsheet.",
		Problem:      "Submissions arrived as unstructured email. Nobody owned triage, duplicates from impatient visitors " +
			"were common, and sales had no idea which campaign produced a lead.",
		Deliverables: []string{
			"A validated contact endpoint that reports every invalid field in one response",
			"Per-visitor throttling keyed on email and IP address",
			"Campaign attribution stored alongside every submission",
			"An audit export for the sales team, read only",
		},
		Metrics: []metric{
			{Label: "Median response time to a new lead", Value: "3.1 hours (from 2 days)"},
			{Label: "Duplicate submissions", Value: "down 87%"},
			{Label: "Leads with campaign attribution", Value: "94%"},
		},
	}

	return &content.StructuredModule{
		Frontmatter: content.Frontmatter{
			Title:       "Rebuilding a lead pipeline without a CRM migration",
			Description: "How a small intake service replaced a shared inbox and cut lead response time from days to hours.",
			Date:        "2025-05-20",
			ReadingTime: "6 min read",
			Author:      "Brightline Studio",
			Tags:        []string{"case-study", "backend", "lead-generation"},
		},
		Render: render("case-study", study),
	}, nil
}
