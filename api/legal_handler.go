package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/brightline-studio/site-backend/content"
	"github.com/brightline-studio/site-backend/errs"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// allowedLegalTypes is the allowlist of legal document type names.
var allowedLegalTypes = map[string]bool{
	"privacy": true,
	"terms":   true,
}

// DocumentGetter is satisfied by *content.DocumentStore.
type DocumentGetter interface {
	Get(ctx context.Context, slug string) (*content.ResolvedPost, error)
}

type legalHandler struct {
	responder Responder
	logger    zerolog.Logger
	documents DocumentGetter
}

func newLegalHandler(documents DocumentGetter) legalHandler {
	logger := log.With().Str("handlerName", "legalHandler").Logger()

	return legalHandler{
		responder: NewResponder(logger),
		logger:    logger,
		documents: documents,
	}
}

// LegalDocument is a rendered legal page
type LegalDocument struct {
	Type        string              `json:"type"`
	Frontmatter content.Frontmatter `json:"frontmatter"`
	HTML        string              `json:"html"`
}

// getLegalDocument renders the privacy policy or the terms of use
// @Summary Get legal document
// @Description Renders a legal markdown document from the legal content directory
// @Tags Legal
// @Produce json
// @Param type path string true "Document type" Enums(privacy, terms)
// @Success 200 {object} LegalDocument
// @Failure 400 {object} ErrorResponse "Bad Request - Path traversal attempt"
// @Failure 404 {object} ErrorResponse "Not Found - Unknown type or missing file"
// @Router /api/legal/{type} [get]
func (h legalHandler) getLegalDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docType := chi.URLParam(r, "type")

		// Reject traversal characters before the allowlist check
		if strings.Contains(docType, "/") || strings.Contains(docType, "\\") || strings.Contains(docType, "..") {
			h.logger.Warn().Str("type", docType).Msg("rejected legal document path")
			h.responder.WriteError(w, errs.NewBadRequestError("invalid document type"))
			return
		}

		if !allowedLegalTypes[docType] {
			h.responder.WriteError(w, errs.NewNotFound("legal document"))
			return
		}

		doc, err := h.documents.Get(r.Context(), docType)
		if err != nil {
			if errs.IsSourceUnavailableError(err) {
				h.logger.Error().Err(err).Str("type", docType).Msg("legal document unreadable")
				err = errs.NewNotFound("legal document")
			}
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, LegalDocument{Type: docType, Frontmatter: doc.Frontmatter, HTML: doc.HTML})
	}
}
