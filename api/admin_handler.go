package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/brightline-studio/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultAdminPageSize = 50
	maxAdminPageSize     = 500
)

// SubmissionLister is satisfied by *database.ContactSubmissionRepo.
type SubmissionLister interface {
	List(ctx context.Context, opts models.ContactSubmissionListOptions) ([]*models.ContactSubmission, error)
}

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	lister    SubmissionLister
}

func newAdminHandler(lister SubmissionLister) *adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return &adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		lister:    lister,
	}
}

// ContactSubmissionPage is one page of the audit export
type ContactSubmissionPage struct {
	Submissions []*models.ContactSubmission `json:"submissions"`
	Limit       int                         `json:"limit"`
	Offset      int                         `json:"offset"`
}

// listContactSubmissions exports stored contact submissions, newest first
// @Summary List contact submissions
// @Description Read-only audit export of stored submissions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-500, default 50)"
// @Param offset query int false "Rows to skip"
// @Param since query string false "Only submissions created at or after this RFC 3339 time or date"
// @Success 200 {object} ContactSubmissionPage
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid query parameter"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /api/admin/contact-submissions [get]
func (h *adminHandler) listContactSubmissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseListOptions(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submissions, err := h.lister.List(r.Context(), opts)
		if err != nil {
			h.responder.WriteError(w, errs.NewPersistenceError("list", "contact submissions", err))
			return
		}

		// Return [] not null for empty lists
		if submissions == nil {
			submissions = []*models.ContactSubmission{}
		}

		h.logger.Info().
			Str("admin", ctxGetAdminSubject(r.Context())).
			Int("count", len(submissions)).
			Msg("contact submissions exported")

		h.responder.WriteJSON(w, ContactSubmissionPage{Submissions: submissions, Limit: opts.Limit, Offset: opts.Offset})
	}
}

func parseListOptions(r *http.Request) (models.ContactSubmissionListOptions, error) {
	query := r.URL.Query()
	opts := models.ContactSubmissionListOptions{Limit: defaultAdminPageSize}
	problems := map[string][]string{}

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			problems["limit"] = append(problems["limit"], "Expected an integer")
		case n < 1 || n > maxAdminPageSize:
			problems["limit"] = append(problems["limit"], "Must be between 1 and "+strconv.Itoa(maxAdminPageSize))
		default:
			opts.Limit = n
		}
	}

	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			problems["offset"] = append(problems["offset"], "Expected a non-negative integer")
		} else {
			opts.Offset = n
		}
	}

	if raw := strings.TrimSpace(query.Get("since")); raw != "" {
		since, err := parseSince(raw)
		if err != nil {
			problems["since"] = append(problems["since"], "Expected an RFC 3339 time or a YYYY-MM-DD date")
		} else {
			opts.Since = since
		}
	}

	if len(problems) > 0 {
		return models.ContactSubmissionListOptions{}, errs.NewValidationError(problems)
	}
	return opts, nil
}

func parseSince(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
