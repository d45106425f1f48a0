package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/brightline-studio/site-backend/services"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxContactBodyBytes = 64 * 1024

	// honeypotField is rendered hidden by the landing page. People leave it empty.
	honeypotField = "website"
)

// ContactSubmitter is satisfied by *services.ContactIntake.
type ContactSubmitter interface {
	SubmitContact(ctx context.Context, payload map[string]any, meta services.RequestMeta) (services.SubmissionResult, error)
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	intake    ContactSubmitter
}

func newContactHandler(intake ContactSubmitter) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		intake:    intake,
	}
}

// submitContact accepts a landing page contact form submission
// @Summary Submit contact form
// @Description Validates, throttles and stores a contact request from the landing page
// @Tags Contact
// @Accept json
// @Produce json
// @Param submission body object true "name, email, company, message, marketingOptIn?, pageUrl?, utm_source?, utm_medium?, utm_campaign?, submittedAt?"
// @Success 201 {object} ContactCreatedResponse "Submission stored"
// @Failure 400 {object} ErrorResponse "Invalid input, with per-field details"
// @Failure 429 {object} ErrorResponse "Too many submissions"
// @Failure 500 {object} ErrorResponse "Unexpected failure"
// @Router /api/landing/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodeContactPayload(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if isHoneypotFilled(payload) {
			h.logger.Info().Str("ip", clientIP(r.RemoteAddr)).Msg("honeypot field filled, discarding submission")
			id := uuid.NewString()
			h.responder.WriteJSONStatus(w, http.StatusCreated, ContactCreatedResponse{OK: true, ID: id, TicketID: id})
			return
		}
		delete(payload, honeypotField)

		result, err := h.intake.SubmitContact(r.Context(), payload, requestMeta(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, ContactCreatedResponse{
			OK:       true,
			ID:       result.ID,
			TicketID: result.ID,
		})
	}
}

// preflight answers OPTIONS with an empty 200
func (h contactHandler) preflight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

// decodeContactPayload reads the body as a JSON object. Field level checks
// are left to the intake service.
func decodeContactPayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBodyBytes)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxContactBodyBytes)
		}
		return nil, errs.NewValidationError(map[string][]string{"body": {"Expected a JSON object"}})
	}
	if payload == nil {
		return nil, errs.NewValidationError(map[string][]string{"body": {"Expected a JSON object"}})
	}
	return payload, nil
}

func isHoneypotFilled(payload map[string]any) bool {
	value, ok := payload[honeypotField].(string)
	return ok && strings.TrimSpace(value) != ""
}
