package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/brightline-studio/site-backend/models"
	"github.com/brightline-studio/site-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore is a SubmissionStore that keeps rows in memory
type recordingStore struct {
	mu   sync.Mutex
	rows []models.ContactSubmission
}

func (s *recordingStore) Add(_ context.Context, submission *models.ContactSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	s.rows = append(s.rows, *submission)
	return nil
}

func (s *recordingStore) CountRecent(_ context.Context, email, ip string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.rows {
		if row.CreatedAt.Before(since) {
			continue
		}
		if row.Email == email || (ip != "" && row.IP != nil && *row.IP == ip) {
			n++
		}
	}
	return n, nil
}

func TestContactHandler_Submit_Success(t *testing.T) {
	store := &recordingStore{}
	deps := testDependencies()
	deps.Intake = services.NewContactIntake(store)
	router := newTestRouter(deps, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/landing/contact",
		`{"name":"Jo","email":"jo@acme.com","company":"Acme","message":"Need a quote"}`,
		map[string]string{"User-Agent": "test-agent", "X-Forwarded-For": "203.0.113.9"})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	id, _ := body["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, body["ticketId"])

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	assert.Equal(t, id, row.ID.String())
	assert.Equal(t, "jo@acme.com", row.Email)
	assert.False(t, row.MarketingOptIn)
	assert.False(t, row.CreatedAt.IsZero())
	require.NotNil(t, row.IP)
	assert.Equal(t, "203.0.113.9", *row.IP)
	require.NotNil(t, row.UserAgent)
	assert.Equal(t, "test-agent", *row.UserAgent)
}

func TestContactHandler_Submit_ValidationDetails(t *testing.T) {
	store := &recordingStore{}
	deps := testDependencies()
	deps.Intake = services.NewContactIntake(store)
	router := newTestRouter(deps, nil)

	rec := doRequest(t, router, http.MethodPost, "/api/landing/contact",
		`{"name":"A","email":"bad-email","company":"B","message":"hi"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Invalid input", body["error"])

	details, ok := body["details"].(map[string]any)
	require.True(t, ok, "details must be a field keyed map: %v", body)
	for _, field := range []string{"name", "email", "message"} {
		assert.Contains(t, details, field)
	}
	assert.Empty(t, store.rows)
}

func TestContactHandler_Submit_MalformedBody(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `{"name":`,
		"json array": `["name"]`,
		"json null":  `null`,
	} {
		t.Run(name, func(t *testing.T) {
			submitter := &mockContactSubmitter{}
			deps := testDependencies()
			deps.Intake = submitter

			rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact", body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid input", decodeBody(t, rec)["error"])
			assert.Zero(t, submitter.calls)
		})
	}
}

func TestContactHandler_Submit_BodyTooLarge(t *testing.T) {
	deps := testDependencies()
	large := `{"message":"` + strings.Repeat("a", maxContactBodyBytes) + `"}`

	rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact", large, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestContactHandler_Submit_RateLimited(t *testing.T) {
	deps := testDependencies()
	deps.Intake = &mockContactSubmitter{
		submitFunc: func(context.Context, map[string]any, services.RequestMeta) (services.SubmissionResult, error) {
			return services.SubmissionResult{}, errs.NewRateLimitError("", 5*time.Minute)
		},
	}

	rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact", `{"name":"Jo"}`, nil)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))
	assert.Equal(t, map[string]any{"error": errs.DefaultRetryLaterMessage}, decodeBody(t, rec))
}

func TestContactHandler_Submit_PersistenceFailureIsGeneric(t *testing.T) {
	deps := testDependencies()
	deps.Intake = &mockContactSubmitter{
		submitFunc: func(context.Context, map[string]any, services.RequestMeta) (services.SubmissionResult, error) {
			return services.SubmissionResult{}, errs.NewPersistenceError("create", "contact submission",
				errors.New(`pq: relation "contact_submissions" does not exist`))
		},
	}

	rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact", `{"name":"Jo"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"error": genericFailureMessage}, decodeBody(t, rec))
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestContactHandler_Submit_UnexpectedErrorIsGeneric(t *testing.T) {
	deps := testDependencies()
	deps.Intake = &mockContactSubmitter{
		submitFunc: func(context.Context, map[string]any, services.RequestMeta) (services.SubmissionResult, error) {
			return services.SubmissionResult{}, errors.New("nil pointer somewhere")
		},
	}

	rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact", `{"name":"Jo"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "nil pointer")
}

func TestContactHandler_Submit_HoneypotSkipsIntake(t *testing.T) {
	submitter := &mockContactSubmitter{}
	deps := testDependencies()
	deps.Intake = submitter

	rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact",
		`{"name":"Bot","email":"bot@spam.example","company":"Spam","message":"Buy now","website":"http://spam.example"}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["id"])
	assert.Zero(t, submitter.calls)
}

func TestContactHandler_Submit_EmptyHoneypotIsIgnored(t *testing.T) {
	var captured map[string]any
	deps := testDependencies()
	deps.Intake = &mockContactSubmitter{
		submitFunc: func(_ context.Context, payload map[string]any, _ services.RequestMeta) (services.SubmissionResult, error) {
			captured = payload
			return services.SubmissionResult{ID: "abc"}, nil
		},
	}

	rec := doRequest(t, newTestRouter(deps, nil), http.MethodPost, "/api/landing/contact", `{"name":"Jo","website":""}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, captured, honeypotField)
}

func TestContactHandler_Options(t *testing.T) {
	t.Run("plain options", func(t *testing.T) {
		rec := doRequest(t, newTestRouter(testDependencies(), nil), http.MethodOptions, "/api/landing/contact", "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("cors preflight from an accepted origin", func(t *testing.T) {
		router := newTestRouter(testDependencies(), map[string]string{"ACCEPTED_ORIGINS": "https://brightline.studio"})

		rec := doRequest(t, router, http.MethodOptions, "/api/landing/contact", "", map[string]string{
			"Origin":                        "https://brightline.studio",
			"Access-Control-Request-Method": http.MethodPost,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://brightline.studio", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Body.String())
	})
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", clientIP("192.0.2.1:51234"))
	assert.Equal(t, "2001:db8::1", clientIP("[2001:db8::1]:443"))
	assert.Equal(t, "198.51.100.4", clientIP("198.51.100.4"))
	assert.Equal(t, "", clientIP("not-an-ip"))
	assert.Equal(t, "", clientIP(""))
}
