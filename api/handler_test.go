package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/brightline-studio/site-backend/content"
	"github.com/brightline-studio/site-backend/models"
	"github.com/brightline-studio/site-backend/services"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockContactSubmitter struct {
	submitFunc func(ctx context.Context, payload map[string]any, meta services.RequestMeta) (services.SubmissionResult, error)
	calls      int
}

func (m *mockContactSubmitter) SubmitContact(ctx context.Context, payload map[string]any, meta services.RequestMeta) (services.SubmissionResult, error) {
	m.calls++
	if m.submitFunc != nil {
		return m.submitFunc(ctx, payload, meta)
	}
	return services.SubmissionResult{ID: "00000000-0000-0000-0000-000000000001"}, nil
}

type mockPostResolver struct {
	resolveFunc func(ctx context.Context, slug string) (*content.ResolvedPost, error)
	listFunc    func(ctx context.Context) ([]content.PostSummary, error)
}

func (m *mockPostResolver) ResolvePost(ctx context.Context, slug string) (*content.ResolvedPost, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, slug)
	}
	return nil, nil
}

func (m *mockPostResolver) ListAllPosts(ctx context.Context) ([]content.PostSummary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockSubmissionLister struct {
	listFunc func(ctx context.Context, opts models.ContactSubmissionListOptions) ([]*models.ContactSubmission, error)
}

func (m *mockSubmissionLister) List(ctx context.Context, opts models.ContactSubmissionListOptions) ([]*models.ContactSubmission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// testDependencies fills every collaborator with an inert mock.
func testDependencies() Dependencies {
	return Dependencies{
		Intake:      &mockContactSubmitter{},
		Posts:       &mockPostResolver{},
		Legal:       content.NewDocumentStore(fstest.MapFS{}, "legal"),
		Submissions: &mockSubmissionLister{},
	}
}

func newTestRouter(deps Dependencies, cfg map[string]string) http.Handler {
	if cfg == nil {
		cfg = map[string]string{}
	}
	return newRouter(deps, withConfig(cfg))
}

func doRequest(t *testing.T, h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}
