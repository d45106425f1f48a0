package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/brightline-studio/site-backend/errs"
	"github.com/brightline-studio/site-backend/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultContactRateLimit  = 5
	DefaultContactRateWindow = 5 * time.Minute

	throttleLockTTL    = 5 * time.Second
	maxUserAgentLength = 512
	maxRefererLength   = 2048
)

// SubmissionStore is the persistence the intake pipeline needs.
// *database.ContactSubmissionRepo satisfies it.
type SubmissionStore interface {
	Add(ctx context.Context, submission *models.ContactSubmission) error
	CountRecent(ctx context.Context, email, ip string, since time.Time) (int64, error)
}

// RequestMeta holds transport-derived values, already extracted by the caller.
// Empty strings mean unknown.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referer   string
}

// SubmissionResult is what a caller shows the submitter.
type SubmissionResult struct {
	ID string `json:"id"`
}

// ContactIntake validates, throttles and persists contact submissions.
type ContactIntake struct {
	store  SubmissionStore
	lock   ThrottleLock
	now    func() time.Time
	limit  int
	window time.Duration
	logger zerolog.Logger
}

type ContactIntakeOption func(*ContactIntake)

// WithRateLimit sets how many submissions one identity may make per window.
func WithRateLimit(limit int, window time.Duration) ContactIntakeOption {
	return func(s *ContactIntake) {
		if limit > 0 {
			s.limit = limit
		}
		if window > 0 {
			s.window = window
		}
	}
}

// WithThrottleLock closes the check-then-write race using lock.
func WithThrottleLock(lock ThrottleLock) ContactIntakeOption {
	return func(s *ContactIntake) {
		if lock != nil {
			s.lock = lock
		}
	}
}

func WithClock(now func() time.Time) ContactIntakeOption {
	return func(s *ContactIntake) {
		if now != nil {
			s.now = now
		}
	}
}

func NewContactIntake(store SubmissionStore, opts ...ContactIntakeOption) *ContactIntake {
	s := &ContactIntake{
		store:  store,
		lock:   noopThrottleLock{},
		now:    time.Now,
		limit:  DefaultContactRateLimit,
		window: DefaultContactRateWindow,
		logger: log.With().Str("service", "contactIntake").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitContact runs validation, the throttle check and the write, in that
// order. It returns a validation, rate-limit or persistence ApiErr on failure
// and writes nothing in those cases.
func (s *ContactIntake) SubmitContact(ctx context.Context, payload map[string]any, meta RequestMeta) (SubmissionResult, error) {
	input, err := ValidateContactPayload(payload)
	if err != nil {
		s.logger.Info().Strs("fields", errs.FieldNames(err)).Msg("contact submission rejected by validation")
		return SubmissionResult{}, err
	}

	meta = normalizeMeta(meta)

	release, ok, err := s.lock.Acquire(ctx, throttleKeys(input.Email, meta.IP), throttleLockTTL)
	switch {
	case err != nil:
		// Lock backend trouble degrades to the advisory limiter.
		s.logger.Warn().Err(err).Msg("throttle lock unavailable, continuing without it")
	case !ok:
		s.logger.Warn().Str("ip", meta.IP).Msg("concurrent contact submission for the same identity rejected")
		return SubmissionResult{}, errs.NewRateLimitError("", s.window)
	default:
		defer release()
	}

	since := s.now().Add(-s.window)
	count, err := s.store.CountRecent(ctx, input.Email, meta.IP, since)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count recent contact submissions")
		return SubmissionResult{}, errs.NewPersistenceError("count", "contact submissions", err)
	}
	if count >= int64(s.limit) {
		s.logger.Warn().Str("ip", meta.IP).Int64("recent", count).Msg("contact submission throttled")
		return SubmissionResult{}, errs.NewRateLimitError("", s.window)
	}

	submission := toSubmission(input, meta)
	if err := s.store.Add(ctx, submission); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist contact submission")
		return SubmissionResult{}, errs.NewPersistenceError("create", "contact submission", err)
	}

	s.logger.Info().Str("id", submission.ID.String()).Bool("marketingOptIn", submission.MarketingOptIn).Msg("contact submission stored")
	return SubmissionResult{ID: submission.ID.String()}, nil
}

func throttleKeys(email, ip string) []string {
	keys := []string{"email:" + email}
	if ip != "" {
		keys = append(keys, "ip:"+ip)
	}
	return keys
}

func normalizeMeta(meta RequestMeta) RequestMeta {
	return RequestMeta{
		IP:        strings.TrimSpace(meta.IP),
		UserAgent: truncateRunes(strings.TrimSpace(meta.UserAgent), maxUserAgentLength),
		Referer:   truncateRunes(strings.TrimSpace(meta.Referer), maxRefererLength),
	}
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func toSubmission(input ContactInput, meta RequestMeta) *models.ContactSubmission {
	return &models.ContactSubmission{
		ID:                uuid.New(),
		Name:              input.Name,
		Email:             input.Email,
		Company:           input.Company,
		Message:           input.Message,
		MarketingOptIn:    input.MarketingOptIn,
		PageURL:           nonEmpty(input.PageURL),
		UTMSource:         nonEmpty(input.UTMSource),
		UTMMedium:         nonEmpty(input.UTMMedium),
		UTMCampaign:       nonEmpty(input.UTMCampaign),
		ClientSubmittedAt: nonEmpty(input.ClientSubmittedAt),
		IP:                nonEmpty(meta.IP),
		UserAgent:         nonEmpty(meta.UserAgent),
		Referer:           nonEmpty(meta.Referer),
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
