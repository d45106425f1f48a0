package database

import (
	"context"
	"errors"
	"time"

	"github.com/brightline-studio/site-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// ContactSubmissionRepo is append-only: it exposes no update or delete.
type ContactSubmissionRepo struct {
	db *gorm.DB
}

func NewContactSubmissionRepo(db *gorm.DB) *ContactSubmissionRepo {
	return &ContactSubmissionRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ContactSubmissionRepo) GetDB() *gorm.DB {
	return r.db
}

// Add inserts a new submission. ID, CreatedAt and UpdatedAt are assigned here.
func (r *ContactSubmissionRepo) Add(ctx context.Context, submission *models.ContactSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// CountRecent counts submissions created at or after since whose email matches
// or, when ip is non-empty, whose ip matches.
func (r *ContactSubmissionRepo) CountRecent(ctx context.Context, email, ip string, since time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ContactSubmission{}).Where("created_at >= ?", since)
	if ip != "" {
		query = query.Where("email = ? OR ip = ?", email, ip)
	} else {
		query = query.Where("email = ?", email)
	}
	err := query.Count(&count).Error
	return count, err
}

// FindByID returns a submission by its ID, or (nil, nil) if none exists
func (r *ContactSubmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	var submission models.ContactSubmission
	err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// List returns submissions newest first, filtered and paginated by opts
func (r *ContactSubmissionRepo) List(ctx context.Context, opts models.ContactSubmissionListOptions) ([]*models.ContactSubmission, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.ContactSubmission{})
	if !opts.Since.IsZero() {
		query = query.Where("created_at >= ?", opts.Since)
	}

	var submissions []*models.ContactSubmission
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&submissions).Error
	return submissions, err
}
