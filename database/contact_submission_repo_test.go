package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/brightline-studio/site-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB connects to TEST_DATABASE_URL and migrates the schema. Tests are
// skipped when the variable is unset or -short is given.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func strPtr(s string) *string { return &s }

func TestContactSubmissionRepo_AddAndFind(t *testing.T) {
	db := openTestDB(t)
	repo := NewContactSubmissionRepo(db)
	ctx := context.Background()

	email := fmt.Sprintf("repo-%d@example.com", time.Now().UnixNano())
	submission := &models.ContactSubmission{
		Name:    "Jo",
		Email:   email,
		Company: "Acme",
		Message: "Need a quote",
	}
	require.NoError(t, repo.Add(ctx, submission))
	assert.NotEmpty(t, submission.ID)
	assert.False(t, submission.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, submission.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, email, found.Email)
	assert.False(t, found.MarketingOptIn)
}

func TestContactSubmissionRepo_CountRecentMatchesEmailOrIP(t *testing.T) {
	db := openTestDB(t)
	repo := NewContactSubmissionRepo(db)
	ctx := context.Background()

	unique := time.Now().UnixNano()
	email := fmt.Sprintf("count-%d@example.com", unique)
	ip := fmt.Sprintf("10.%d.%d.%d", unique%200, (unique/200)%200, (unique/40000)%200)
	since := time.Now().Add(-time.Minute)

	require.NoError(t, repo.Add(ctx, &models.ContactSubmission{Name: "Ab", Email: email, Company: "Co", Message: "hello"}))
	require.NoError(t, repo.Add(ctx, &models.ContactSubmission{Name: "Ab", Email: "other-" + email, Company: "Co", Message: "hello", IP: strPtr(ip)}))

	byEmail, err := repo.CountRecent(ctx, email, "", since)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byEmail)

	byEither, err := repo.CountRecent(ctx, email, ip, since)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byEither)

	outsideWindow, err := repo.CountRecent(ctx, email, ip, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(0), outsideWindow)
}
