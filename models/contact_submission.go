package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactSubmission is one accepted contact form submission. Rows are written
// once and never updated or deleted by the application.
type ContactSubmission struct {
	ID                uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name              string    `json:"name" db:"name" gorm:"type:varchar(200);not null"`
	Email             string    `json:"email" db:"email" gorm:"type:varchar(320);not null;index:idx_contact_submission_email_created,priority:1"`
	Company           string    `json:"company" db:"company" gorm:"type:varchar(200);not null"`
	Message           string    `json:"message" db:"message" gorm:"type:text;not null"`
	MarketingOptIn    bool      `json:"marketingOptIn" db:"marketing_opt_in" gorm:"not null;default:false"`
	PageURL           *string   `json:"pageUrl,omitempty" db:"page_url" gorm:"type:text"`
	UTMSource         *string   `json:"utm_source,omitempty" db:"utm_source" gorm:"type:varchar(200)"`
	UTMMedium         *string   `json:"utm_medium,omitempty" db:"utm_medium" gorm:"type:varchar(200)"`
	UTMCampaign       *string   `json:"utm_campaign,omitempty" db:"utm_campaign" gorm:"type:varchar(200)"`
	ClientSubmittedAt *string   `json:"clientSubmittedAt,omitempty" db:"client_submitted_at" gorm:"type:varchar(64)"`
	IP                *string   `json:"ip,omitempty" db:"ip" gorm:"type:varchar(64);index:idx_contact_submission_ip_created,priority:1"`
	UserAgent         *string   `json:"userAgent,omitempty" db:"user_agent" gorm:"type:varchar(512)"`
	Referer           *string   `json:"referer,omitempty" db:"referer" gorm:"type:text"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime;index:idx_contact_submission_email_created,priority:2;index:idx_contact_submission_ip_created,priority:2"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at" gorm:"not null;autoUpdateTime"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// BeforeCreate assigns the opaque identifier. Timestamps come from gorm's
// autoCreateTime/autoUpdateTime so callers can never supply them.
func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Time{}
	c.UpdatedAt = time.Time{}
	return nil
}

// ContactSubmissionListOptions carries filter and pagination parameters for the
// admin export.
type ContactSubmissionListOptions struct {
	Since  time.Time
	Limit  int
	Offset int
}
