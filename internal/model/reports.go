package model

import (
	"time"

	"github.com/google/uuid"
)

// Report is a single crowd-level observation for a place. Reports are
// immutable once created and fall out of aggregation when expires_at passes,
// but stay in storage until the owner deletes them.
type Report struct {
	ID         uuid.UUID `json:"id"`
	PlaceID    uuid.UUID `json:"place_id"`
	UserID     uuid.UUID `json:"user_id"`
	UserEmail  string    `json:"user_email"`
	CrowdLevel int       `json:"crowd_level"` // 1 = Low, 2 = Medium, 3 = High
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type CreateReportRequest struct {
	PlaceID    uuid.UUID `json:"place_id" validate:"required"`
	UserID     uuid.UUID `json:"-"`
	UserEmail  string    `json:"-"`
	CrowdLevel int       `json:"crowd_level" validate:"crowdlevel"`
	Comment    string    `json:"comment" validate:"max=280"`
}
