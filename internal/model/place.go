package model

import (
	"time"

	"github.com/google/uuid"
)

type Place struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Location  string    `json:"location"` // address or "lat,lng"
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePlaceRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Category string `json:"category" validate:"category"`
	Location string `json:"location" validate:"required,max=255"`
}

// PlaceWithCrowd is a Place plus the derived crowd signal. The derived fields
// are computed on read and never persisted.
type PlaceWithCrowd struct {
	Place
	CrowdLevel     string     `json:"crowd_level"`
	LastReportTime *time.Time `json:"last_report_time"`
	ReportCount    int        `json:"report_count"`
}
