package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a place-scoped annotation. Comments never expire and take no
// part in crowd aggregation.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PlaceID   uuid.UUID `json:"place_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=500"`
}
