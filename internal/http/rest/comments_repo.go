package rest

import (
	"context"

	"github.com/ekermen/crowdcheck/internal/model"
)

// commentPageSize bounds how many comments a single read returns.
const commentPageSize = 20

func (api *API) AddCommentRepo(ctx context.Context, comment model.Comment) (model.Comment, error) {
	query := `
        INSERT INTO comments (place_id, user_id, user_email, body)
        VALUES ($1, $2, $3, $4)
        RETURNING id, place_id, user_id, user_email, body, created_at
    `
	var created model.Comment
	err := api.DB.QueryRow(ctx, query,
		comment.PlaceID, comment.UserID, comment.UserEmail, comment.Body,
	).Scan(
		&created.ID, &created.PlaceID, &created.UserID, &created.UserEmail,
		&created.Body, &created.CreatedAt,
	)
	if err != nil {
		return model.Comment{}, err
	}
	return created, nil
}

// GetCommentsRepo returns the most recent comments for a place, newest first.
func (api *API) GetCommentsRepo(ctx context.Context, placeID string) ([]model.Comment, error) {
	query := `
        SELECT id, place_id, user_id, user_email, body, created_at
        FROM comments
        WHERE place_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := api.DB.Query(ctx, query, placeID, commentPageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(
			&comment.ID, &comment.PlaceID, &comment.UserID, &comment.UserEmail,
			&comment.Body, &comment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
