package rest

import (
	"context"
	"errors"
	"time"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrDeleteFailed   = errors.New("failed to delete report")
)

// InsertReportRepo persists a new immutable report. created_at is stamped by
// the database and expires_at is fixed at created_at + 2 hours, matching
// crowd.ReportTTL; neither is ever recomputed.
func (api *API) InsertReportRepo(ctx context.Context, req model.CreateReportRequest) (model.Report, error) {
	query := `
        INSERT INTO reports (
            place_id, user_id, user_email, crowd_level, comment, created_at, expires_at
        ) VALUES (
            $1, $2, $3, $4, $5, NOW(), NOW() + INTERVAL '2 hours'
        ) RETURNING id, place_id, user_id, user_email, crowd_level, comment, created_at, expires_at
    `
	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}

	var report model.Report
	err := api.DB.QueryRow(ctx, query,
		req.PlaceID, req.UserID, req.UserEmail, req.CrowdLevel, comment,
	).Scan(
		&report.ID, &report.PlaceID, &report.UserID, &report.UserEmail,
		&report.CrowdLevel, &report.Comment, &report.CreatedAt, &report.ExpiresAt,
	)
	if err != nil {
		return model.Report{}, err
	}
	return report, nil
}

// ActiveReports returns the aggregation window for a place: reports with
// expires_at > now, ordered by (expires_at desc, created_at desc), capped at
// limit. Satisfies crowd.Store.
func (api *API) ActiveReports(ctx context.Context, placeID uuid.UUID, now time.Time, limit int) ([]model.Report, error) {
	query := `
        SELECT id, place_id, user_id, user_email, crowd_level, comment, created_at, expires_at
        FROM reports
        WHERE place_id = $1 AND expires_at > $2
        ORDER BY expires_at DESC, created_at DESC
        LIMIT $3
    `
	rows, err := api.DB.Query(ctx, query, placeID, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var report model.Report
		err := rows.Scan(
			&report.ID, &report.PlaceID, &report.UserID, &report.UserEmail,
			&report.CrowdLevel, &report.Comment, &report.CreatedAt, &report.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

func (api *API) GetReportByIDRepo(ctx context.Context, id string) (model.Report, error) {
	query := `
        SELECT id, place_id, user_id, user_email, crowd_level, comment, created_at, expires_at
        FROM reports
        WHERE id = $1
    `
	var report model.Report
	err := api.DB.QueryRow(ctx, query, id).Scan(
		&report.ID, &report.PlaceID, &report.UserID, &report.UserEmail,
		&report.CrowdLevel, &report.Comment, &report.CreatedAt, &report.ExpiresAt,
	)
	if err == pgx.ErrNoRows {
		return model.Report{}, ErrReportNotFound
	}
	return report, err
}

// GetUserReportsRepo retrieves all reports for a specific user, expired ones
// included, for the dashboard view.
func (api *API) GetUserReportsRepo(ctx context.Context, userID string) ([]model.Report, error) {
	query := `
        SELECT id, place_id, user_id, user_email, crowd_level, comment, created_at, expires_at
        FROM reports
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := api.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		var report model.Report
		err := rows.Scan(
			&report.ID, &report.PlaceID, &report.UserID, &report.UserEmail,
			&report.CrowdLevel, &report.Comment, &report.CreatedAt, &report.ExpiresAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

// DeleteReportRepo hard-deletes a report, gated to its owner.
func (api *API) DeleteReportRepo(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM reports WHERE id = $1 AND user_id = $2`
	result, err := api.DB.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDeleteFailed
	}
	return nil
}
