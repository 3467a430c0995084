package rest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ekermen/crowdcheck/internal/crowd"
	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/values"
	"github.com/ekermen/crowdcheck/util/websockets"
)

// CreateReportHelper validates and persists a submission. Validation runs
// before any store access, so a rejected report never touches storage.
func (api *API) CreateReportHelper(ctx context.Context, req model.CreateReportRequest) (model.Report, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.Report{}, values.BadRequestBody, "Invalid report submission", err
	}

	report, err := api.InsertReportRepo(ctx, req)
	if err != nil {
		return model.Report{}, values.Error, "Failed to create report", err
	}

	go api.broadcastCrowdUpdate(report.PlaceID.String())

	return report, values.Created, "Report created successfully", nil
}

// broadcastCrowdUpdate recomputes a place's aggregate and pushes it to
// websocket subscribers. Best effort; listing reads recompute anyway.
func (api *API) broadcastCrowdUpdate(placeID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := util.StringToUUID(placeID)
	if err != nil {
		return
	}

	summary, err := crowd.Aggregate(ctx, api, id, time.Now())
	if err != nil {
		log.Println("failed to aggregate for crowd update", err)
		return
	}

	update := websockets.CrowdUpdate{
		Type:        websockets.MsgTypeCrowdUpdate,
		PlaceID:     placeID,
		CrowdLevel:  summary.CrowdLevel,
		ReportCount: summary.ReportCount,
	}
	if summary.LastReportTime != nil {
		update.LastReportTime = summary.LastReportTime.Format(time.RFC3339)
	}
	api.Deps.WebSocket.BroadcastCrowdUpdate(update)
}

func (api *API) GetUserReportsHelper(ctx context.Context, userID string) ([]model.Report, string, string, error) {
	reports, err := api.GetUserReportsRepo(ctx, userID)
	if err != nil {
		return nil, values.Error, "Failed to fetch user reports", err
	}
	return reports, values.Success, "User reports fetched successfully", nil
}

// GetPlaceReportsHelper returns a place's current aggregation window.
func (api *API) GetPlaceReportsHelper(ctx context.Context, placeID string) ([]model.Report, string, string, error) {
	id, err := util.StringToUUID(placeID)
	if err != nil {
		return nil, values.BadRequestBody, "Invalid place ID", err
	}

	reports, err := api.ActiveReports(ctx, id, time.Now(), crowd.WindowSize)
	if err != nil {
		return nil, values.Error, "Failed to fetch reports", err
	}
	return reports, values.Success, "Reports fetched successfully", nil
}

// DeleteReportHelper removes a report after checking it exists and belongs to
// the caller.
func (api *API) DeleteReportHelper(ctx context.Context, id string, userID string) (string, string, error) {
	report, err := api.GetReportByIDRepo(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			return values.NotFound, "Report not found", err
		}
		return values.Error, "Failed to fetch report", err
	}

	if report.UserID.String() != userID {
		return values.NotAllowed, "You can only delete your own reports", errors.New("report owned by another user")
	}

	if err := api.DeleteReportRepo(ctx, id, userID); err != nil {
		return values.Error, "Failed to delete report", err
	}

	go api.broadcastCrowdUpdate(report.PlaceID.String())

	return values.Success, "Report deleted successfully", nil
}
