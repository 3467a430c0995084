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
	"github.com/google/uuid"
)

func (api *API) CreatePlaceHelper(ctx context.Context, req model.CreatePlaceRequest, createdBy uuid.UUID) (model.Place, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.Place{}, values.BadRequestBody, "Invalid place details", err
	}

	place := model.Place{
		ID:        util.GenerateUUID(),
		Name:      req.Name,
		Category:  req.Category,
		Location:  req.Location,
		CreatedBy: createdBy,
	}

	created, err := api.CreatePlaceRepo(ctx, place)
	if err != nil {
		return model.Place{}, values.Error, "Failed to create place", err
	}
	return created, values.Created, "Place created successfully", nil
}

// ListPlacesHelper lists places with their derived crowd signal. Aggregates
// are computed concurrently, one fetch per place; a place whose fetch fails
// shows Unknown and is logged, its siblings are unaffected.
func (api *API) ListPlacesHelper(ctx context.Context, category string) ([]model.PlaceWithCrowd, string, string, error) {
	places, err := api.ListPlacesRepo(ctx, category)
	if err != nil {
		return nil, values.Error, "Failed to fetch places", err
	}

	placeIDs := make([]uuid.UUID, len(places))
	for i, place := range places {
		placeIDs[i] = place.ID
	}

	results := crowd.AggregateAll(ctx, api, placeIDs, time.Now())

	listing := make([]model.PlaceWithCrowd, len(places))
	for i, place := range places {
		result := results[place.ID]
		if result.Err != nil {
			log.Printf("aggregation failed for place %s: %v", place.ID, result.Err)
		}
		listing[i] = model.PlaceWithCrowd{
			Place:          place,
			CrowdLevel:     result.Summary.CrowdLevel,
			LastReportTime: result.Summary.LastReportTime,
			ReportCount:    result.Summary.ReportCount,
		}
	}

	return listing, values.Success, "Places fetched successfully", nil
}

func (api *API) GetPlaceHelper(ctx context.Context, placeID string) (model.PlaceWithCrowd, string, string, error) {
	place, err := api.GetPlaceByIDRepo(ctx, placeID)
	if err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			return model.PlaceWithCrowd{}, values.NotFound, "Place not found", err
		}
		return model.PlaceWithCrowd{}, values.Error, "Failed to fetch place", err
	}

	summary, err := crowd.Aggregate(ctx, api, place.ID, time.Now())
	if err != nil {
		// The place itself loaded; degrade the crowd signal rather than fail.
		log.Printf("aggregation failed for place %s: %v", place.ID, err)
		summary = crowd.Summary{CrowdLevel: crowd.LevelUnknown}
	}

	return model.PlaceWithCrowd{
		Place:          place,
		CrowdLevel:     summary.CrowdLevel,
		LastReportTime: summary.LastReportTime,
		ReportCount:    summary.ReportCount,
	}, values.Success, "Place fetched successfully", nil
}

func (api *API) AddCommentHelper(ctx context.Context, placeID string, req model.CreateCommentRequest, userID uuid.UUID, userEmail string) (model.Comment, string, string, error) {
	if err := util.ValidateStruct(req); err != nil {
		return model.Comment{}, values.BadRequestBody, "Invalid comment", err
	}

	id, err := util.StringToUUID(placeID)
	if err != nil {
		return model.Comment{}, values.BadRequestBody, "Invalid place ID", err
	}

	if _, err := api.GetPlaceByIDRepo(ctx, placeID); err != nil {
		if errors.Is(err, ErrPlaceNotFound) {
			return model.Comment{}, values.NotFound, "Place not found", err
		}
		return model.Comment{}, values.Error, "Failed to fetch place", err
	}

	comment := model.Comment{
		PlaceID:   id,
		UserID:    userID,
		UserEmail: userEmail,
		Body:      req.Body,
	}

	created, err := api.AddCommentRepo(ctx, comment)
	if err != nil {
		return model.Comment{}, values.Error, "Failed to add comment", err
	}
	return created, values.Created, "Comment added successfully", nil
}
