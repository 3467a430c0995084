package rest

import (
	"net/http"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/tracing"
	"github.com/ekermen/crowdcheck/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) PlacesRoutes() chi.Router {
	mux := chi.NewRouter()

	// Browsing is public; writes require a logged-in user.
	mux.Method(http.MethodGet, "/", Handler(api.ListPlaces))
	mux.Method(http.MethodGet, "/{placeID}", Handler(api.GetPlace))
	mux.Method(http.MethodGet, "/{placeID}/reports", Handler(api.GetPlaceReports))
	mux.Method(http.MethodGet, "/{placeID}/comments", Handler(api.GetComments))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.CreatePlace))
		r.Method(http.MethodPost, "/{placeID}/comments", Handler(api.CommentOnPlace))
	})

	return mux
}

// ListPlaces returns every place ordered by name, each with its derived
// crowd level. Optional ?category= filters the listing.
func (api *API) ListPlaces(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	category := r.URL.Query().Get("category")

	places, status, message, err := api.ListPlacesHelper(r.Context(), category)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if places == nil {
		places = []model.PlaceWithCrowd{}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       places,
	}
}

func (api *API) GetPlace(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	placeID := chi.URLParam(r, "placeID")

	place, status, message, err := api.GetPlaceHelper(r.Context(), placeID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       place,
	}
}

func (api *API) CreatePlace(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreatePlaceRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	place, status, message, err := api.CreatePlaceHelper(r.Context(), req, userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       place,
	}
}

// GetPlaceReports exposes the raw aggregation window for a place: its active
// reports in (expires_at desc, created_at desc) order.
func (api *API) GetPlaceReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	placeID := chi.URLParam(r, "placeID")

	reports, status, message, err := api.GetPlaceReportsHelper(r.Context(), placeID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}
	if reports == nil {
		reports = []model.Report{}
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       reports,
	}
}

func (api *API) CommentOnPlace(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	placeID := chi.URLParam(r, "placeID")

	var req model.CreateCommentRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}
	userEmail, err := util.GetUserEmailFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user email from context", values.NotAuthorised, &tc)
	}

	comment, status, message, err := api.AddCommentHelper(r.Context(), placeID, req, userID, userEmail)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       comment,
	}
}

func (api *API) GetComments(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	placeID := chi.URLParam(r, "placeID")

	comments, err := api.GetCommentsRepo(r.Context(), placeID)
	if err != nil {
		return respondWithError(err, "failed to get comments", values.Error, &tc)
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	return &ServerResponse{
		Message:    "Comments retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       comments,
	}
}
