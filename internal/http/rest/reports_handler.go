package rest

import (
	"net/http"

	"github.com/ekermen/crowdcheck/internal/model"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/tracing"
	"github.com/ekermen/crowdcheck/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) ReportRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.CreateReport))
		r.Method(http.MethodGet, "/user", Handler(api.GetUserReports))
		r.Method(http.MethodGet, "/{reportID}", Handler(api.GetReportByID))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteReport))
	})

	return mux
}

func (api *API) CreateReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateReportRequest
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

	req.UserID = userID
	req.UserEmail = userEmail

	report, status, message, err := api.CreateReportHelper(r.Context(), req)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       report,
	}
}

func (api *API) GetReportByID(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	reportID := chi.URLParam(r, "reportID")

	report, err := api.GetReportByIDRepo(r.Context(), reportID)
	if err != nil {
		if err == ErrReportNotFound {
			return respondWithError(err, "report not found", values.NotFound, &tc)
		}
		return respondWithError(err, "failed to fetch report", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Report fetched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       report,
	}
}

// GetUserReports backs the dashboard: every report the caller has submitted,
// newest first, including expired ones.
func (api *API) GetUserReports(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	reports, status, message, err := api.GetUserReportsHelper(r.Context(), userID.String())
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

func (api *API) DeleteReport(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id := chi.URLParam(r, "id")

	userID, err := util.GetUserIDFromContext(r.Context())
	if err != nil {
		return respondWithError(err, "unable to get user ID from context", values.NotAuthorised, &tc)
	}

	status, message, err := api.DeleteReportHelper(r.Context(), id, userID.String())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    message,
		Status:     status,
		StatusCode: util.StatusCode(status),
	}
}
