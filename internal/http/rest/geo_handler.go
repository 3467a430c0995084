package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ekermen/crowdcheck/internal/http/nominatim"
	"github.com/ekermen/crowdcheck/util"
	"github.com/ekermen/crowdcheck/util/tracing"
	"github.com/ekermen/crowdcheck/util/values"
	"github.com/go-chi/chi/v5"
)

// GeoRoutes proxies the add-place flow's geocoding lookups to OSM Nominatim.
func (api *API) GeoRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)

		// Forward geocoding (search for an address/place)
		// Query params: ?text=...&limit=...
		r.Method(http.MethodGet, "/search", Handler(api.SearchAddressHandler))

		// Reverse geocoding (find address for lat/lon)
		// Query params: ?lat=...&lon=...
		r.Method(http.MethodGet, "/reverse", Handler(api.ReverseGeocodeHandler))
	})
	return mux
}

func (api *API) SearchAddressHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	queryParams := r.URL.Query()
	text := strings.TrimSpace(queryParams.Get("text"))
	if text == "" {
		return respondWithError(nil, "Missing or empty 'text' query parameter", values.BadRequestBody, &tc)
	}

	searchParams := &nominatim.SearchQuery{}
	if limitStr := queryParams.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 50 {
			return respondWithError(err, "Invalid 'limit' parameter", values.BadRequestBody, &tc)
		}
		searchParams.Limit = util.IntPtr(limit)
	}

	results, err := api.Deps.Nominatim.Search(r.Context(), text, searchParams)
	if err != nil {
		if strings.Contains(err.Error(), "429") {
			return respondWithError(err, "Rate limit exceeded", values.SystemErr, &tc)
		}
		return respondWithError(err, "Failed to search addresses", values.SystemErr, &tc)
	}

	return &ServerResponse{
		Message:    "Addresses searched successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       results,
	}
}

func (api *API) ReverseGeocodeHandler(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)
	queryParams := r.URL.Query()

	latStr := queryParams.Get("lat")
	lonStr := queryParams.Get("lon")

	if latStr == "" || lonStr == "" {
		return respondWithError(nil, "Missing 'lat' or 'lon' query parameters", values.BadRequestBody, &tc)
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)

	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return respondWithError(nil, "Invalid latitude or longitude", values.BadRequestBody, &tc)
	}

	result, err := api.Deps.Nominatim.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		return respondWithError(err, "Failed to reverse geocode", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Reverse geocoding successful",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       result,
	}
}
