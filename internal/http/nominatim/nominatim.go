package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Client handles communication with the OSM Nominatim geocoding API.
type Client struct {
	BaseURL    *url.URL
	UserAgent  string // Nominatim's usage policy requires an identifying agent
	HTTPClient *http.Client
}

// NewClient creates a new Nominatim client with default timeout.
func NewClient(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	u, _ := url.Parse(baseURL)
	return &Client{
		BaseURL:   u,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		},
	}
}

// SearchQuery represents parameters for forward geocoding requests.
type SearchQuery struct {
	Q              string `url:"q,omitempty"`
	Format         string `url:"format,omitempty"` // always jsonv2 here
	Limit          *int   `url:"limit,omitempty"`
	CountryCodes   string `url:"countrycodes,omitempty"`
	AcceptLanguage string `url:"accept-language,omitempty"`
}

// ReverseQuery represents parameters for reverse geocoding requests.
type ReverseQuery struct {
	Lat    float64 `url:"lat"`
	Lon    float64 `url:"lon"`
	Format string  `url:"format,omitempty"`
	Zoom   *int    `url:"zoom,omitempty"`
}

// Place is a single Nominatim result.
type Place struct {
	PlaceID     int64             `json:"place_id"`
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Category    string            `json:"category"`
	Type        string            `json:"type"`
	Address     map[string]string `json:"address,omitempty"`
}

// Search performs forward geocoding for a free-form query.
func (c *Client) Search(ctx context.Context, text string, params *SearchQuery) ([]Place, error) {
	if params == nil {
		params = &SearchQuery{}
	}
	params.Q = text
	params.Format = "jsonv2"

	var results []Place
	if err := c.do(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ReverseGeocode finds the address for a coordinate pair.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	params := &ReverseQuery{Lat: lat, Lon: lon, Format: "jsonv2"}

	var result Place
	if err := c.do(ctx, "/reverse", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, path string, params interface{}, target interface{}) error {
	values, err := query.Values(params)
	if err != nil {
		return errors.Wrap(err, "encoding query parameters")
	}

	rel := &url.URL{Path: path, RawQuery: values.Encode()}
	u := c.BaseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "executing request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrap(err, "decoding response")
	}
	return nil
}
