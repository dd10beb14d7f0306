// Package geocoding resolves US postal codes to coordinates through the
// zippopotam.us lookup service and memoizes the answers per session.
package geocoding

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"locator/config"
	"locator/internal/domain/entity"
	"locator/internal/domain/service"
	"locator/internal/errors"
)

// maxResponseBytes caps how much of a lookup response is read.
const maxResponseBytes = 64 << 10

// Lookup failures. All of them degrade to an absent coordinate in the resolver.
var (
	ErrPostalCodeNotFound = errors.New("postal code not found")
	ErrUnexpectedStatus   = errors.New("unexpected geocoding status")
	ErrMalformedResponse  = errors.New("malformed geocoding response")
)

// ZippopotamClient implements service.Geocoder against api.zippopotam.us.
type ZippopotamClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

var _ service.Geocoder = (*ZippopotamClient)(nil)

// NewZippopotamClient creates a client from the geocoding config section.
func NewZippopotamClient(cfg *config.Config) service.Geocoder {
	gc := cfg.Geocoding

	return newZippopotamClient(gc.BaseURL, gc.Timeout, &http.Client{Timeout: gc.Timeout})
}

func newZippopotamClient(baseURL string, timeout time.Duration, httpClient *http.Client) *ZippopotamClient {
	return &ZippopotamClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
	}
}

// zippopotamResponse is the subset of the response body this service reads.
// Example: {"post code": "90210", "places": [{"latitude": "34.0901", "longitude": "-118.4065"}]}
type zippopotamResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		PlaceName string    `json:"place name"`
		Latitude  flexFloat `json:"latitude"`
		Longitude flexFloat `json:"longitude"`
	} `json:"places"`
}

// Lookup fetches the first place for a postal code.
func (c *ZippopotamClient) Lookup(ctx context.Context, country, postalCode string) (entity.Coordinate, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + "/" + url.PathEscape(country) + "/" + url.PathEscape(postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return entity.AbsentCoordinate, errors.Wrap(err, "build geocoding request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.AbsentCoordinate, errors.Wrapf(err, "geocoding request for %s", postalCode)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return entity.AbsentCoordinate, errors.Wrapf(ErrPostalCodeNotFound, "postal code %s", postalCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return entity.AbsentCoordinate, errors.Wrapf(ErrUnexpectedStatus, "status %d for %s", resp.StatusCode, postalCode)
	}

	var body zippopotamResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return entity.AbsentCoordinate, errors.Wrapf(ErrMalformedResponse, "decode %s: %v", postalCode, err)
	}
	if len(body.Places) == 0 {
		return entity.AbsentCoordinate, errors.Wrapf(ErrMalformedResponse, "no places for %s", postalCode)
	}

	place := body.Places[0]
	coord := entity.NewCoordinate(float64(place.Latitude), float64(place.Longitude))
	if coord.IsAbsent() {
		return entity.AbsentCoordinate, errors.Wrapf(ErrMalformedResponse, "coordinates out of range for %s", postalCode)
	}

	return coord, nil
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return errors.New("null coordinate")
	}
	raw = strings.Trim(raw, `"`)

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return errors.Wrapf(err, "parse coordinate %q", raw)
	}
	*f = flexFloat(v)

	return nil
}
