package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"meteoalerte/internal/config"
	"meteoalerte/internal/metrics"
	"meteoalerte/internal/model"
)

// GeocodingRepository resolves free-text place queries into locations.
type GeocodingRepository interface {
	Resolve(ctx context.Context, query string) (*model.Location, error)
}

type geocodingRepository struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*model.GeocodingResponse]
}

// NewGeocodingRepository creates a new geocoding repository instance.
func NewGeocodingRepository(httpClient ...*http.Client) GeocodingRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &geocodingRepository{
		httpClient: client,
		breaker:    newBreaker[*model.GeocodingResponse]("geocoding"),
	}
}

// newBreaker builds the circuit breaker shared shape for upstream calls.
func newBreaker[T any](name string) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
}

// Resolve calls the geocoding API with the trimmed query and returns the
// best match. Empty results mean the place does not exist; that is a
// resolution error, not a transport one.
func (r *geocodingRepository) Resolve(ctx context.Context, query string) (*model.Location, error) {
	decoded, err := r.breaker.Execute(func() (*model.GeocodingResponse, error) {
		return r.fetch(ctx, query)
	})
	metrics.RecordUpstream("geocoding", err)
	if err != nil {
		return nil, model.TransportError(model.ErrCodeTransportGeocoding, "geocoding unavailable", err)
	}

	if len(decoded.Results) == 0 {
		return nil, model.ResolutionError(query)
	}

	best := decoded.Results[0]
	return &model.Location{
		Name:      model.FormatLocationName(best.Name, best.Admin1, best.Country),
		Latitude:  best.Latitude,
		Longitude: best.Longitude,
	}, nil
}

func (r *geocodingRepository) fetch(ctx context.Context, query string) (*model.GeocodingResponse, error) {
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", "1")
	params.Set("language", "fr")
	params.Set("format", "json")
	reqURL := config.GetGeocodingAPIURL() + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding API status %d", resp.StatusCode)
	}

	var decoded model.GeocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	return &decoded, nil
}
