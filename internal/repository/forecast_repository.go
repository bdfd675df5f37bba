package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"meteoalerte/internal/config"
	"meteoalerte/internal/metrics"
	"meteoalerte/internal/model"
	"meteoalerte/internal/redis"
)

// currentFields and hourlyFields are the Open-Meteo variable lists the
// engine consumes.
const (
	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m"
	hourlyFields  = "temperature_2m,weather_code,precipitation_probability"
)

// ForecastRepository fetches the current conditions plus the hourly
// series for the current day at a coordinate.
type ForecastRepository interface {
	GetForecast(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error)
}

type redisClient interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

type forecastRepository struct {
	redisClient redisClient
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker[*model.ForecastResponse]
}

// NewForecastRepository creates a new forecast repository instance.
func NewForecastRepository(httpClient ...*http.Client) ForecastRepository {
	client := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return &forecastRepository{
		redisClient: redis.GetClient(),
		httpClient:  client,
		breaker:     newBreaker[*model.ForecastResponse]("forecast"),
	}
}

// GetForecast retrieves forecast data, checking the cache first, then the
// Open-Meteo API. A cache hit counts as a successful fetch.
func (r *forecastRepository) GetForecast(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error) {
	if cached, err := r.getFromCache(ctx, lat, lon); err == nil {
		return cached, nil
	}

	forecast, err := r.breaker.Execute(func() (*model.ForecastResponse, error) {
		return r.fetchFromUpstream(ctx, lat, lon)
	})
	metrics.RecordUpstream("forecast", err)
	if err != nil {
		return nil, model.TransportError(model.ErrCodeTransportForecast, "weather fetch failed", err)
	}

	r.cacheForecast(ctx, lat, lon, forecast)

	return forecast, nil
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("forecast:%.4f,%.4f", lat, lon)
}

// getFromCache retrieves forecast data from the Redis cache.
func (r *forecastRepository) getFromCache(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error) {
	val, err := r.redisClient.Get(ctx, cacheKey(lat, lon)).Result()
	if err != nil {
		return nil, err
	}

	var forecast model.ForecastResponse
	if err := json.Unmarshal([]byte(val), &forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// fetchFromUpstream retrieves forecast data from the Open-Meteo API.
func (r *forecastRepository) fetchFromUpstream(ctx context.Context, lat, lon float64) (*model.ForecastResponse, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current", currentFields)
	params.Set("hourly", hourlyFields)
	params.Set("timezone", "auto")
	params.Set("forecast_days", "1")
	reqURL := config.GetForecastAPIURL() + "?" + params.Encode()

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
		return nil, fmt.Errorf("forecast API status %d", resp.StatusCode)
	}

	var forecast model.ForecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, err
	}
	return &forecast, nil
}

// cacheForecast stores forecast data in the Redis cache. Write failures
// are ignored; the next fetch simply misses.
func (r *forecastRepository) cacheForecast(ctx context.Context, lat, lon float64, forecast *model.ForecastResponse) {
	if b, err := json.Marshal(forecast); err == nil {
		_ = r.redisClient.Set(ctx, cacheKey(lat, lon), b, config.GetForecastCacheTTL()).Err()
	}
}
