package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestGetRedisAddr(t *testing.T) {
	// The environment variable wins over config.
	expectedAddr := "redis.internal:6380"
	os.Setenv("REDIS_ADDR", expectedAddr)
	defer os.Unsetenv("REDIS_ADDR")

	if got := GetRedisAddr(); got != expectedAddr {
		t.Errorf("Expected Redis addr %s, got %s", expectedAddr, got)
	}

	// Without the variable the test config applies.
	os.Unsetenv("REDIS_ADDR")
	if got := GetRedisAddr(); got != "localhost:16379" {
		t.Errorf("Expected test Redis addr localhost:16379, got %s", got)
	}
}

func TestGetAPIURLs(t *testing.T) {
	if got := GetGeocodingAPIURL(); got != "https://geocoding-api.open-meteo.com/v1/search" {
		t.Errorf("unexpected geocoding URL %s", got)
	}
	if got := GetForecastAPIURL(); got != "https://api.open-meteo.com/v1/forecast" {
		t.Errorf("unexpected forecast URL %s", got)
	}
}

func TestGetServerPort(t *testing.T) {
	if got := GetServerPort(); got != "8080" {
		t.Errorf("Expected default port 8080, got %s", got)
	}
}

func TestGetForecastCacheTTL(t *testing.T) {
	// config_test.yaml shortens the expiration for test runs.
	if got := GetForecastCacheTTL(); got != time.Minute {
		t.Errorf("Expected 1m cache TTL, got %s", got)
	}

	viper.Set("cache.expiration", "not-a-duration")
	defer func() {
		viper.Set("cache.expiration", "1m")
		ReloadConfigForTest()
	}()
	ReloadConfigForTest()
	if got := GetForecastCacheTTL(); got != 10*time.Minute {
		t.Errorf("Expected 10m fallback TTL, got %s", got)
	}
}

func TestAlertDefaults(t *testing.T) {
	if got := GetHeatThreshold(); got != 10.0 {
		t.Errorf("Expected heat threshold 10.0, got %f", got)
	}
	if got := GetWindowSize(); got != 4 {
		t.Errorf("Expected window size 4, got %d", got)
	}
	if got := GetFavoritesCapacity(); got != 8 {
		t.Errorf("Expected favorites capacity 8, got %d", got)
	}
	if got := GetNotificationStream(); got != "notifications" {
		t.Errorf("Expected stream name notifications, got %s", got)
	}
}

func TestWindowSizeFallback(t *testing.T) {
	viper.Set("alerts.window_hours", -3)
	defer func() {
		viper.Set("alerts.window_hours", 4)
		ReloadConfigForTest()
	}()
	ReloadConfigForTest()
	if got := GetWindowSize(); got != 4 {
		t.Errorf("Expected fallback window size 4, got %d", got)
	}
}

func TestGetRateLimiterCleanupTimeout(t *testing.T) {
	if got := GetRateLimiterCleanupTimeout(); got != 3*time.Minute {
		t.Errorf("Expected cleanup timeout 3m, got %s", got)
	}
}

func TestRateLimiterConfigs(t *testing.T) {
	// config_test.yaml loosens both limiters so functional tests are
	// never throttled.
	rate, burst := GetGlobalRateLimiterConfig()
	if rate != 60000 || burst != 1000 {
		t.Errorf("global limiter = (%f, %d), want (60000, 1000)", rate, burst)
	}
	rate, burst = GetParamRateLimiterConfig()
	if rate != 60000 || burst != 1000 {
		t.Errorf("param limiter = (%f, %d), want (60000, 1000)", rate, burst)
	}
}
