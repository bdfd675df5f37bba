package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		_ = godotenv.Load()

		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error reading test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetGeocodingAPIURL() string {
	initConfig()
	return viper.GetString("geocoding.api_url")
}

func GetForecastAPIURL() string {
	initConfig()
	return viper.GetString("openmeteo.api_url")
}

func GetRedisAddr() string {
	initConfig()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return viper.GetString("redis.addr")
}

func GetServerPort() string {
	initConfig()
	serverPort := viper.GetString("server.port")
	if serverPort == "" {
		serverPort = "8080"
	}
	return serverPort
}

func GetServerTimeout(key string) string {
	initConfig()
	return viper.GetString("server." + key)
}

// GetForecastCacheTTL returns how long fetched forecasts are cached.
// Defaults to 10m if not set or invalid.
func GetForecastCacheTTL() time.Duration {
	initConfig()
	durStr := viper.GetString("cache.expiration")
	if durStr == "" {
		durStr = "10m"
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return 10 * time.Minute
	}
	return dur
}

// GetHeatThreshold returns the temperature above which a heat alert fires.
func GetHeatThreshold() float64 {
	initConfig()
	if !viper.IsSet("alerts.heat_threshold") {
		return 10.0
	}
	return viper.GetFloat64("alerts.heat_threshold")
}

// GetWindowSize returns how many forward-looking hourly slices are evaluated.
func GetWindowSize() int {
	initConfig()
	n := viper.GetInt("alerts.window_hours")
	if n <= 0 {
		n = 4
	}
	return n
}

// GetFavoritesCapacity returns the maximum number of saved favorite locations.
func GetFavoritesCapacity() int {
	initConfig()
	n := viper.GetInt("favorites.capacity")
	if n <= 0 {
		n = 8
	}
	return n
}

// GetNotificationStream returns the redis stream name used by the
// background notification channel.
func GetNotificationStream() string {
	initConfig()
	stream := viper.GetString("notifications.stream")
	if stream == "" {
		stream = "notifications"
	}
	return stream
}

// GetPlatformPermission returns the configured notification permission
// answer ("unsupported", "prompt", "granted" or "denied").
func GetPlatformPermission() string {
	initConfig()
	return viper.GetString("platform.notification_permission")
}

// GetPlatformGrantOnRequest returns how the platform answers a prompt.
func GetPlatformGrantOnRequest() bool {
	initConfig()
	return viper.GetBool("platform.grant_on_request")
}

// GetPlatformPrefersDark returns the platform dark-mode preference.
func GetPlatformPrefersDark() bool {
	initConfig()
	return viper.GetBool("platform.prefers_dark")
}

// GetPlatformOnline returns startup connectivity. Defaults to online.
func GetPlatformOnline() bool {
	initConfig()
	if !viper.IsSet("platform.online") {
		return true
	}
	return viper.GetBool("platform.online")
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	durStr := viper.GetString("rate_limiter.cleanup_timeout")
	if durStr == "" {
		durStr = "3m"
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return 3 * time.Minute
	}
	return dur
}

// GetGlobalRateLimiterConfig returns the rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}
