package integrationtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/alicebob/miniredis/v2"

	"meteoalerte/internal/config"
	"meteoalerte/internal/favorites"
	"meteoalerte/internal/handler"
	"meteoalerte/internal/model"
	"meteoalerte/internal/notify"
	"meteoalerte/internal/platform"
	"meteoalerte/internal/redis"
	"meteoalerte/internal/repository"
	"meteoalerte/internal/service"
	"meteoalerte/internal/session"
)

var miniRedisMock *miniredis.Miniredis

func createMockRedisServer() {
	miniRedisMock = miniredis.NewMiniRedis()
	if err := miniRedisMock.StartAddr(":16379"); err != nil {
		panic(err)
	}
}

// mockGeocodingAPI resolves a fixed set of places and returns an empty
// payload for everything else, like the real API does.
func mockGeocodingAPI() *httptest.Server {
	known := map[string]model.GeocodingResult{
		"brest": {Name: "Brest", Admin1: "Bretagne", Country: "France", Latitude: 48.39, Longitude: -4.49},
		"lyon":  {Name: "Lyon", Admin1: "Auvergne-Rhône-Alpes", Country: "France", Latitude: 45.76, Longitude: 4.84},
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		name := strings.ToLower(r.URL.Query().Get("name"))
		result, ok := known[name]
		if !ok {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_ = json.NewEncoder(w).Encode(model.GeocodingResponse{
			Results: []model.GeocodingResult{result},
		})
	}))
}

// mockForecastAPI serves an hourly series anchored to the current hour:
// rain two hours out, a heat spike three hours out.
func mockForecastAPI() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		base := time.Now().UTC().Truncate(time.Hour)
		hourly := model.Hourly{}
		temps := []float64{8.0, 9.0, 9.5, 15.0, 9.0, 8.0}
		codes := []int{1, 2, 61, 1, 2, 3}
		probs := []*int{intp(5), intp(10), intp(80), intp(10), nil, intp(5)}
		for i := range temps {
			hourly.Time = append(hourly.Time, base.Add(time.Duration(i+1)*time.Hour).Format(model.HourTimeLayout))
		}
		hourly.Temperature2m = temps
		hourly.WeatherCode = codes
		hourly.PrecipitationProbability = probs

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.ForecastResponse{
			Timezone: "UTC",
			Current: model.Current{
				Time:          base.Format(model.HourTimeLayout),
				Temperature2m: 8.5,
				WeatherCode:   1,
				WindSpeed10m:  12.0,
			},
			Hourly: hourly,
		})
	}))
}

func intp(v int) *int { return &v }

// setupIntegrationTestServer wires the full engine the way main does and
// serves it from an httptest server.
func setupIntegrationTestServer() (*httptest.Server, *notify.DirectSink) {
	log := config.GetLogger()
	ctx := context.Background()
	rdb := redis.GetClient()

	perms := notify.NewPermissionManager(ctx, platform.New())
	foreground := notify.NewDirectSink()
	background := notify.NewStreamSink(rdb, config.GetNotificationStream())
	dispatcher := notify.NewDispatcher(perms, background, foreground, log)

	store := favorites.NewStore(ctx, rdb, config.GetFavoritesCapacity(), log)
	manager := session.NewManager(ctx, rdb, platform.New(), perms, log)

	searchService := service.NewSearchService(
		repository.NewGeocodingRepository(),
		repository.NewForecastRepository(),
		dispatcher,
		config.GetHeatThreshold(),
		config.GetWindowSize(),
		log,
	)

	router := handler.NewRouter(handler.Deps{
		Search:        handler.NewSearchHandler(searchService),
		Favorites:     handler.NewFavoritesHandler(store),
		Session:       handler.NewSessionHandler(manager),
		Notifications: handler.NewNotificationsHandler(foreground),
	})

	return httptest.NewServer(router), foreground
}
