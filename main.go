package main

import (
	"context"
	"net/http"
	"time"

	"meteoalerte/internal/config"
	"meteoalerte/internal/favorites"
	"meteoalerte/internal/handler"
	"meteoalerte/internal/middleware"
	"meteoalerte/internal/notify"
	"meteoalerte/internal/platform"
	"meteoalerte/internal/redis"
	"meteoalerte/internal/repository"
	"meteoalerte/internal/service"
	"meteoalerte/internal/session"
)

func main() {
	log := config.GetLogger()
	ctx := context.Background()

	rdb := redis.GetClient()
	plat := platform.New()

	perms := notify.NewPermissionManager(ctx, plat)
	directSink := notify.NewDirectSink()
	streamSink := notify.NewStreamSink(rdb, config.GetNotificationStream())
	dispatcher := notify.NewDispatcher(perms, streamSink, directSink, log)

	favStore := favorites.NewStore(ctx, rdb, config.GetFavoritesCapacity(), log)
	sess := session.NewManager(ctx, rdb, plat, perms, log)

	searchService := service.NewSearchService(
		repository.NewGeocodingRepository(),
		repository.NewForecastRepository(),
		dispatcher,
		config.GetHeatThreshold(),
		config.GetWindowSize(),
		log,
	)

	middleware.StartRateLimiterCleanup()

	router := handler.NewRouter(handler.Deps{
		Search:        handler.NewSearchHandler(searchService),
		Favorites:     handler.NewFavoritesHandler(favStore),
		Session:       handler.NewSessionHandler(sess),
		Notifications: handler.NewNotificationsHandler(directSink),
	})

	port := config.GetServerPort()
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: serverTimeout("read_header_timeout", 15*time.Second),
		ReadTimeout:       serverTimeout("read_timeout", 15*time.Second),
		WriteTimeout:      serverTimeout("write_timeout", 10*time.Second),
		IdleTimeout:       serverTimeout("idle_timeout", 30*time.Second),
	}

	log.Infow("meteoalerte server running", "port", port)
	log.Fatal(srv.ListenAndServe())
}

func serverTimeout(key string, fallback time.Duration) time.Duration {
	dur, err := time.ParseDuration(config.GetServerTimeout(key))
	if err != nil {
		return fallback
	}
	return dur
}
