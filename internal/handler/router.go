package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meteoalerte/internal/middleware"
)

// Deps bundles what the router needs.
type Deps struct {
	Search        *SearchHandler
	Favorites     *FavoritesHandler
	Session       *SessionHandler
	Notifications *NotificationsHandler
}

// NewRouter mounts the full HTTP surface.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", d.Search.HandleSearch)
		r.Get("/weather", d.Search.HandleWeather)

		r.Get("/favorites", d.Favorites.HandleList)
		r.Post("/favorites", d.Favorites.HandleSave)
		r.Delete("/favorites/{name}", d.Favorites.HandleRemove)

		r.Get("/session", d.Session.HandleState)
		r.Put("/session/theme", d.Session.HandleTheme)
		r.Put("/session/online", d.Session.HandleOnline)
		r.Post("/session/permission", d.Session.HandlePermissionRequest)

		r.Get("/notifications", d.Notifications.HandleList)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
