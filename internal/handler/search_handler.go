package handler

import (
	"net/http"

	"meteoalerte/internal/middleware"
	"meteoalerte/internal/model"
	"meteoalerte/internal/service"
)

// SearchRequest carries either free text or a favorite picked by the
// user. Exactly one of the two drives resolution; the favorite wins when
// both are present.
type SearchRequest struct {
	Query    string          `json:"query"`
	Favorite *model.Location `json:"favorite,omitempty" validate:"omitempty"`
}

type SearchHandler struct {
	service *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

// HandleSearch runs one end-to-end lookup and returns the display state.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	limiterKey := req.Query
	if req.Favorite != nil {
		limiterKey = req.Favorite.Name
	}
	if !middleware.AllowSearch(middleware.GetIP(r), limiterKey) {
		errMsg := "Rate limit exceeded for this place, retry in a minute"
		writeJSONResponse(w, http.StatusTooManyRequests, model.Response{
			Error:   &errMsg,
			Message: "Too Many Requests",
		})
		return
	}

	state, err := h.service.Search(r.Context(), service.SearchInput{
		Query:    req.Query,
		Favorite: req.Favorite,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    state,
		Message: "Success",
	})
}

// HandleWeather returns the current display state without triggering a
// new fetch.
func (h *SearchHandler) HandleWeather(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.service.State(),
		Message: "Success",
	})
}
