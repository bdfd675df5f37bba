package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"meteoalerte/internal/favorites"
	"meteoalerte/internal/model"
)

// FavoriteRequest is an explicit user save of a resolved location.
type FavoriteRequest struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type FavoritesHandler struct {
	store *favorites.Store
}

func NewFavoritesHandler(store *favorites.Store) *FavoritesHandler {
	return &FavoritesHandler{store: store}
}

// HandleList returns the favorites, most-recent-first.
func (h *FavoritesHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.store.List(),
		Message: "Success",
	})
}

// HandleSave saves a favorite. Saving an existing name is a no-op, so
// the response is 200 either way.
func (h *FavoritesHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.store.Save(r.Context(), model.Location{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.store.List(),
		Message: "Success",
	})
}

// HandleRemove removes the favorite named in the URL.
func (h *FavoritesHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		writeError(w, model.ValidationError(model.ErrCodeValidationBadRequest, "missing favorite name"))
		return
	}

	h.store.Remove(r.Context(), name)

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.store.List(),
		Message: "Success",
	})
}
