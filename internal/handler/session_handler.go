package handler

import (
	"net/http"

	"meteoalerte/internal/model"
	"meteoalerte/internal/session"
)

// ThemeRequest is an explicit theme toggle.
type ThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

// OnlineRequest is a platform connectivity-change signal.
type OnlineRequest struct {
	Online *bool `json:"online" validate:"required"`
}

type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// HandleState returns the session snapshot.
func (h *SessionHandler) HandleState(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.manager.State(),
		Message: "Success",
	})
}

// HandleTheme applies and persists a theme toggle.
func (h *SessionHandler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.manager.SetTheme(r.Context(), session.Theme(req.Theme)); err != nil {
		writeError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.manager.State(),
		Message: "Success",
	})
}

// HandleOnline records a connectivity change.
func (h *SessionHandler) HandleOnline(w http.ResponseWriter, r *http.Request) {
	var req OnlineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.manager.SetOnline(*req.Online)

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.manager.State(),
		Message: "Success",
	})
}

// HandlePermissionRequest runs an explicit notification permission
// request. This is the only path that may trigger a platform prompt.
func (h *SessionHandler) HandlePermissionRequest(w http.ResponseWriter, r *http.Request) {
	state, err := h.manager.RequestPermission(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    map[string]interface{}{"notification_permission": state},
		Message: "Success",
	})
}
