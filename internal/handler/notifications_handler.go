package handler

import (
	"net/http"

	"meteoalerte/internal/model"
	"meteoalerte/internal/notify"
)

type NotificationsHandler struct {
	sink *notify.DirectSink
}

func NewNotificationsHandler(sink *notify.DirectSink) *NotificationsHandler {
	return &NotificationsHandler{sink: sink}
}

// HandleList returns the foreground notifications, newest first.
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.sink.Active(),
		Message: "Success",
	})
}
