// Package handler is the HTTP surface of the engine. Handlers decode
// and validate requests, delegate to the engine packages and wrap the
// results in the shared response envelope.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"meteoalerte/internal/config"
	"meteoalerte/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

// writeError maps an error onto the envelope. AppErrors carry their own
// status; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	if appErr, ok := model.AsAppError(err); ok {
		status = appErr.Code.HTTPStatus()
		msg = appErr.Message
	}
	writeJSONResponse(w, status, model.Response{
		Error:   &msg,
		Message: "Error",
	})
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, model.ValidationError(model.ErrCodeValidationBadRequest, "invalid request body"))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, model.ValidationError(model.ErrCodeValidationBadRequest, err.Error()))
		return false
	}
	return true
}
