package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"autobooks/src/models"
	"autobooks/src/utils"
	"autobooks/src/worker/controllers"
)

type Handler struct {
	Controller *controllers.Controller
}

func NewHandler(controller *controllers.Controller) *Handler {
	return &Handler{Controller: controller}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

// HandleErrors reports run failures; a cancelled run is a timeout.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var (
		httpErr       *utils.HTTPError
		validationErr *models.ValidationError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	case errors.As(err, &validationErr):
		h.respond(w, nil, map[string]string{"error": validationErr.Error()}, http.StatusBadRequest)
	case errors.As(err, &httpErr):
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	case err != nil:
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	default:
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}
