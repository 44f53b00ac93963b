package handlers

import (
	"context"
	"net/http"
	"time"

	"autobooks/src/utils"
)

// RunDepreciation triggers a depreciation run for the month of ?date=, today by default.
func (h *Handler) RunDepreciation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	asOf, err := utils.ParseDateParam(r.URL.Query().Get("date"), time.Now().UTC())
	if err != nil {
		h.HandleErrors(w, utils.BadRequest(err.Error()))
		return
	}

	result, err := h.Controller.RunDepreciation(ctx, asOf)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, result, http.StatusOK)
}

// GetSchedules lists the scheduled tasks with their next activation.
func (h *Handler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	schedules := map[string]string{}
	for name, task := range h.Controller.GetSchedulers() {
		schedules[name] = task.Next().Format(time.RFC3339)
	}
	h.respond(w, r, schedules, http.StatusOK)
}
