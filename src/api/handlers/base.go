package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"autobooks/src/api/graph"
	"autobooks/src/auth"
	"autobooks/src/models"
	"autobooks/src/repositories"
	"autobooks/src/services"
	"autobooks/src/utils"
)

type Handler struct {
	Categories services.CategoryServiceI
	Assets     services.AssetServiceI
	Valuation  services.ValuationServiceI
	Register   services.RegisterServiceI
	Graph      *graph.Schema
	Timeout    time.Duration
}

func NewHandler(
	categories services.CategoryServiceI,
	assets services.AssetServiceI,
	valuation services.ValuationServiceI,
	register services.RegisterServiceI,
	timeout time.Duration,
) (*Handler, error) {
	schema, err := graph.NewSchema(&graph.Resolver{
		Categories: categories,
		Assets:     assets,
		Valuation:  valuation,
	})
	if err != nil {
		return nil, err
	}
	return &Handler{
		Categories: categories,
		Assets:     assets,
		Valuation:  valuation,
		Register:   register,
		Graph:      schema,
		Timeout:    timeout,
	}, nil
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

// HandleErrors maps domain errors onto {"error": message} responses.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var (
		httpErr       *utils.HTTPError
		validationErr *models.ValidationError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		h.respond(w, nil, map[string]string{"error": "Request timed out"}, http.StatusGatewayTimeout)
	case errors.As(err, &validationErr):
		h.respond(w, nil, map[string]string{"error": validationErr.Error()}, http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusNotFound)
	case errors.As(err, &httpErr):
		h.respond(w, nil, map[string]string{"error": httpErr.Message}, httpErr.Code)
	case err != nil:
		h.respond(w, nil, map[string]string{"error": err.Error()}, http.StatusInternalServerError)
	default:
		h.respond(w, nil, map[string]string{"error": "Unhandled error"}, http.StatusInternalServerError)
	}
}

// context derives the request context bounded by the handler timeout.
func (h *Handler) context(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func (h *Handler) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return utils.BadRequest("Invalid JSON body: " + err.Error())
	}
	return nil
}

// scope returns the tenant scope of the authenticated caller.
func scope(r *http.Request) (repositories.Scope, error) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		return repositories.Scope{}, utils.Unauthorized(auth.ErrUnauthorized.Error())
	}
	return repositories.UserScope(session.UserID), nil
}

// NotFound answers unmatched routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	utils.WriteError(w, utils.NotFound("Not found"))
}
