package handlers

import (
	"net/http"

	"autobooks/src/schemas"
)

// GraphQL executes a query against the same services as the REST routes.
// Resolver errors travel in the response envelope with status 200.
func (h *Handler) GraphQL(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	var req schemas.GraphQLRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	result := h.Graph.Execute(ctx, req)
	h.respond(w, r, result, http.StatusOK)
}
