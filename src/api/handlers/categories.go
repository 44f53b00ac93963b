package handlers

import (
	"net/http"
)

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	tree, err := h.Categories.ListCategoriesForWorkspace(ctx, sc, r.URL.Query().Get("workspace_id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, tree, http.StatusOK)
}
