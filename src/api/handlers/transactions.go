package handlers

import (
	"net/http"

	"autobooks/src/schemas"
)

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.AddTransactionRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	transaction, err := h.Valuation.AddTransaction(ctx, sc, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, transaction, http.StatusCreated)
}
