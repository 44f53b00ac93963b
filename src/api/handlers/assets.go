package handlers

import (
	"net/http"

	"autobooks/src/schemas"
)

func (h *Handler) GetAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	assets, err := h.Assets.ListAssets(ctx, sc, r.URL.Query().Get("workspace_id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, assets, http.StatusOK)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	asset, err := h.Assets.GetAsset(ctx, sc, r.URL.Query().Get("id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, asset, http.StatusOK)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.CreateAssetRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	asset, err := h.Assets.CreateAsset(ctx, sc, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, asset, http.StatusCreated)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.UpdateAssetRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	asset, err := h.Assets.UpdateAsset(ctx, sc, &req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, asset, http.StatusOK)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	var req schemas.DeleteAssetRequest
	if err := h.decode(r, &req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	if err := h.Assets.DeleteAsset(ctx, sc, req.ID); err != nil {
		h.HandleErrors(w, err)
		return
	}

	h.respond(w, r, schemas.DeleteAssetResponse{Success: true, ID: req.ID}, http.StatusOK)
}
