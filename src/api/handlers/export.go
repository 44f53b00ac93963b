package handlers

import (
	"fmt"
	"net/http"
	"time"

	"autobooks/src/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAssets streams the asset register of a workspace as an XLSX file.
func (h *Handler) ExportAssets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.context(r)
	defer cancel()

	sc, err := scope(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	f, err := h.Register.BuildAssetRegister(ctx, sc, r.URL.Query().Get("workspace_id"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("asset-register-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	// Headers are already sent; a failed write can only be logged.
	if _, err := f.WriteTo(w); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).Error("asset register write failed")
	}
}
