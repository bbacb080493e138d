package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/catalog"
	"datagov/internal/lineage"
	"datagov/pkg/requestcontext"
)

type catalogResponse struct {
	Assets []catalog.Asset `json:"assets"`
}

type lineageResponse struct {
	Records []lineage.Record `json:"records"`
}

func (h *Handler) handleListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	assets, err := h.catalog.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "catalog list failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, err)
		return
	}
	if assets == nil {
		assets = []catalog.Asset{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{Assets: assets})
}

func (h *Handler) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	asset, err := h.catalog.Get(ctx, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// handleListLineage returns lineage records, optionally filtered with the
// dataset query parameter.
func (h *Handler) handleListLineage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		records []lineage.Record
		err     error
	)
	if dataset := r.URL.Query().Get("dataset"); dataset != "" {
		records, err = h.lineage.ListByDataset(ctx, dataset)
	} else {
		records, err = h.lineage.List(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "lineage list failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, err)
		return
	}
	if records == nil {
		records = []lineage.Record{}
	}
	writeJSON(w, http.StatusOK, lineageResponse{Records: records})
}
