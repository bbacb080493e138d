package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datagov/internal/quality"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/requestcontext"
	"datagov/pkg/tabular"
)

type validateRequest struct {
	Rows []map[string]tabular.Value `json:"rows"`
}

type validateResponse struct {
	Dataset string          `json:"dataset"`
	Issues  []quality.Issue `json:"issues"`
}

// handleValidate runs the configured quality rules for one dataset against
// rows supplied by the caller. The caller's role must hold read access to
// the dataset, same as a pipeline run would require.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dataset := chi.URLParam(r, "dataset")

	role := requestcontext.Role(ctx)
	if !h.controller.Check(role, dataset, "read") {
		writeError(w, dErrors.Newf(dErrors.CodeForbidden,
			"role %q has no read access to dataset %q", role, dataset))
		return
	}

	validator := h.pipeline.Validator()
	if validator == nil {
		writeError(w, dErrors.New(dErrors.CodeConfig, "quality rules not loaded"))
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	table := tableFromRows(req.Rows)
	issues, err := validator.Validate(ctx, dataset, table)
	if err != nil {
		h.logger.ErrorContext(ctx, "validation failed",
			"dataset", dataset,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, err)
		return
	}
	if issues == nil {
		issues = []quality.Issue{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Dataset: dataset, Issues: issues})
}

// tableFromRows builds a table from decoded JSON rows, collecting columns in
// first-seen order.
func tableFromRows(rows []map[string]tabular.Value) tabular.Table {
	var columns []string
	seen := make(map[string]bool)
	out := make([]tabular.Row, 0, len(rows))
	for _, raw := range rows {
		row := make(tabular.Row, len(raw))
		for col, val := range raw {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
			row[col] = val
		}
		out = append(out, row)
	}
	return tabular.Table{Columns: columns, Rows: out}
}
