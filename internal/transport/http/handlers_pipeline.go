package httptransport

import (
	"context"
	"encoding/json"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"datagov/internal/pipeline"
	"datagov/internal/platform/config"
	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/requestcontext"
)

const reportCacheKey = "datagov:pipeline:latest"

// handleRunPipeline executes one governed pipeline pass and returns its
// report. The run is attributed to the authenticated actor.
func (h *Handler) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.pipeline.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "pipeline run failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		writeError(w, err)
		return
	}

	h.storeLatest(ctx, report)
	writeJSON(w, http.StatusCreated, report)
}

// handleLatestReport serves the most recent run report, from the shared
// cache when one is configured, otherwise from process memory.
func (h *Handler) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		payload, err := h.cache.Get(ctx, reportCacheKey).Bytes()
		if err == nil {
			var report pipeline.Report
			if err := json.Unmarshal(payload, &report); err == nil {
				writeJSON(w, http.StatusOK, &report)
				return
			}
		} else if err != goredis.Nil {
			h.logger.WarnContext(ctx, "report cache read failed", "error", err.Error())
		}
	}

	h.mu.RLock()
	report := h.lastReport
	h.mu.RUnlock()
	if report == nil {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "no pipeline run recorded yet"))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) storeLatest(ctx context.Context, report *pipeline.Report) {
	h.mu.Lock()
	h.lastReport = report
	h.mu.Unlock()

	if h.cache == nil {
		return
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, reportCacheKey, payload, config.ReportCacheTTL).Err(); err != nil {
		h.logger.WarnContext(ctx, "report cache write failed", "error", err.Error())
	}
}
