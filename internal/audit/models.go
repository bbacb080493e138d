package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event captures one governance-relevant action: a pipeline run starting or
// finishing, an access decision, a quality issue, a lineage write. Events
// are append-only and transport-agnostic so stores and brokers can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Role      string    `json:"role,omitempty"`
	Action    string    `json:"action"`
	Dataset   string    `json:"dataset,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions emitted by the pipeline.
const (
	ActionRunStarted    = "pipeline_run_started"
	ActionRunFinished   = "pipeline_run_finished"
	ActionRunFailed     = "pipeline_run_failed"
	ActionAccessGranted = "dataset_access_granted"
	ActionAccessDenied  = "dataset_access_denied"
	ActionQualityIssue  = "quality_issue_found"
	ActionLineageAdded  = "lineage_recorded"
)
