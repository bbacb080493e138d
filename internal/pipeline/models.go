package pipeline

import (
	"time"

	"datagov/internal/access"
	"datagov/internal/catalog"
	"datagov/internal/lineage"
	"datagov/internal/policy"
	"datagov/internal/quality"
)

// Report is the auditable summary of one pipeline run. It is what gets
// serialized to the logs directory and returned over the API.
type Report struct {
	RunID          string                       `json:"run_id"`
	ExecutedBy     string                       `json:"executed_by"`
	StartedAt      time.Time                    `json:"started_at"`
	FinishedAt     time.Time                    `json:"finished_at"`
	Regulations    map[string]policy.Regulation `json:"regulations"`
	Catalog        []catalog.Asset              `json:"catalog"`
	AccessPolicies []access.Policy              `json:"access_policies"`
	QualityIssues  []quality.Issue              `json:"quality_issues"`
	Lineage        []lineage.Record             `json:"lineage"`
}
