package lineage

import (
	"time"

	"github.com/google/uuid"
)

// Record traces how one derived dataset was produced: its input datasets,
// the transformation applied, and who ran it. Records are append-only.
type Record struct {
	ID             uuid.UUID `json:"id"`
	Dataset        string    `json:"dataset"`
	Sources        []string  `json:"sources"`
	Transformation string    `json:"transformation"`
	ExecutedBy     string    `json:"executed_by"`
	Timestamp      time.Time `json:"timestamp"`
	Notes          string    `json:"notes,omitempty"`
}
