package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// NewRunID returns "<yyyymmdd-hhmmss>-<8 hex chars>", sortable by start time
// and unique across runs started within the same second.
func NewRunID(start time.Time) string {
	return start.Format("20060102-150405") + "-" + uuid.NewString()[:8]
}
