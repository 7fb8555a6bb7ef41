package progress

import "time"

// ProgressStatus is the lifecycle state of a refinement run.
type ProgressStatus string

const (
	ProgressStatusIdle      ProgressStatus = "IDLE"
	ProgressStatusRunning   ProgressStatus = "RUNNING"
	ProgressStatusComplete  ProgressStatus = "COMPLETE"
	ProgressStatusError     ProgressStatus = "ERROR"
	ProgressStatusCancelled ProgressStatus = "CANCELLED"
)

// ProgressInfo is a point-in-time snapshot of a run.
type ProgressInfo struct {
	Status         ProgressStatus `json:"status"`
	Processed      int64          `json:"processed"`
	Kept           int64          `json:"kept"`
	Invalid        int64          `json:"invalid"`
	Duplicate      int64          `json:"duplicate"`
	Stage          string         `json:"stage"`
	Message        string         `json:"message"`
	StartTime      time.Time      `json:"start_time"`
	LastUpdateTime time.Time      `json:"last_update_time"`
}

// Elapsed is the time from the first processed line to the last update.
func (pi *ProgressInfo) Elapsed() time.Duration {
	if pi.StartTime.IsZero() || pi.LastUpdateTime.Before(pi.StartTime) {
		return 0
	}
	return pi.LastUpdateTime.Sub(pi.StartTime)
}

// Rate returns processed lines per second.
func (pi *ProgressInfo) Rate() float64 {
	elapsed := pi.Elapsed()
	if pi.Processed <= 0 || elapsed <= 0 {
		return 0
	}
	return float64(pi.Processed) / elapsed.Seconds()
}

// GetKeptPercentage is the share of processed lines that were kept.
func (pi *ProgressInfo) GetKeptPercentage() float64 {
	if pi.Processed <= 0 {
		return 0.0
	}
	return float64(pi.Kept) * 100 / float64(pi.Processed)
}
