package monitor

import "time"

// Snapshot is one observation of dependency health. PendingReports counts
// crowd reports held in the local buffer awaiting replay.
type Snapshot struct {
	Datastore      bool      `json:"datastore"`
	SessionCache   bool      `json:"session_cache"`
	ReportBuffer   bool      `json:"report_buffer"`
	PendingReports int       `json:"pending_reports"`
	CheckedAt      time.Time `json:"checked_at"`
}

// Healthy reports whether the service can fully serve traffic.
func (s Snapshot) Healthy() bool {
	return s.Datastore && s.SessionCache
}
