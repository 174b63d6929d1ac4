package domain

// Status is the closed crowd-level vocabulary for a study spot.
type Status string

const (
	StatusNotBusy        Status = "Not Busy"
	StatusModeratelyBusy Status = "Moderately Busy"
	StatusBusy           Status = "Busy"
	StatusNoRecentData   Status = "No Recent Data"
)

// Reportable reports whether users may submit this value. "No Recent Data"
// is derived, never reported.
func (s Status) Reportable() bool {
	switch s {
	case StatusNotBusy, StatusModeratelyBusy, StatusBusy:
		return true
	}
	return false
}

// ParseStatus validates a user-submitted crowd level.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Reportable() {
		return "", NewError(ErrCodeInvalid, "unknown crowd status")
	}
	return s, nil
}
