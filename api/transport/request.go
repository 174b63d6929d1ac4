package transport

// SignupRequest carries the account creation payload.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest carries the credential payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LocationUpdateRequest carries the device coordinates. Pointers
// distinguish "absent" from zero: a missing or non-numeric value arrives as
// nil and means the position is unavailable.
type LocationUpdateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ReportRequest carries the crowd level the user picked on the prompt.
type ReportRequest struct {
	Status string `json:"status"`
}
