package quota

import "time"

// Allowance represents a user's plan consumption snapshot.
type Allowance struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}
