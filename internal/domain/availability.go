package domain

import "time"

// AvailabilityStatus is the tri-state health of the remote generator.
type AvailabilityStatus string

const (
	StatusUnknown   AvailabilityStatus = "unknown"
	StatusConnected AvailabilityStatus = "connected"
	StatusError     AvailabilityStatus = "error"
)

// ConnectionLabel maps the status to the short label mirrored for status
// badges: "loading" while unknown, otherwise the status itself.
func (s AvailabilityStatus) ConnectionLabel() string {
	switch s {
	case StatusConnected:
		return "connected"
	case StatusError:
		return "error"
	default:
		return "loading"
	}
}

// AvailabilityRecord is the latest known reachability of the remote
// generator. A Connected record always carries LastSuccessAt equal to
// LastCheckedAt at the moment of the transition.
type AvailabilityRecord struct {
	Status        AvailabilityStatus `json:"status"`
	LastCheckedAt time.Time          `json:"last_checked_at"`
	LastSuccessAt *time.Time         `json:"last_success_at,omitempty"`
	ErrorDetail   string             `json:"error_detail,omitempty"`
}
