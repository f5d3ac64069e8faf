package enums

import (
	"fmt"
	"strings"
)

// CanvassStatus is the lifecycle status of a canvass request.
type CanvassStatus string

const (
	CanvassStatusPending     CanvassStatus = "PENDING"
	CanvassStatusUnderReview CanvassStatus = "UNDER_REVIEW"
	CanvassStatusQuoted      CanvassStatus = "QUOTED"
	CanvassStatusApproved    CanvassStatus = "APPROVED"
	CanvassStatusRejected    CanvassStatus = "REJECTED"
)

var validCanvassStatuses = []CanvassStatus{
	CanvassStatusPending,
	CanvassStatusUnderReview,
	CanvassStatusQuoted,
	CanvassStatusApproved,
	CanvassStatusRejected,
}

// CanvassStatuses returns the allowed values in workflow order.
func CanvassStatuses() []CanvassStatus {
	out := make([]CanvassStatus, len(validCanvassStatuses))
	copy(out, validCanvassStatuses)
	return out
}

// String implements fmt.Stringer.
func (s CanvassStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known CanvassStatus.
func (s CanvassStatus) IsValid() bool {
	for _, candidate := range validCanvassStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCanvassStatus converts raw input into a CanvassStatus. Matching is
// exact apart from surrounding whitespace.
func ParseCanvassStatus(value string) (CanvassStatus, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validCanvassStatuses {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid canvass status %q", value)
}
