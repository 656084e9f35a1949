package domain

import "fmt"

// Status describes a truck's operating state at an instant.
type Status string

const (
	StatusOpen        Status = "open"
	StatusOpeningSoon Status = "opening_soon"
	StatusClosingSoon Status = "closing_soon"
	StatusClosed      Status = "closed"
	StatusInactive    Status = "inactive"
	StatusUnknown     Status = "unknown"
)

var allStatuses = []Status{
	StatusOpen,
	StatusOpeningSoon,
	StatusClosingSoon,
	StatusClosed,
	StatusInactive,
	StatusUnknown,
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus validates a status name received from a client or a stored payload.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("parse status: unknown status %q", s)
	}
	return st, nil
}
