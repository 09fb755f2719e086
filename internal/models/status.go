package models

import "fmt"

// Status is the lifecycle state of a coupon.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusDeleted Status = "DELETED"
)

// ParseStatus converts a persisted status value back into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid coupon status: %q", s)
	}
	return status, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDeleted:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }
