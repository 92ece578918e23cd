package booking

import (
	"errors"
	"strings"
)

var (
	ErrUnknownStatus = errors.New("unknown booking status")
	ErrNotManual     = errors.New("status cannot be set manually")
)

// Status is either a DerivedState computed from payment and date facts or a
// ManualState set by an operator. Manual states are never overwritten by the
// resolver.
type Status interface {
	Code() int
	String() string
	IsManual() bool
	sealed()
}

type DerivedState int

const (
	StatusPending    DerivedState = 1
	StatusConfirmed  DerivedState = 2
	StatusInProgress DerivedState = 3
	StatusCompleted  DerivedState = 4
	StatusUnpaid     DerivedState = 5
)

type ManualState int

const (
	StatusCanceled ManualState = 6
	StatusArchived ManualState = 7
	StatusDraft    ManualState = 8
)

var statusNames = map[int]string{
	1: "pending",
	2: "confirmed",
	3: "in_progress",
	4: "completed",
	5: "unpaid",
	6: "canceled",
	7: "archived",
	8: "draft",
}

func (s DerivedState) Code() int      { return int(s) }
func (s DerivedState) String() string { return statusNames[int(s)] }
func (s DerivedState) IsManual() bool { return false }
func (DerivedState) sealed()          {}

func (s ManualState) Code() int      { return int(s) }
func (s ManualState) String() string { return statusNames[int(s)] }
func (s ManualState) IsManual() bool { return true }
func (ManualState) sealed()          {}

func FromCode(code int) (Status, error) {
	switch {
	case code >= int(StatusPending) && code <= int(StatusUnpaid):
		return DerivedState(code), nil
	case code >= int(StatusCanceled) && code <= int(StatusDraft):
		return ManualState(code), nil
	default:
		return nil, ErrUnknownStatus
	}
}

func Parse(name string) (Status, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for code, n := range statusNames {
		if n == name {
			return FromCode(code)
		}
	}
	return nil, ErrUnknownStatus
}

// ParseManual accepts only operator-settable states.
func ParseManual(name string) (ManualState, error) {
	s, err := Parse(name)
	if err != nil {
		return 0, err
	}
	m, ok := s.(ManualState)
	if !ok {
		return 0, ErrNotManual
	}
	return m, nil
}

// IsCounting reports whether a booking in status s holds resources. Canceled
// and archived bookings release theirs; drafts still count.
func IsCounting(s Status) bool {
	m, ok := s.(ManualState)
	if !ok {
		return true
	}
	return m != StatusCanceled && m != StatusArchived
}
