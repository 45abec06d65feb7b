package common

import "strings"

// Status is the result of a path query. High bits carry success or failure, low bits
// carry detail.
type Status uint32

const (
	// High level status.
	StatusFailure Status = 1 << 31 // Operation failed.
	StatusSuccess Status = 1 << 30 // Operation succeed.

	// Detail information for status.
	StatusDetailMask     Status = 0x0ffffff
	StatusInvalidParam   Status = 1 << 3 // An input parameter was invalid (out of range, off mesh).
	StatusPartialResult  Status = 1 << 6 // Query did not reach the goal, returning best guess.
	StatusBudgetExceeded Status = 1 << 8 // Distance threshold or iteration cap hit.
	StatusUnreachable    Status = 1 << 9 // The open set ran dry before the goal.
	StatusCanceled       Status = 1 << 10
)

// Returns true of status is success.
func (s Status) Succeeded() bool {
	return s&StatusSuccess != 0
}

// Returns true of status is failure.
func (s Status) Failed() bool {
	return s&StatusFailure != 0
}

// Returns true if specific detail is set.
func (s Status) Detail(detail Status) bool {
	return s&detail&StatusDetailMask != 0
}

// Outcome disambiguates what an empty or short path means.
type Outcome int

const (
	Complete Outcome = iota
	Partial
	Unreachable
	InvalidInput
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Complete:
		return "complete"
	case Partial:
		return "partial"
	case Unreachable:
		return "unreachable"
	case InvalidInput:
		return "invalid-input"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}

func (s Status) Outcome() Outcome {
	switch {
	case s.Detail(StatusCanceled):
		return Canceled
	case s.Detail(StatusInvalidParam):
		return InvalidInput
	case s.Failed(), s.Detail(StatusUnreachable):
		return Unreachable
	case s.Detail(StatusPartialResult):
		return Partial
	}
	return Complete
}

func (s Status) String() string {
	var parts []string
	if s.Succeeded() {
		parts = append(parts, "success")
	}
	if s.Failed() {
		parts = append(parts, "failure")
	}
	for _, d := range []struct {
		bit  Status
		name string
	}{
		{StatusInvalidParam, "invalid-param"},
		{StatusPartialResult, "partial"},
		{StatusBudgetExceeded, "budget-exceeded"},
		{StatusUnreachable, "unreachable"},
		{StatusCanceled, "canceled"},
	} {
		if s.Detail(d.bit) {
			parts = append(parts, d.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
