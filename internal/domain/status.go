package domain

import "fmt"

// BookingStatus is the lifecycle state of a booking.
//
//	pending ──confirm──▶ confirmed
//	   │                    │
//	   ├──reject──▶ rejected│
//	   └──cancel──▶ cancelled ◀──cancel──┘
//
// Cancelled and rejected are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
)

// Validate checks if the BookingStatus is a valid enum value.
func (s BookingStatus) Validate() error {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingRejected:
		return nil
	default:
		return fmt.Errorf("unknown booking status: %q", s)
	}
}

// Active reports whether a booking in this status occupies the host.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// Terminal reports whether no further transitions are possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingRejected
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingRejected},
	BookingConfirmed: {BookingCancelled},
}

// CanTransition reports whether a booking may move from s to next.
// Staying in the same status is always allowed.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
