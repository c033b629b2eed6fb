package booking

import (
	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

// Overlaps reports whether the half-open intervals [aFrom, aTo) and
// [bFrom, bTo) share any instant. Touching endpoints do not overlap.
func Overlaps(aFrom, aTo, bFrom, bTo int64) bool {
	return aFrom < bTo && bFrom < aTo
}

// FindConflict returns the first active booking of hostID overlapping
// [from, to). Bookings of other hosts and cancelled or rejected bookings
// never conflict.
func FindConflict(existing []domain.Booking, hostID string, from, to int64) (domain.Booking, bool) {
	for _, b := range existing {
		if b.HostID != hostID || !b.Status.Active() {
			continue
		}
		if Overlaps(from, to, b.From, b.To) {
			return b, true
		}
	}
	return domain.Booking{}, false
}

// HasConflict reports whether [from, to) collides with an active booking of hostID.
func HasConflict(existing []domain.Booking, hostID string, from, to int64) bool {
	_, found := FindConflict(existing, hostID, from, to)
	return found
}

// CheckConflict is HasConflict in error form: nil when the interval is free,
// a Conflict error otherwise.
func CheckConflict(existing []domain.Booking, hostID string, from, to int64) error {
	if _, found := FindConflict(existing, hostID, from, to); found {
		return entitystore.Conflict("host", hostID, "dates are not available, please select a different range")
	}
	return nil
}
