// Package search ranks hosts for a stay.
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/dyluth/dogroom/internal/booking"
	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/internal/entities"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

// MaxResults caps the number of previews a search returns.
const MaxResults = 20

// Query filters hosts. Zero fields do not filter. From and To, when given,
// drop hosts with an active booking overlapping [From, To).
type Query struct {
	PetSize domain.PetSize `json:"petSize,omitempty"`
	From    int64          `json:"from,omitempty"`
	To      int64          `json:"to,omitempty"`
}

// Validate checks if the Query has valid field values.
func (q Query) Validate() error {
	if q.PetSize != "" {
		if err := q.PetSize.Validate(); err != nil {
			return err
		}
	}
	if (q.From != 0 || q.To != 0) && q.From >= q.To {
		return fmt.Errorf("invalid interval: from (%d) must be before to (%d)", q.From, q.To)
	}
	return nil
}

// Score ranks a host: rating dominates, reviews break ties.
func Score(h domain.Host) float64 {
	return h.Rating*100 + float64(h.ReviewsCount)
}

// Hosts returns up to MaxResults previews of matching hosts, best score first.
// Hosts with equal scores keep index order.
func Hosts(ctx context.Context, store *entities.Store, q Query) ([]domain.HostPreview, error) {
	if err := q.Validate(); err != nil {
		return nil, entitystore.InvalidArgument("search", err.Error())
	}

	hosts, err := store.Hosts.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load hosts: %w", err)
	}

	var bookings []domain.Booking
	checkDates := q.From != 0 || q.To != 0
	if checkDates {
		bookings, err = store.Bookings.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
	}

	previews := make([]domain.HostPreview, 0, len(hosts))
	for _, h := range hosts {
		if q.PetSize != "" && !h.Accepts(q.PetSize) {
			continue
		}
		if checkDates && booking.HasConflict(bookings, h.ID, q.From, q.To) {
			continue
		}
		p := h.Preview()
		p.Score = Score(h)
		previews = append(previews, p)
	}

	sort.SliceStable(previews, func(i, j int) bool {
		return previews[i].Score > previews[j].Score
	})
	if len(previews) > MaxResults {
		previews = previews[:MaxResults]
	}
	return previews, nil
}
