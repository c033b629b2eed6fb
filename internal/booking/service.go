// Package booking creates bookings without double-booking a host and moves
// them through their lifecycle.
package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/internal/entities"
	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/google/uuid"
)

// CreateRequest asks for a host over [From, To), in epoch milliseconds.
type CreateRequest struct {
	HostID string `json:"hostId"`
	UserID string `json:"userId"`
	From   int64  `json:"from"`
	To     int64  `json:"to"`
}

// Service implements the booking operations over the entity store.
type Service struct {
	bookings *entitystore.Entity[domain.Booking]
	hosts    *entitystore.Entity[domain.Host]
	locker   entitystore.Locker

	newID func() string
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocker serializes booking creation per host through locker. Without a
// locker two concurrent requests for overlapping dates can both pass the
// conflict check.
func WithLocker(locker entitystore.Locker) Option {
	return func(s *Service) { s.locker = locker }
}

// WithIDGenerator replaces the uuid generator for booking ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithClock replaces the wall clock used for createdAt.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

// NewService creates a booking service over the bookings and hosts of store.
func NewService(store *entities.Store, opts ...Option) *Service {
	s := &Service{
		bookings: store.Bookings,
		hosts:    store.Hosts,
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create books a host for [req.From, req.To). The request is checked before
// any storage access; an unknown host is NotFound and an overlap with an
// active booking of the same host is Conflict. New bookings start pending.
func (s *Service) Create(ctx context.Context, req CreateRequest) (domain.Booking, error) {
	if req.HostID == "" || req.UserID == "" || req.From >= req.To {
		return domain.Booking{}, entitystore.InvalidArgument(entities.BookingEntity,
			"hostId, userId, and a valid date range are required")
	}

	ok, err := s.hosts.Exists(ctx, req.HostID)
	if err != nil {
		return domain.Booking{}, err
	}
	if !ok {
		return domain.Booking{}, entitystore.NotFound(entities.HostEntity, req.HostID)
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, hostLockName(req.HostID))
		if err != nil {
			return domain.Booking{}, fmt.Errorf("failed to lock host %s: %w", req.HostID, err)
		}
		defer unlock()
	}

	existing, err := s.bookings.All(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("failed to load bookings: %w", err)
	}
	if err := CheckConflict(existing, req.HostID, req.From, req.To); err != nil {
		logEvent("booking_conflict", map[string]interface{}{
			"host_id": req.HostID,
			"user_id": req.UserID,
			"from":    req.From,
			"to":      req.To,
		})
		return domain.Booking{}, err
	}

	b := domain.Booking{
		ID:        s.newID(),
		HostID:    req.HostID,
		UserID:    req.UserID,
		From:      req.From,
		To:        req.To,
		Status:    domain.BookingPending,
		CreatedAt: s.now().UnixMilli(),
	}
	created, err := s.bookings.Create(ctx, b)
	if err != nil {
		return domain.Booking{}, err
	}

	logEvent("booking_created", map[string]interface{}{
		"booking_id": created.ID,
		"host_id":    created.HostID,
		"user_id":    created.UserID,
		"from":       created.From,
		"to":         created.To,
	})
	return created, nil
}

// CheckConflict reports whether [from, to) overlaps an active booking of
// hostID in the store. It does not check that the host exists.
func (s *Service) CheckConflict(ctx context.Context, hostID string, from, to int64) (bool, error) {
	if hostID == "" || from >= to {
		return false, entitystore.InvalidArgument(entities.BookingEntity,
			"hostId and a valid date range are required")
	}

	existing, err := s.bookings.All(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load bookings: %w", err)
	}
	return HasConflict(existing, hostID, from, to), nil
}

// Cancel cancels a pending or confirmed booking. Cancelling a cancelled
// booking is a no-op.
func (s *Service) Cancel(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingCancelled)
}

// Confirm confirms a pending booking.
func (s *Service) Confirm(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingConfirmed)
}

// Reject rejects a pending booking.
func (s *Service) Reject(ctx context.Context, id string) (domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingRejected)
}

func (s *Service) transition(ctx context.Context, id string, target domain.BookingStatus) (domain.Booking, error) {
	if id == "" {
		return domain.Booking{}, entitystore.InvalidArgument(entities.BookingEntity, "id is required")
	}

	var previous domain.BookingStatus
	updated, err := s.bookings.MutateExisting(ctx, id, func(b domain.Booking) (domain.Booking, error) {
		previous = b.Status
		if !b.Status.CanTransition(target) {
			return b, entitystore.Conflict(entities.BookingEntity, id,
				fmt.Sprintf("cannot move from %s to %s", b.Status, target))
		}
		b.Status = target
		return b, nil
	})
	if err != nil {
		return domain.Booking{}, err
	}

	if previous != target {
		logEvent("booking_status_changed", map[string]interface{}{
			"booking_id": id,
			"from":       string(previous),
			"to":         string(target),
		})
	}
	return updated, nil
}

// ListForUser returns the bookings of userID in creation order, each joined
// with its host. A booking whose host has vanished is returned without one.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.BookingWithHost, error) {
	if userID == "" {
		return nil, entitystore.InvalidArgument(entities.BookingEntity, "userId is required")
	}

	all, err := s.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	hostsByID := make(map[string]*domain.Host)
	results := make([]domain.BookingWithHost, 0)
	for _, b := range all {
		if b.UserID != userID {
			continue
		}
		host, seen := hostsByID[b.HostID]
		if !seen {
			h, err := s.hosts.Get(ctx, b.HostID)
			switch {
			case err == nil:
				host = &h
			case entitystore.IsNotFound(err):
				log.Printf("[Bookings] Booking %s references missing host %s", b.ID, b.HostID)
			default:
				return nil, err
			}
			hostsByID[b.HostID] = host
		}
		results = append(results, domain.BookingWithHost{Booking: b, Host: host})
	}
	return results, nil
}

// ListForHost returns the bookings of hostID in creation order.
func (s *Service) ListForHost(ctx context.Context, hostID string) ([]domain.Booking, error) {
	if hostID == "" {
		return nil, entitystore.InvalidArgument(entities.BookingEntity, "hostId is required")
	}

	all, err := s.bookings.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	results := make([]domain.Booking, 0)
	for _, b := range all {
		if b.HostID == hostID {
			results = append(results, b)
		}
	}
	return results, nil
}

func hostLockName(hostID string) string {
	return "booking:host:" + hostID
}
