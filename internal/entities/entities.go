// Package entities declares the four DogRoom entity types on top of the
// generic entity store and hosts the small operations that act on a single
// entity type: user creation and chat boards.
package entities

import (
	"context"
	"fmt"
	"time"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/pkg/entitystore"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Entity and index names. These are part of the storage layout.
const (
	UserEntity    = "user"
	UserIndex     = "users"
	HostEntity    = "host"
	HostIndex     = "hosts"
	BookingEntity = "booking"
	BookingIndex  = "bookings"
	ChatEntity    = "chat"
	ChatIndex     = "chats"
)

// Store groups the entity façades of one backend.
type Store struct {
	Users    *entitystore.Entity[domain.User]
	Hosts    *entitystore.Entity[domain.Host]
	Bookings *entitystore.Entity[domain.Booking]
	Chats    *entitystore.Entity[domain.ChatBoard]

	newID func() string
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the uuid generator used for new users, chats and
// messages.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock replaces the wall clock used for message timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// New declares every entity type over backend.
func New(backend entitystore.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		newID: func() string { return uuid.New().String() },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.Users, err = entitystore.New(backend, entitystore.Definition[domain.User]{
		Name:      UserEntity,
		IndexName: UserIndex,
		ID:        func(u domain.User) string { return u.ID },
		Initial:   func(id string) domain.User { return domain.User{ID: id} },
		Validate:  domain.User.Validate,
		Seed:      domain.SeedUsers(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare users: %w", err)
	}

	s.Hosts, err = entitystore.New(backend, entitystore.Definition[domain.Host]{
		Name:      HostEntity,
		IndexName: HostIndex,
		ID:        func(h domain.Host) string { return h.ID },
		Initial: func(id string) domain.Host {
			return domain.Host{
				ID:              id,
				Tags:            []domain.ServiceType{},
				Availability:    []domain.Availability{},
				HouseRules:      []string{},
				Gallery:         []string{},
				AllowedPetSizes: []domain.PetSize{},
			}
		},
		Validate: domain.Host.Validate,
		Seed:     domain.SeedHosts(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare hosts: %w", err)
	}

	s.Bookings, err = entitystore.New(backend, entitystore.Definition[domain.Booking]{
		Name:      BookingEntity,
		IndexName: BookingIndex,
		ID:        func(b domain.Booking) string { return b.ID },
		Initial:   func(id string) domain.Booking { return domain.Booking{ID: id, Status: domain.BookingPending} },
		Validate:  domain.Booking.Validate,
		Seed:      domain.SeedBookings(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare bookings: %w", err)
	}

	s.Chats, err = entitystore.New(backend, entitystore.Definition[domain.ChatBoard]{
		Name:      ChatEntity,
		IndexName: ChatIndex,
		ID:        func(c domain.ChatBoard) string { return c.ID },
		Initial:   func(id string) domain.ChatBoard { return domain.ChatBoard{ID: id, Messages: []domain.ChatMessage{}} },
		Validate:  domain.ChatBoard.Validate,
		Seed:      domain.SeedChats(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare chats: %w", err)
	}

	return s, nil
}

// EnsureSeed seeds every entity type. Types are seeded concurrently; the
// first failure is returned.
func (s *Store) EnsureSeed(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Users.EnsureSeed(ctx) })
	g.Go(func() error { return s.Hosts.EnsureSeed(ctx) })
	g.Go(func() error { return s.Bookings.EnsureSeed(ctx) })
	g.Go(func() error { return s.Chats.EnsureSeed(ctx) })
	return g.Wait()
}
