// Package domain defines the DogRoom data model: users, hosts, bookings and
// chat boards, as stored by the entity store.
//
// All timestamps are epoch milliseconds. JSON field names are camelCase and
// are part of the stored format.
package domain

import (
	"fmt"
	"strings"
)

// User is a marketplace member who books hosts and chats.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Validate checks if the User has valid field values.
func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name cannot be empty")
	}
	return nil
}

// PetSize is the size class of a pet a host accepts.
type PetSize string

const (
	PetSizeSmall  PetSize = "small"
	PetSizeMedium PetSize = "medium"
	PetSizeLarge  PetSize = "large"
)

// Validate checks if the PetSize is a valid enum value.
func (p PetSize) Validate() error {
	switch p {
	case PetSizeSmall, PetSizeMedium, PetSizeLarge:
		return nil
	default:
		return fmt.Errorf("unknown pet size: %q", p)
	}
}

// ServiceType is a kind of care a host offers.
type ServiceType string

const (
	ServiceBoarding ServiceType = "boarding"
	ServiceDaycare  ServiceType = "daycare"
	ServiceWalking  ServiceType = "walking"
)

// Validate checks if the ServiceType is a valid enum value.
func (s ServiceType) Validate() error {
	switch s {
	case ServiceBoarding, ServiceDaycare, ServiceWalking:
		return nil
	default:
		return fmt.Errorf("unknown service type: %q", s)
	}
}

// Location places a host on the demo map. X and Y are normalized to 0..1.
type Location struct {
	City string  `json:"city"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Availability marks one day as open or closed.
type Availability struct {
	Date        int64 `json:"date"` // start of day
	IsAvailable bool  `json:"isAvailable"`
}

// Host is a pet sitter offering services.
type Host struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Avatar          string         `json:"avatar,omitempty"`
	Bio             string         `json:"bio"`
	Rating          float64        `json:"rating"`
	ReviewsCount    int            `json:"reviewsCount"`
	Tags            []ServiceType  `json:"tags"`
	PricePerNight   int            `json:"pricePerNight"`
	Location        Location       `json:"location"`
	Availability    []Availability `json:"availability"`
	Verified        bool           `json:"verified"`
	HouseRules      []string       `json:"houseRules"`
	Gallery         []string       `json:"gallery"`
	AllowedPetSizes []PetSize      `json:"allowedPetSizes"`
}

// Validate checks if the Host has valid field values.
func (h Host) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("host name cannot be empty")
	}
	if h.Rating < 0 || h.Rating > 5 {
		return fmt.Errorf("invalid rating: must be within 0..5, got %v", h.Rating)
	}
	if h.ReviewsCount < 0 {
		return fmt.Errorf("invalid reviews count: %d", h.ReviewsCount)
	}
	if h.PricePerNight < 0 {
		return fmt.Errorf("invalid price per night: %d", h.PricePerNight)
	}
	for _, t := range h.Tags {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid tag: %w", err)
		}
	}
	for _, p := range h.AllowedPetSizes {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid allowed pet size: %w", err)
		}
	}
	return nil
}

// Accepts reports whether the host takes pets of the given size.
func (h Host) Accepts(size PetSize) bool {
	for _, p := range h.AllowedPetSizes {
		if p == size {
			return true
		}
	}
	return false
}

// Preview returns the search-result projection of the host.
func (h Host) Preview() HostPreview {
	return HostPreview{
		ID:            h.ID,
		Name:          h.Name,
		Avatar:        h.Avatar,
		PricePerNight: h.PricePerNight,
		Rating:        h.Rating,
		Tags:          h.Tags,
		Location:      h.Location,
	}
}

// HostPreview is the compact host view returned by search.
type HostPreview struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Avatar        string        `json:"avatar,omitempty"`
	PricePerNight int           `json:"pricePerNight"`
	Rating        float64       `json:"rating"`
	Tags          []ServiceType `json:"tags"`
	Location      Location      `json:"location"`
	Score         float64       `json:"score"`
}

// Booking reserves a host for the half-open interval [From, To).
type Booking struct {
	ID        string        `json:"id"`
	HostID    string        `json:"hostId"`
	UserID    string        `json:"userId"`
	From      int64         `json:"from"`
	To        int64         `json:"to"`
	Status    BookingStatus `json:"status"`
	CreatedAt int64         `json:"createdAt"`
}

// Validate checks if the Booking has valid field values.
func (b Booking) Validate() error {
	if b.HostID == "" {
		return fmt.Errorf("hostId cannot be empty")
	}
	if b.UserID == "" {
		return fmt.Errorf("userId cannot be empty")
	}
	if b.From >= b.To {
		return fmt.Errorf("invalid interval: from (%d) must be before to (%d)", b.From, b.To)
	}
	if err := b.Status.Validate(); err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}
	return nil
}

// BookingWithHost is a booking joined with its host record. Host is nil when
// the host no longer exists.
type BookingWithHost struct {
	Booking
	Host *Host `json:"host,omitempty"`
}

// ChatMessage is one message on a chat board.
type ChatMessage struct {
	ID     string `json:"id"`
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// ChatBoard is a chat with its full message history.
type ChatBoard struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []ChatMessage `json:"messages"`
}

// Validate checks if the ChatBoard has valid field values.
func (c ChatBoard) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("chat title cannot be empty")
	}
	return nil
}
