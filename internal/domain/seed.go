package domain

// Fixed demo datasets written by EnsureSeed on first use of each entity type.

const (
	day      = int64(24 * 60 * 60 * 1000)
	seedBase = int64(1767225600000) // 2026-01-01T00:00:00Z
)

// SeedUsers returns the demo users.
func SeedUsers() []User {
	return []User{
		{ID: "u1", Name: "Alex Morgan"},
		{ID: "u2", Name: "Sam Patel"},
		{ID: "u3", Name: "Jordan Lee"},
	}
}

// SeedHosts returns the demo hosts.
func SeedHosts() []Host {
	return []Host{
		{
			ID:            "host-ava",
			Name:          "Ava Thompson",
			Avatar:        "https://images.dogroom.dev/avatars/ava.jpg",
			Bio:           "Lifelong dog lover with a fenced garden and two retired greyhounds.",
			Rating:        4.9,
			ReviewsCount:  128,
			Tags:          []ServiceType{ServiceBoarding, ServiceDaycare},
			PricePerNight: 45,
			Location:      Location{City: "London", X: 0.42, Y: 0.31},
			Availability:  availabilityFrom(seedBase, 14),
			Verified:      true,
			HouseRules:    []string{"No dogs on the sofa", "Daily walks at 7am and 6pm"},
			Gallery:       []string{"https://images.dogroom.dev/gallery/ava-1.jpg", "https://images.dogroom.dev/gallery/ava-2.jpg"},
			AllowedPetSizes: []PetSize{
				PetSizeSmall, PetSizeMedium, PetSizeLarge,
			},
		},
		{
			ID:              "host-ben",
			Name:            "Ben Carter",
			Bio:             "Flat near the park, ideal for small and calm dogs.",
			Rating:          4.6,
			ReviewsCount:    54,
			Tags:            []ServiceType{ServiceWalking, ServiceDaycare},
			PricePerNight:   30,
			Location:        Location{City: "London", X: 0.55, Y: 0.48},
			Availability:    availabilityFrom(seedBase, 7),
			Verified:        true,
			HouseRules:      []string{"Small dogs only"},
			Gallery:         []string{"https://images.dogroom.dev/gallery/ben-1.jpg"},
			AllowedPetSizes: []PetSize{PetSizeSmall},
		},
		{
			ID:              "host-chloe",
			Name:            "Chloe Martin",
			Avatar:          "https://images.dogroom.dev/avatars/chloe.jpg",
			Bio:             "Farmhouse with acres of space. Big dogs welcome.",
			Rating:          4.8,
			ReviewsCount:    203,
			Tags:            []ServiceType{ServiceBoarding},
			PricePerNight:   55,
			Location:        Location{City: "Bristol", X: 0.18, Y: 0.62},
			Availability:    availabilityFrom(seedBase, 30),
			Verified:        true,
			HouseRules:      []string{"Dogs must be vaccinated", "Muddy paws get a rinse"},
			Gallery:         []string{"https://images.dogroom.dev/gallery/chloe-1.jpg", "https://images.dogroom.dev/gallery/chloe-2.jpg", "https://images.dogroom.dev/gallery/chloe-3.jpg"},
			AllowedPetSizes: []PetSize{PetSizeMedium, PetSizeLarge},
		},
		{
			ID:              "host-dev",
			Name:            "Dev Sharma",
			Bio:             "Vet nurse offering daycare on weekdays.",
			Rating:          4.7,
			ReviewsCount:    76,
			Tags:            []ServiceType{ServiceDaycare},
			PricePerNight:   40,
			Location:        Location{City: "Manchester", X: 0.47, Y: 0.12},
			Availability:    availabilityFrom(seedBase, 10),
			Verified:        false,
			HouseRules:      []string{"Medication given on request"},
			Gallery:         []string{},
			AllowedPetSizes: []PetSize{PetSizeSmall, PetSizeMedium},
		},
		{
			ID:              "host-ella",
			Name:            "Ella Rossi",
			Bio:             "Runner who takes energetic dogs on long trail walks.",
			Rating:          4.4,
			ReviewsCount:    19,
			Tags:            []ServiceType{ServiceWalking},
			PricePerNight:   25,
			Location:        Location{City: "Leeds", X: 0.66, Y: 0.22},
			Availability:    availabilityFrom(seedBase, 5),
			Verified:        true,
			HouseRules:      []string{},
			Gallery:         []string{"https://images.dogroom.dev/gallery/ella-1.jpg"},
			AllowedPetSizes: []PetSize{PetSizeMedium, PetSizeLarge},
		},
	}
}

// SeedBookings returns the demo bookings.
func SeedBookings() []Booking {
	return []Booking{
		{
			ID:        "b1",
			HostID:    "host-ava",
			UserID:    "u1",
			From:      seedBase + 2*day,
			To:        seedBase + 5*day,
			Status:    BookingConfirmed,
			CreatedAt: seedBase - 10*day,
		},
		{
			ID:        "b2",
			HostID:    "host-chloe",
			UserID:    "u1",
			From:      seedBase + 12*day,
			To:        seedBase + 14*day,
			Status:    BookingPending,
			CreatedAt: seedBase - 3*day,
		},
		{
			ID:        "b3",
			HostID:    "host-ben",
			UserID:    "u2",
			From:      seedBase + day,
			To:        seedBase + 2*day,
			Status:    BookingCancelled,
			CreatedAt: seedBase - 7*day,
		},
	}
}

// SeedChats returns the demo chat boards with their messages.
func SeedChats() []ChatBoard {
	return []ChatBoard{
		{
			ID:    "c1",
			Title: "General",
			Messages: []ChatMessage{
				{ID: "m1", ChatID: "c1", UserID: "u1", Text: "Hello", TS: seedBase},
				{ID: "m2", ChatID: "c1", UserID: "u2", Text: "Hi, anyone near Bristol?", TS: seedBase + 60_000},
			},
		},
		{
			ID:       "c2",
			Title:    "Boarding tips",
			Messages: []ChatMessage{},
		},
	}
}

func availabilityFrom(start int64, days int) []Availability {
	out := make([]Availability, days)
	for i := range out {
		out[i] = Availability{Date: start + int64(i)*day, IsAvailable: i%6 != 5}
	}
	return out
}
