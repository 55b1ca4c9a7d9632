package db

import (
	"time"

	"github.com/ukydev/luxedrive/internal/models"
)

// Seed is the bootstrap dataset written to an empty store.
type Seed struct {
	Cars     []models.Car
	Users    []models.User
	Bookings []models.Booking
}

// DefaultSeed returns the starter fleet, one admin and one customer.
func DefaultSeed(now time.Time) Seed {
	return Seed{
		Cars: []models.Car{
			{
				ID:           "1",
				Name:         "Model S Plaid",
				Brand:        "Tesla",
				Model:        "Model S",
				Year:         2023,
				PricePerDay:  250,
				FuelType:     models.FuelElectric,
				Transmission: models.TransmissionAutomatic,
				Seats:        5,
				Description:  "The quickest accelerating car in production today. Model S Plaid has the highest power and quickest acceleration of any electric vehicle in production.",
				Image:        "https://picsum.photos/seed/tesla1/800/600",
				IsAvailable:  true,
				Category:     models.CategoryLuxury,
				CreatedAt:    now,
			},
			{
				ID:           "2",
				Name:         "911 Carrera",
				Brand:        "Porsche",
				Model:        "911",
				Year:         2022,
				PricePerDay:  350,
				FuelType:     models.FuelPetrol,
				Transmission: models.TransmissionAutomatic,
				Seats:        2,
				Description:  "The silhouette of the 911 is timeless. Its design has been modernised, yet its character remains as classic as ever.",
				Image:        "https://picsum.photos/seed/porsche1/800/600",
				IsAvailable:  true,
				Category:     models.CategorySports,
				CreatedAt:    now,
			},
			{
				ID:           "3",
				Name:         "G-Wagon G63",
				Brand:        "Mercedes",
				Model:        "G-Class",
				Year:         2023,
				PricePerDay:  450,
				FuelType:     models.FuelPetrol,
				Transmission: models.TransmissionAutomatic,
				Seats:        5,
				Description:  "Unmatched performance and design. The G-Class has been a symbol of luxury and power for decades.",
				Image:        "https://picsum.photos/seed/mercedes1/800/600",
				IsAvailable:  true,
				Category:     models.CategorySUV,
				CreatedAt:    now,
			},
			{
				ID:           "4",
				Name:         "A8 L",
				Brand:        "Audi",
				Model:        "A8",
				Year:         2023,
				PricePerDay:  200,
				FuelType:     models.FuelHybrid,
				Transmission: models.TransmissionAutomatic,
				Seats:        5,
				Description:  "The pinnacle of Audi luxury and engineering. Experience a new dimension of comfort.",
				Image:        "https://picsum.photos/seed/audi1/800/600",
				IsAvailable:  true,
				Category:     models.CategorySedan,
				CreatedAt:    now,
			},
		},
		Users: []models.User{
			{
				ID:        "u1",
				Name:      "Admin User",
				Email:     "admin@luxedrive.com",
				Role:      models.RoleAdmin,
				Phone:     "1234567890",
				CreatedAt: now,
			},
			{
				ID:        "u2",
				Name:      "John Doe",
				Email:     "john@example.com",
				Role:      models.RoleUser,
				Phone:     "0987654321",
				CreatedAt: now,
			},
		},
		Bookings: []models.Booking{},
	}
}

// WithAdminPasswordHash returns a copy of the seed whose admin accounts carry
// hash, so they can sign in when passwords are required.
func (s Seed) WithAdminPasswordHash(hash string) Seed {
	users := make([]models.User, len(s.Users))
	copy(users, s.Users)
	for i := range users {
		if users[i].Role == models.RoleAdmin {
			users[i].PasswordHash = hash
		}
	}
	s.Users = users
	return s
}
