package store

import "github.com/ceylonexplorer/rental-api/models"

// FallbackVehicles is the fixed catalog served when the remote vehicles
// collection is empty or unreachable. Never empty.
func FallbackVehicles() []models.Vehicle {
	return []models.Vehicle{
		{
			ID:          "deepol-s05",
			Name:        "Deepol S05",
			Type:        "Car",
			Capacity:    4,
			PricePerDay: 45,
			ImageURL:    "/images/fleet/deepol-s05.jpg",
			Active:      true,
		},
		{
			ID:          "toyota-axio",
			Name:        "Toyota Axio",
			Type:        "Car",
			Capacity:    4,
			PricePerDay: 45,
			ImageURL:    "/images/fleet/toyota-axio.jpg",
			Active:      true,
		},
		{
			ID:          "toyota-prius",
			Name:        "Toyota Prius",
			Type:        "Car",
			Capacity:    4,
			PricePerDay: 50,
			ImageURL:    "/images/fleet/toyota-prius.jpg",
			Active:      true,
		},
		{
			ID:          "toyota-hiace",
			Name:        "Toyota HiAce",
			Type:        "Van",
			Capacity:    12,
			PricePerDay: 60,
			ImageURL:    "/images/fleet/toyota-hiace.jpg",
			Active:      true,
		},
		{
			ID:          "mitsubishi-rosa",
			Name:        "Mitsubishi Rosa",
			Type:        "Mini Coach",
			Capacity:    25,
			PricePerDay: 90,
			ImageURL:    "/images/fleet/mitsubishi-rosa.jpg",
			Active:      true,
		},
	}
}
