package models

import (
	"fmt"
	"strings"
	"time"
)

type FuelType string

const (
	FuelPetrol   FuelType = "Petrol"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
)

type Transmission string

const (
	TransmissionAutomatic Transmission = "Automatic"
	TransmissionManual    Transmission = "Manual"
)

type Category string

const (
	CategoryLuxury Category = "Luxury"
	CategorySUV    Category = "SUV"
	CategorySedan  Category = "Sedan"
	CategorySports Category = "Sports"
)

// Car represents a rentable fleet car.
type Car struct {
	ID           string       `bson:"id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Brand        string       `bson:"brand" json:"brand"`
	Model        string       `bson:"model" json:"model"`
	Year         int          `bson:"year" json:"year"`
	PricePerDay  float64      `bson:"price_per_day" json:"pricePerDay"` // in USD
	FuelType     FuelType     `bson:"fuel_type" json:"fuelType"`
	Transmission Transmission `bson:"transmission" json:"transmission"`
	Seats        int          `bson:"seats" json:"seats"`
	Description  string       `bson:"description" json:"description"`
	Image        string       `bson:"image" json:"image"`
	IsAvailable  bool         `bson:"is_available" json:"isAvailable"`
	Category     Category     `bson:"category" json:"category"`
	CreatedAt    time.Time    `bson:"created_at" json:"createdAt"`
}

// CarPatch carries a partial car update. Nil fields are left untouched.
type CarPatch struct {
	Name         *string       `json:"name,omitempty"`
	Brand        *string       `json:"brand,omitempty"`
	Model        *string       `json:"model,omitempty"`
	Year         *int          `json:"year,omitempty"`
	PricePerDay  *float64      `json:"pricePerDay,omitempty"`
	FuelType     *FuelType     `json:"fuelType,omitempty"`
	Transmission *Transmission `json:"transmission,omitempty"`
	Seats        *int          `json:"seats,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Image        *string       `json:"image,omitempty"`
	IsAvailable  *bool         `json:"isAvailable,omitempty"`
	Category     *Category     `json:"category,omitempty"`
}

// Apply shallow-merges the patch over c.
func (p CarPatch) Apply(c Car) Car {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Brand != nil {
		c.Brand = *p.Brand
	}
	if p.Model != nil {
		c.Model = *p.Model
	}
	if p.Year != nil {
		c.Year = *p.Year
	}
	if p.PricePerDay != nil {
		c.PricePerDay = *p.PricePerDay
	}
	if p.FuelType != nil {
		c.FuelType = *p.FuelType
	}
	if p.Transmission != nil {
		c.Transmission = *p.Transmission
	}
	if p.Seats != nil {
		c.Seats = *p.Seats
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.IsAvailable != nil {
		c.IsAvailable = *p.IsAvailable
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	return c
}

func IsValidFuelType(f FuelType) bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

func IsValidTransmission(t Transmission) bool {
	return t == TransmissionAutomatic || t == TransmissionManual
}

func IsValidCategory(c Category) bool {
	switch c {
	case CategoryLuxury, CategorySUV, CategorySedan, CategorySports:
		return true
	}
	return false
}

// Validate checks the car's enums and numeric bounds.
func (c Car) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Name) == "" {
		problems = append(problems, "name is required")
	}
	if c.PricePerDay <= 0 {
		problems = append(problems, "pricePerDay must be positive")
	}
	if c.Seats <= 0 {
		problems = append(problems, "seats must be positive")
	}
	if !IsValidFuelType(c.FuelType) {
		problems = append(problems, fmt.Sprintf("invalid fuelType %q", c.FuelType))
	}
	if !IsValidTransmission(c.Transmission) {
		problems = append(problems, fmt.Sprintf("invalid transmission %q", c.Transmission))
	}
	if !IsValidCategory(c.Category) {
		problems = append(problems, fmt.Sprintf("invalid category %q", c.Category))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

// CarSort names the listing order.
type CarSort string

const (
	SortNewest    CarSort = "newest"
	SortPriceLow  CarSort = "priceLow"
	SortPriceHigh CarSort = "priceHigh"
)

// CarFilter narrows a car listing. Zero values match everything.
type CarFilter struct {
	Search   string
	Brand    string
	FuelType FuelType
	Category Category
	MaxPrice float64
	Sort     CarSort
}

// Matches reports whether c passes every set criterion.
func (f CarFilter) Matches(c Car) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Brand), q) {
			return false
		}
	}
	if f.Brand != "" && c.Brand != f.Brand {
		return false
	}
	if f.FuelType != "" && c.FuelType != f.FuelType {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.MaxPrice > 0 && c.PricePerDay > f.MaxPrice {
		return false
	}
	return true
}
