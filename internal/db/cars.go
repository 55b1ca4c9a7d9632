package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/ukydev/luxedrive/internal/models"
)

// ListCars returns the whole fleet in stored order.
func (r *Repository) ListCars(ctx context.Context) ([]models.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return ReadCollection[models.Car](ctx, r.store, KeyCars)
}

// FilterCars returns the cars matching filter, ordered by filter.Sort.
func (r *Repository) FilterCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error) {
	cars, err := r.ListCars(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		if filter.Matches(car) {
			result = append(result, car)
		}
	}

	switch filter.Sort {
	case models.SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool { return result[i].PricePerDay < result[j].PricePerDay })
	case models.SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool { return result[i].PricePerDay > result[j].PricePerDay })
	}
	return result, nil
}

// FindCarByID finds a car by its ID.
func (r *Repository) FindCarByID(ctx context.Context, id string) (*models.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars, err := ReadCollection[models.Car](ctx, r.store, KeyCars)
	if err != nil {
		return nil, err
	}
	if car := findCar(cars, id); car != nil {
		return car, nil
	}
	return nil, fmt.Errorf("car %s: %w", id, models.ErrNotFound)
}

// InsertCar assigns an id and creation time to car and appends it to the fleet.
func (r *Repository) InsertCar(ctx context.Context, car models.Car) (*models.Car, error) {
	if err := car.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cars, err := ReadCollection[models.Car](ctx, r.store, KeyCars)
	if err != nil {
		return nil, err
	}

	car.ID = r.newID("c")
	car.CreatedAt = r.now()
	cars = append(cars, car)

	if err := WriteCollection(ctx, r.store, KeyCars, cars); err != nil {
		return nil, err
	}
	return &car, nil
}

// UpdateCar shallow-merges patch over the car with the given ID.
func (r *Repository) UpdateCar(ctx context.Context, id string, patch models.CarPatch) (*models.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars, err := ReadCollection[models.Car](ctx, r.store, KeyCars)
	if err != nil {
		return nil, err
	}

	idx := indexOfCar(cars, id)
	if idx == -1 {
		return nil, fmt.Errorf("car %s: %w", id, models.ErrNotFound)
	}

	updated := patch.Apply(cars[idx])
	if err := updated.Validate(); err != nil {
		return nil, err
	}
	cars[idx] = updated

	if err := WriteCollection(ctx, r.store, KeyCars, cars); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCar removes the car with the given ID. Deleting an unknown ID is a
// no-op. Bookings that reference the car are left in place.
func (r *Repository) DeleteCar(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars, err := ReadCollection[models.Car](ctx, r.store, KeyCars)
	if err != nil {
		return err
	}

	kept := cars[:0]
	for _, car := range cars {
		if car.ID != id {
			kept = append(kept, car)
		}
	}
	return WriteCollection(ctx, r.store, KeyCars, kept)
}

func indexOfCar(cars []models.Car, id string) int {
	for i := range cars {
		if cars[i].ID == id {
			return i
		}
	}
	return -1
}

func findCar(cars []models.Car, id string) *models.Car {
	if idx := indexOfCar(cars, id); idx != -1 {
		car := cars[idx]
		return &car
	}
	return nil
}
