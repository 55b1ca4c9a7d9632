package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/ukydev/luxedrive/internal/models"
	"github.com/ukydev/luxedrive/internal/pricing"
)

const recentBookingsLimit = 5

// CreateBooking prices and stores a pending booking of carID by userID.
// Both references must resolve; nothing is written when any check fails.
func (r *Repository) CreateBooking(ctx context.Context, userID, carID, startDate, endDate string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := ReadCollection[models.User](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, err
	}
	if findUser(users, userID) == nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	cars, err := ReadCollection[models.Car](ctx, r.store, KeyCars)
	if err != nil {
		return nil, err
	}
	car := findCar(cars, carID)
	if car == nil {
		return nil, fmt.Errorf("car %s: %w", carID, models.ErrNotFound)
	}

	quote, err := pricing.CalculateDates(startDate, endDate, car.PricePerDay)
	if err != nil {
		return nil, err
	}

	bookings, err := ReadCollection[models.Booking](ctx, r.store, KeyBookings)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		ID:            r.newID("b"),
		UserID:        userID,
		CarID:         carID,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalPrice:    quote.Total,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     r.now(),
	}
	bookings = append(bookings, booking)

	if err := WriteCollection(ctx, r.store, KeyBookings, bookings); err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindBookingByID finds a booking by its ID.
func (r *Repository) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := ReadCollection[models.Booking](ctx, r.store, KeyBookings)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
}

// SetBookingStatus overwrites the status of a booking. Any status may replace
// any other unless the repository was built WithStrictTransitions.
func (r *Repository) SetBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !models.IsValidBookingStatus(status) {
		return nil, fmt.Errorf("%w: invalid booking status %q", models.ErrValidation, status)
	}

	return r.updateBooking(ctx, id, func(b *models.Booking) error {
		if r.strictTransitions && !models.CanTransition(b.Status, status) {
			return fmt.Errorf("%w: cannot move booking from %s to %s", models.ErrPolicyViolation, b.Status, status)
		}
		b.Status = status
		return nil
	})
}

// SetPaymentStatus records whether a booking has been paid.
func (r *Repository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Booking, error) {
	if !models.IsValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: invalid payment status %q", models.ErrValidation, status)
	}

	return r.updateBooking(ctx, id, func(b *models.Booking) error {
		b.PaymentStatus = status
		return nil
	})
}

func (r *Repository) updateBooking(ctx context.Context, id string, mutate func(*models.Booking) error) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, err := ReadCollection[models.Booking](ctx, r.store, KeyBookings)
	if err != nil {
		return nil, err
	}

	for i := range bookings {
		if bookings[i].ID != id {
			continue
		}
		if err := mutate(&bookings[i]); err != nil {
			return nil, err
		}
		if err := WriteCollection(ctx, r.store, KeyBookings, bookings); err != nil {
			return nil, err
		}
		updated := bookings[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
}

// ListBookingsForUser returns the user's bookings joined with their cars.
func (r *Repository) ListBookingsForUser(ctx context.Context, userID string) ([]models.BookingView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, cars, _, err := r.loadForJoin(ctx, false)
	if err != nil {
		return nil, err
	}

	views := make([]models.BookingView, 0)
	for _, b := range bookings {
		if b.UserID == userID {
			views = append(views, models.BookingView{Booking: b, CarDetails: findCar(cars, b.CarID)})
		}
	}
	return views, nil
}

// ListAllBookings returns every booking joined with its car and user.
func (r *Repository) ListAllBookings(ctx context.Context) ([]models.BookingView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, cars, users, err := r.loadForJoin(ctx, true)
	if err != nil {
		return nil, err
	}
	return joinAll(bookings, cars, users), nil
}

// Stats computes the admin dashboard summary.
func (r *Repository) Stats(ctx context.Context) (models.DashboardStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings, cars, users, err := r.loadForJoin(ctx, true)
	if err != nil {
		return models.DashboardStats{}, err
	}

	stats := models.DashboardStats{
		TotalCars:     len(cars),
		TotalBookings: len(bookings),
		TotalUsers:    len(users),
	}
	for _, b := range bookings {
		stats.TotalRevenue += b.TotalPrice
	}

	views := joinAll(bookings, cars, users)
	sort.SliceStable(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	if len(views) > recentBookingsLimit {
		views = views[:recentBookingsLimit]
	}
	stats.RecentBookings = views
	return stats, nil
}

func (r *Repository) loadForJoin(ctx context.Context, withUsers bool) ([]models.Booking, []models.Car, []models.User, error) {
	bookings, err := ReadCollection[models.Booking](ctx, r.store, KeyBookings)
	if err != nil {
		return nil, nil, nil, err
	}
	cars, err := ReadCollection[models.Car](ctx, r.store, KeyCars)
	if err != nil {
		return nil, nil, nil, err
	}
	if !withUsers {
		return bookings, cars, nil, nil
	}
	users, err := ReadCollection[models.User](ctx, r.store, KeyUsers)
	if err != nil {
		return nil, nil, nil, err
	}
	return bookings, cars, users, nil
}

func joinAll(bookings []models.Booking, cars []models.Car, users []models.User) []models.BookingView {
	views := make([]models.BookingView, 0, len(bookings))
	for _, b := range bookings {
		view := models.BookingView{Booking: b, CarDetails: findCar(cars, b.CarID)}
		if user := findUser(users, b.UserID); user != nil {
			public := user.Public()
			view.UserDetails = &public
		}
		views = append(views, view)
	}
	return views
}
