package db

import (
	"context"

	"github.com/ukydev/luxedrive/internal/models"
)

// CarCollection defines the interface for car data operations.
type CarCollection interface {
	ListCars(ctx context.Context) ([]models.Car, error)
	FilterCars(ctx context.Context, filter models.CarFilter) ([]models.Car, error)
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	InsertCar(ctx context.Context, car models.Car) (*models.Car, error)
	UpdateCar(ctx context.Context, id string, patch models.CarPatch) (*models.Car, error)
	DeleteCar(ctx context.Context, id string) error
}

// UserCollection defines the interface for user data operations.
type UserCollection interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user models.User) (*models.User, error)
	ToggleBlock(ctx context.Context, id string) (*models.User, error)
}

// BookingCollection defines the interface for booking data operations.
type BookingCollection interface {
	CreateBooking(ctx context.Context, userID, carID, startDate, endDate string) (*models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	SetBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Booking, error)
	ListBookingsForUser(ctx context.Context, userID string) ([]models.BookingView, error)
	ListAllBookings(ctx context.Context) ([]models.BookingView, error)
	Stats(ctx context.Context) (models.DashboardStats, error)
}

// SessionStore defines the interface for the current-login marker.
type SessionStore interface {
	SaveSession(ctx context.Context, session models.Session) error
	FindSession(ctx context.Context) (*models.Session, error)
	DeleteSession(ctx context.Context) error
}
