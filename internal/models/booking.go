package models

import (
	"time"
)

// BookingStatus is the admin-controlled lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

// Booking represents a rental of one car by one user over a date range.
type Booking struct {
	ID            string        `bson:"id" json:"id"`
	UserID        string        `bson:"user_id" json:"userId"`
	CarID         string        `bson:"car_id" json:"carId"`
	StartDate     string        `bson:"start_date" json:"startDate"` // YYYY-MM-DD
	EndDate       string        `bson:"end_date" json:"endDate"`     // YYYY-MM-DD
	TotalPrice    float64       `bson:"total_price" json:"totalPrice"`
	Status        BookingStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
}

// BookingView is the display read model: a booking with snapshots of the
// referenced car and user. It is assembled on every read and never stored.
type BookingView struct {
	Booking
	CarDetails  *Car  `json:"carDetails,omitempty"`
	UserDetails *User `json:"userDetails,omitempty"`
}

// CreateBookingRequest represents a booking request from a signed-in user
type CreateBookingRequest struct {
	CarID     string `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func IsValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

func IsValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentPaid || s == PaymentPending
}

// CanTransition reports whether the strict booking lifecycle allows moving
// from one status to another.
func CanTransition(from, to BookingStatus) bool {
	switch from {
	case BookingPending:
		return to == BookingApproved || to == BookingRejected
	case BookingApproved:
		return to == BookingCompleted || to == BookingCancelled
	default:
		return false
	}
}

// DashboardStats summarises the fleet for the admin dashboard.
type DashboardStats struct {
	TotalCars      int           `json:"totalCars"`
	TotalBookings  int           `json:"totalBookings"`
	TotalUsers     int           `json:"totalUsers"`
	TotalRevenue   float64       `json:"totalRevenue"`
	RecentBookings []BookingView `json:"recentBookings"`
}
