package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// Car is the subset of the catalogue entry the simulator needs.
type Car struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"pricePerDay"`
	IsAvailable bool    `json:"isAvailable"`
}

// Booking is the API's response to a booking request.
type Booking struct {
	ID         string  `json:"id"`
	CarID      string  `json:"carId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
}

type bookingRequest struct {
	CarID     string `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// client talks to the LuxeDrive API as one customer.
type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(baseURL string) *client {
	return &client{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, apiErr.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *client) login(ctx context.Context, email, password string) error {
	var session struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "password": password}, &session); err != nil {
		return err
	}
	if session.Token == "" {
		return errors.New("login returned no token")
	}
	c.token = session.Token
	return nil
}

func (c *client) listCars(ctx context.Context) ([]Car, error) {
	var cars []Car
	err := c.do(ctx, http.MethodGet, "/cars", nil, &cars)
	return cars, err
}

func (c *client) book(ctx context.Context, req bookingRequest) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// pickCar returns a random available car, or nil when none is available.
func pickCar(cars []Car, rng *rand.Rand) *Car {
	available := make([]Car, 0, len(cars))
	for _, car := range cars {
		if car.IsAvailable {
			available = append(available, car)
		}
	}
	if len(available) == 0 {
		return nil
	}
	car := available[rng.Intn(len(available))]
	return &car
}

// randomRange returns a rental starting 1-30 days after today and lasting
// 1-7 days.
func randomRange(today time.Time, rng *rand.Rand) (string, string) {
	start := today.AddDate(0, 0, 1+rng.Intn(30))
	end := start.AddDate(0, 0, 1+rng.Intn(7))
	return start.Format(dateLayout), end.Format(dateLayout)
}

func simulateBooking(ctx context.Context, c *client, rng *rand.Rand) (*Booking, error) {
	cars, err := c.listCars(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	car := pickCar(cars, rng)
	if car == nil {
		return nil, errors.New("no cars available")
	}

	start, end := randomRange(time.Now().UTC(), rng)
	booking, err := c.book(ctx, bookingRequest{CarID: car.ID, StartDate: start, EndDate: end})
	if err != nil {
		return nil, fmt.Errorf("failed to book %s: %w", car.ID, err)
	}

	log.WithFields(log.Fields{
		"booking_id":  booking.ID,
		"car":         car.Name,
		"start":       booking.StartDate,
		"end":         booking.EndDate,
		"total_price": booking.TotalPrice,
	}).Info("Created booking")
	return booking, nil
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func main() {
	apiURL := envString("API_BASE_URL", "http://localhost:8080/api")
	email := envString("SIM_EMAIL", "john@example.com")
	password := os.Getenv("SIM_PASSWORD")
	total := envInt("SIM_BOOKINGS", 10)
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 2)) * time.Second
	if interval < time.Second {
		interval = time.Second
	}

	log.WithFields(log.Fields{
		"api_url":  apiURL,
		"email":    email,
		"bookings": total,
		"interval": interval,
	}).Info("Starting booking simulation")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := newClient(apiURL)
	if err := c.login(ctx, email, password); err != nil {
		log.WithError(err).Fatal("Login failed. Ensure the API is reachable and the account is not blocked")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	tick := time.NewTicker(interval)
	defer tick.Stop()

	created := 0
	for total <= 0 || created < total {
		if _, err := simulateBooking(ctx, c, rng); err != nil {
			log.WithError(err).Error("Booking failed")
		} else {
			created++
		}

		select {
		case <-ctx.Done():
			log.WithField("created", created).Info("Simulation interrupted")
			return
		case <-tick.C:
		}
	}

	log.WithField("created", created).Info("Booking simulation completed")
}
