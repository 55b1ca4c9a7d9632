package main

import (
	"context"
	"io"
	"math/rand"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/luxedrive/internal/auth"
	"github.com/ukydev/luxedrive/internal/config"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/describe"
	"github.com/ukydev/luxedrive/internal/events"
	"github.com/ukydev/luxedrive/internal/handlers"
)

func newTestServer(t *testing.T) (*httptest.Server, *db.Repository) {
	t.Helper()

	logger := log.New()
	logger.SetOutput(io.Discard)

	store := db.NewMemoryStore()
	require.NoError(t, db.Bootstrap(context.Background(), store, db.DefaultSeed(time.Now())))
	repo := db.NewRepository(store)

	describer := describe.NewService(nil, logger)
	router := handlers.NewRouter(handlers.Dependencies{
		Auth:      auth.NewService(config.AuthConfig{JWTSecret: "sim"}, repo, repo, logger),
		Cars:      repo,
		Users:     repo,
		Bookings:  repo,
		Describer: describer,
		Assistant: describer,
		Publisher: events.NewLogPublisher(logger),
		Logger:    logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo
}

func TestPickCar(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Nil(t, pickCar(nil, rng))
	assert.Nil(t, pickCar([]Car{{ID: "1", IsAvailable: false}}, rng))

	for i := 0; i < 20; i++ {
		car := pickCar([]Car{{ID: "1"}, {ID: "2", IsAvailable: true}, {ID: "3"}}, rng)
		require.NotNil(t, car)
		assert.Equal(t, "2", car.ID)
	}
}

func TestRandomRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		startStr, endStr := randomRange(today, rng)
		start, err := time.Parse(dateLayout, startStr)
		require.NoError(t, err)
		end, err := time.Parse(dateLayout, endStr)
		require.NoError(t, err)

		lead := start.Sub(today).Hours() / 24
		days := end.Sub(start).Hours() / 24
		assert.GreaterOrEqual(t, lead, 1.0)
		assert.LessOrEqual(t, lead, 30.0)
		assert.GreaterOrEqual(t, days, 1.0)
		assert.LessOrEqual(t, days, 7.0)
	}
}

func TestSimulateBooking(t *testing.T) {
	server, repo := newTestServer(t)
	ctx := context.Background()

	c := newClient(server.URL + "/api")
	require.NoError(t, c.login(ctx, "john@example.com", ""))

	booking, err := simulateBooking(ctx, c, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, "pending", booking.Status)
	assert.Greater(t, booking.TotalPrice, 0.0)

	views, err := repo.ListBookingsForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, booking.ID, views[0].ID)
}

func TestLogin_Failures(t *testing.T) {
	server, repo := newTestServer(t)
	ctx := context.Background()

	c := newClient(server.URL + "/api")
	err := c.login(ctx, "nobody@example.com", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = repo.ToggleBlock(ctx, "u2")
	require.NoError(t, err)
	assert.Error(t, c.login(ctx, "john@example.com", ""))
}

func TestSimulateBooking_RequiresLogin(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := simulateBooking(context.Background(), newClient(server.URL+"/api"), rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SIM_BOOKINGS", "3")
	t.Setenv("SIM_TICK_SECONDS", "abc")
	assert.Equal(t, 3, envInt("SIM_BOOKINGS", 10))
	assert.Equal(t, 2, envInt("SIM_TICK_SECONDS", 2))
	assert.Equal(t, "fallback", envString("SIM_UNSET_VALUE", "fallback"))
}
