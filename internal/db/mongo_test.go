package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/luxedrive/internal/models"
)

func TestConnectMongo_BadURI(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := ConnectMongo(ctx, "mongodb://bad:uri")
	if err == nil {
		t.Error("expected error for bad URI, got nil")
	}
	if client != nil {
		t.Error("expected nil client on error")
	}
}

func TestMongoStore_NilCollection(t *testing.T) {
	store := &MongoStore{Collection: nil}
	ctx := context.Background()

	_, err := store.Get(ctx, KeyCars)
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, KeyCars, []byte("[]")))
	assert.Error(t, store.Delete(ctx, KeyCars))
}

// Integration test (requires running MongoDB)
func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}
	ctx := context.Background()
	client, err := ConnectMongo(ctx, uri)
	if err != nil {
		t.Skipf("failed to connect: %v, skipping integration test", err)
	}
	defer client.Disconnect(ctx)

	collection := client.Database("test_luxedrive").Collection("records")
	collection.Drop(ctx)
	store := &MongoStore{Collection: collection}

	_, err = store.Get(ctx, KeyCars)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, Bootstrap(ctx, store, DefaultSeed(time.Now().UTC())))
	repo := NewRepository(store)

	car, err := repo.InsertCar(ctx, newCar())
	require.NoError(t, err)

	found, err := repo.FindCarByID(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, car.Name, found.Name)

	booking, err := repo.CreateBooking(ctx, "u2", car.ID, "2023-01-01", "2023-01-04")
	require.NoError(t, err)
	assert.Equal(t, 300.0, booking.TotalPrice)

	require.NoError(t, store.Delete(ctx, KeyBookings))
	views, err := repo.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, views)

	_, err = repo.ToggleBlock(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrPolicyViolation)
}
