package db

import (
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// Repository implements every collection interface on top of one RecordStore.
// All operations share one lock, so each read-modify-write of a whole
// collection completes before the next one starts.
type Repository struct {
	store RecordStore
	mu    sync.Mutex

	now               func() time.Time
	newID             func(prefix string) string
	strictTransitions bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(r *Repository) { r.newID = fn }
}

// WithStrictTransitions makes SetBookingStatus enforce models.CanTransition.
func WithStrictTransitions(strict bool) Option {
	return func(r *Repository) { r.strictTransitions = strict }
}

// NewRepository creates a repository over store.
func NewRepository(store RecordStore, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: newKSUID,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newKSUID(prefix string) string {
	return prefix + ksuid.New().String()
}

var (
	_ CarCollection     = (*Repository)(nil)
	_ UserCollection    = (*Repository)(nil)
	_ BookingCollection = (*Repository)(nil)
	_ SessionStore      = (*Repository)(nil)
)
