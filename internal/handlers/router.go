package handlers

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/auth"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/events"
	"github.com/ukydev/luxedrive/internal/middleware"
	"github.com/ukydev/luxedrive/internal/models"
)

// Dependencies are the collaborators the HTTP API is built from.
type Dependencies struct {
	Auth      *auth.Service
	Cars      db.CarCollection
	Users     db.UserCollection
	Bookings  db.BookingCollection
	Describer CarDescriber
	Assistant Assistant
	Publisher events.Publisher
	Logger    log.FieldLogger

	LoginMax       int
	LoginWindow    time.Duration
	AllowedOrigins []string
}

// NewRouter builds the API handler with its middleware stack.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}

	authHandler := NewAuthHandler(deps.Auth, deps.Users, logger)
	carHandler := NewCarHandler(deps.Cars, deps.Describer, deps.Publisher, logger)
	bookingHandler := NewBookingHandler(deps.Bookings, deps.Publisher, logger)
	userHandler := NewUserHandler(deps.Users, logger)
	assistantHandler := NewAssistantHandler(deps.Assistant, logger)

	authMW := middleware.NewAuthMiddleware(deps.Auth, deps.Users)
	limiter := middleware.NewRateLimitMiddleware()

	authed := func(h http.HandlerFunc, permission string) http.Handler {
		return authMW.Authenticate(authMW.RequirePermission(permission)(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW.Authenticate(authMW.RequireRole(models.RoleAdmin)(h))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("POST /api/auth/login", limiter.RateLimit(deps.LoginMax, deps.LoginWindow)(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.Handle("POST /api/auth/logout", authMW.Authenticate(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/session", authMW.Authenticate(http.HandlerFunc(authHandler.Session)))
	mux.Handle("GET /api/auth/me", authMW.Authenticate(http.HandlerFunc(authHandler.GetProfile)))

	mux.HandleFunc("GET /api/cars", carHandler.List)
	mux.HandleFunc("GET /api/cars/{id}", carHandler.Get)
	mux.HandleFunc("GET /api/cars/{id}/description", carHandler.Description)
	mux.Handle("POST /api/cars", admin(carHandler.Create))
	mux.Handle("PATCH /api/cars/{id}", admin(carHandler.Update))
	mux.Handle("DELETE /api/cars/{id}", admin(carHandler.Delete))

	mux.Handle("POST /api/bookings", authed(bookingHandler.Create, "create_booking"))
	mux.Handle("GET /api/bookings/mine", authed(bookingHandler.Mine, "view_own_bookings"))
	mux.Handle("GET /api/bookings", admin(bookingHandler.List))
	mux.Handle("PATCH /api/bookings/{id}/status", admin(bookingHandler.UpdateStatus))
	mux.Handle("PATCH /api/bookings/{id}/payment", admin(bookingHandler.UpdatePayment))

	mux.Handle("GET /api/users", admin(userHandler.List))
	mux.Handle("POST /api/users/{id}/toggle-block", admin(userHandler.ToggleBlock))
	mux.Handle("GET /api/admin/stats", admin(bookingHandler.Stats))

	mux.HandleFunc("POST /api/assistant", assistantHandler.Ask)

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(deps.AllowedOrigins),
	)
}
