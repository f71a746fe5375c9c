// Package http exposes the rental store over a JSON REST API.
package http

import (
	"net/http"

	"rentalstore-backend/internal/config"
	"rentalstore-backend/internal/idempotency"
	"rentalstore-backend/internal/security"
	"rentalstore-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Services are the application services the handlers delegate to.
type Services struct {
	Rentals   service.RentalService
	Customers service.CustomerService
	Genres    service.GenreService
	Movies    service.MovieService
	Users     service.UserService
	Auth      service.AuthService
}

type Server struct {
	cfg         *config.Config
	tokens      security.TokenManager
	limiter     *rate.Limiter
	idempotency idempotency.Store
	router      *mux.Router
}

// NewServer builds the router. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewServer(cfg *config.Config, services Services, tokens security.TokenManager, idem idempotency.Store) *Server {
	s := &Server{
		cfg:         cfg,
		tokens:      tokens,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst),
		idempotency: idem,
		router:      mux.NewRouter(),
	}

	s.router.Use(
		s.metricsMiddleware,
		s.loggingMiddleware,
		s.rateLimitMiddleware,
		s.timeoutMiddleware,
		s.authMiddleware,
		s.idempotencyMiddleware,
	)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found.")
	})

	s.registerRoutes(services)
	return s
}

// Handler returns the root handler. Request ids and panic recovery wrap the
// router so they also cover unmatched routes.
func (s *Server) Handler() http.Handler {
	return s.requestIDMiddleware(s.panicRecoveryMiddleware(s.router))
}

func (s *Server) registerRoutes(services Services) {
	r := s.router

	r.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	rentals := NewRentalHandler(services.Rentals)
	r.HandleFunc("/api/rentals", rentals.List).Methods(http.MethodGet)
	r.HandleFunc("/api/rentals", rentals.Open).Methods(http.MethodPost)
	r.HandleFunc("/api/rentals/{id}", rentals.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/rentals/{id}", rentals.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/returns", rentals.Return).Methods(http.MethodPost)

	genres := NewGenreHandler(services.Genres)
	r.HandleFunc("/api/genres", genres.List).Methods(http.MethodGet)
	r.HandleFunc("/api/genres", genres.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/genres/{id}", genres.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/genres/{id}", genres.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/genres/{id}", genres.Delete).Methods(http.MethodDelete)

	customers := NewCustomerHandler(services.Customers)
	r.HandleFunc("/api/customers", customers.List).Methods(http.MethodGet)
	r.HandleFunc("/api/customers", customers.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/customers/{id}", customers.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/customers/{id}", customers.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/customers/{id}", customers.Delete).Methods(http.MethodDelete)

	movies := NewMovieHandler(services.Movies)
	r.HandleFunc("/api/movies", movies.List).Methods(http.MethodGet)
	r.HandleFunc("/api/movies", movies.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/movies/{id}", movies.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/movies/{id}", movies.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/movies/{id}", movies.Delete).Methods(http.MethodDelete)

	users := NewUserHandler(services.Users, services.Auth)
	r.HandleFunc("/api/users", users.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/me", users.Me).Methods(http.MethodGet)
	r.HandleFunc("/api/auth", users.Login).Methods(http.MethodPost)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
