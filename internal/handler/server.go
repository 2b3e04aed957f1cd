// Package handler implements the HTTP handlers for the planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, day.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/middleware"
	"github.com/travelnest/planner/internal/store"
)

// AccountServicer defines the account operations the handlers depend on.
// *service.AccountService satisfies it.
type AccountServicer interface {
	SignUp(ctx context.Context, name, email, password string) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignOut(ctx context.Context, token string) error
}

// StoreOpener hands out the live trip store of a signed-in user.
// *store.Registry satisfies it.
type StoreOpener interface {
	Open(ctx context.Context, sess domain.Session) (*store.Store, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	accounts AccountServicer
	stores   StoreOpener
	sessions middleware.SessionResolver
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(accounts AccountServicer, stores StoreOpener, sessions middleware.SessionResolver, log *slog.Logger) *Server {
	return &Server{accounts: accounts, stores: stores, sessions: sessions, log: log}
}

// Routes returns the API router. Everything except health, the API
// description, sign-up and sign-in requires a bearer session.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Post("/signup", s.SignUp)
	r.Post("/signin", s.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.sessions))

		r.Post("/signout", s.SignOut)
		r.Get("/export", s.GetExport)
		r.Get("/trips", s.ListTrips)
		r.Post("/trips", s.CreateTrip)
		r.Route("/trips/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTripOverview)
			r.Get("/days/{dayNumber}", s.GetDay)
			r.Post("/days/{dayNumber}/activities", s.AddActivity)
			r.Post("/destinations", s.AddDestination)
			r.Get("/map", s.GetMap)
			r.Get("/notes", s.GetNotes)
			r.Put("/notes", s.PutNotes)
			r.Get("/plans", s.GetPlans)
		})
	})
	return r
}

// userStore opens the trip store of the request's session.
// Writes the error response and returns nil on failure.
func (s *Server) userStore(w http.ResponseWriter, r *http.Request) *store.Store {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in required")
		return nil
	}
	st, err := s.stores.Open(r.Context(), sess)
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil
	}
	return st
}
