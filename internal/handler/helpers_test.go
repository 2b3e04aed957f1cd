package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelnest/planner/internal/auth"
	"github.com/travelnest/planner/internal/domain"
	"github.com/travelnest/planner/internal/handler"
	"github.com/travelnest/planner/internal/repo"
	"github.com/travelnest/planner/internal/repo/memory"
	"github.com/travelnest/planner/internal/service"
	"github.com/travelnest/planner/internal/store"
)

// ---- test doubles ----------------------------------------------------------

// failingTrips wraps a real TripRepo; Create fails while err is set.
type failingTrips struct {
	repo.TripRepo
	err error
}

func (f *failingTrips) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	if f.err != nil {
		return domain.Trip{}, f.err
	}
	return f.TripRepo.Create(ctx, t)
}

// mockAccounts is a test double for handler.AccountServicer.
// Set only the method fields your test needs.
type mockAccounts struct {
	signUp  func(ctx context.Context, name, email, password string) (domain.Session, error)
	signIn  func(ctx context.Context, email, password string) (domain.Session, error)
	signOut func(ctx context.Context, token string) error
}

func (m *mockAccounts) SignUp(ctx context.Context, name, email, password string) (domain.Session, error) {
	return m.signUp(ctx, name, email, password)
}
func (m *mockAccounts) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	return m.signIn(ctx, email, password)
}
func (m *mockAccounts) SignOut(ctx context.Context, token string) error {
	return m.signOut(ctx, token)
}

// compile-time checks
var (
	_ handler.AccountServicer = (*mockAccounts)(nil)
	_ handler.AccountServicer = (*service.AccountService)(nil)
	_ handler.StoreOpener     = (*store.Registry)(nil)
)

// ---- fixture ---------------------------------------------------------------

// apiFixture is the full HTTP stack over an in-memory backend.
type apiFixture struct {
	t        *testing.T
	handler  http.Handler
	registry *store.Registry
	trips    *failingTrips
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	log := slog.New(slog.DiscardHandler)

	backend := memory.NewBackend()
	trips := &failingTrips{TripRepo: backend.Trips}
	backend.Trips = trips

	authSvc := auth.NewService(backend.Users, auth.NewMemorySessions(), "handler-test-secret", time.Hour,
		auth.WithHashCost(bcrypt.MinCost), auth.WithLogger(log))
	reg := store.NewRegistry(backend, authSvc, log)
	t.Cleanup(reg.Shutdown)

	srv := handler.NewServer(service.NewAccountService(reg, authSvc), reg, authSvc, log)
	return &apiFixture{t: t, handler: srv.Routes(), registry: reg, trips: trips}
}

// newAccountsAPI wires only a mock account service.
func newAccountsAPI(t *testing.T, accounts handler.AccountServicer) http.Handler {
	t.Helper()
	return handler.NewServer(accounts, nil, nil, slog.New(slog.DiscardHandler)).Routes()
}

// do sends a JSON request. body may be nil, a string (sent verbatim) or any
// value to marshal.
func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	return serve(f.t, f.handler, method, path, token, body)
}

func serve(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// signUp creates an account and returns its bearer token.
func (f *apiFixture) signUp(email string) string {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/signup", "", map[string]string{
		"name": "Ada", "email": email, "password": "secret1",
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[sessionBody](f.t, rec).Token
}

// createParisTrip creates a five-day Paris trip and returns its id.
func (f *apiFixture) createParisTrip(token string) string {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/trips", token, map[string]string{
		"name": "Spring in Paris", "start_date": "2025-04-01", "end_date": "2025-04-05", "destination": "Paris",
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[overviewBody](f.t, rec).ID
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ---- response shapes -------------------------------------------------------

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type sessionBody struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

type activityBody struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Time      string `json:"time"`
	DayNumber int    `json:"day_number"`
	Image     string `json:"image"`
	MapsURL   string `json:"maps_url"`
}

type dayBody struct {
	Label      string         `json:"label"`
	DayNumber  int            `json:"day_number"`
	Date       string         `json:"date"`
	Suggested  bool           `json:"suggested"`
	Activities []activityBody `json:"activities"`
}

type overviewBody struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	City         string    `json:"city"`
	Image        string    `json:"image"`
	DayCount     int       `json:"day_count"`
	Notes        string    `json:"notes"`
	Destinations []any     `json:"destinations"`
	Itinerary    []dayBody `json:"itinerary"`
}

// requireError asserts status and error code, returning the message.
func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) string {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[errorBody](t, rec)
	require.Equal(t, code, body.Error.Code)
	return body.Error.Message
}

var errBackendDown = errors.New("connection refused")
