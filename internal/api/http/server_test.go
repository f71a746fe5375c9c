package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentalstore-backend/internal/config"
	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/idempotency"
	"rentalstore-backend/internal/repository/memory"
	"rentalstore-backend/internal/security"
	"rentalstore-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

type testEnv struct {
	handler http.Handler
	store   *memory.Store
	tokens  security.TokenManager
	user    string
	admin   string
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.RequestTimeoutSeconds = 5
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 1000
	return cfg
}

func testServices(store *memory.Store, tokens security.TokenManager) Services {
	return Services{
		Rentals:   service.NewRentalService(store.Repositories, store),
		Customers: service.NewCustomerService(store.Customers),
		Genres:    service.NewGenreService(store.Genres),
		Movies:    service.NewMovieService(store.Movies, store.Genres),
		Users:     service.NewUserService(store.Users, tokens),
		Auth:      service.NewAuthService(store.Users, tokens),
	}
}

func newTestEnv(t *testing.T, cfg *config.Config, idem idempotency.Store) *testEnv {
	t.Helper()
	store := memory.NewStore()
	tokens := security.NewTokenManager(testSecret, time.Hour)
	srv := NewServer(cfg, testServices(store, tokens), tokens, idem)

	user := &domain.User{Name: "Regular", Email: "user@example.com"}
	admin := &domain.User{Name: "Administrator", Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, store.Users.Create(context.Background(), user))
	require.NoError(t, store.Users.Create(context.Background(), admin))

	userToken, err := tokens.GenerateAuthToken(user)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateAuthToken(admin)
	require.NoError(t, err)

	return &testEnv{handler: srv.Handler(), store: store, tokens: tokens, user: userToken, admin: adminToken}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T, stock int) (*domain.Customer, *domain.Movie) {
	t.Helper()
	ctx := context.Background()
	c := &domain.Customer{Name: "customer1", Phone: "12345"}
	require.NoError(t, e.store.Customers.Create(ctx, c))
	m := &domain.Movie{Title: "Terminator", Genre: domain.Genre{ID: uuid.New(), Name: "Action"}, NumberInStock: stock, DailyRentalRate: 2}
	require.NoError(t, e.store.Movies.Create(ctx, m))
	return c, m
}

func text(rec *httptest.ResponseRecorder) string {
	return strings.TrimSpace(rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	rec := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_EchoesValidID(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	id := uuid.NewString()
	rec := env.do(t, http.MethodGet, "/health", nil, map[string]string{"X-Request-Id": id})
	assert.Equal(t, id, rec.Header().Get("X-Request-Id"))

	rec = env.do(t, http.MethodGet, "/health", nil, map[string]string{"X-Request-Id": "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get("X-Request-Id"))
}

func TestOpenRental_HTTP(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	c, m := env.seed(t, 1)
	auth := map[string]string{"x-auth-token": env.user}
	body := map[string]string{"customerId": c.ID.String(), "movieId": m.ID.String()}

	t.Run("No token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/rentals", body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Access denied. No token provided.", text(rec))
	})

	t.Run("Invalid token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/rentals", body, map[string]string{"x-auth-token": "garbage"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Missing customerId", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/rentals", map[string]string{"movieId": m.ID.String()}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, text(rec), "customerId")
	})

	t.Run("Malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rentals", strings.NewReader("{"))
		req.Header.Set("x-auth-token", env.user)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown customer", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/rentals",
			map[string]string{"customerId": uuid.NewString(), "movieId": m.ID.String()}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid customer.", text(rec))
	})

	t.Run("Unknown movie", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/rentals",
			map[string]string{"customerId": c.ID.String(), "movieId": uuid.NewString()}, auth)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid movie.", text(rec))
	})

	t.Run("Success", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/rentals", body, auth)
		require.Equal(t, http.StatusOK, rec.Code)

		rental := decode(t, rec)
		assert.NotEmpty(t, rental["_id"])
		assert.Nil(t, rental["dateReturned"])
		assert.Nil(t, rental["rentalFee"])
		assert.Equal(t, "Terminator", rental["movie"].(map[string]any)["title"])

		stock, err := env.store.Inventory.Stock(context.Background(), m.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stock)
	})

	t.Run("Out of stock", func(t *testing.T) {
		other := &domain.Customer{Name: "customer2", Phone: "12345"}
		require.NoError(t, env.store.Customers.Create(context.Background(), other))

		rec := env.do(t, http.MethodPost, "/api/rentals",
			map[string]string{"customerId": other.ID.String(), "movieId": m.ID.String()},
			map[string]string{"Authorization": "Bearer " + env.user})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Movie not in stock.", text(rec))
	})
}

func TestReturn_HTTP(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	c, m := env.seed(t, 1)
	auth := map[string]string{"x-auth-token": env.user}
	body := map[string]string{"customerId": c.ID.String(), "movieId": m.ID.String()}

	rec := env.do(t, http.MethodPost, "/api/returns", body, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Rental not found.", text(rec))

	rec = env.do(t, http.MethodPost, "/api/rentals", body, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/returns", body, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	rental := decode(t, rec)
	assert.NotNil(t, rental["dateReturned"])
	assert.Equal(t, 0.0, rental["rentalFee"])

	rec = env.do(t, http.MethodPost, "/api/returns", body, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Return already processed.", text(rec))

	stock, err := env.store.Inventory.Stock(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stock)
}

func TestRentalsByID_HTTP(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	c, m := env.seed(t, 2)
	body := map[string]string{"customerId": c.ID.String(), "movieId": m.ID.String()}

	rec := env.do(t, http.MethodPost, "/api/rentals", body, map[string]string{"x-auth-token": env.user})
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode(t, rec)["_id"].(string)

	t.Run("Malformed id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/rentals/1", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Get", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/rentals/"+id, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id, decode(t, rec)["_id"])
	})

	t.Run("List", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/rentals", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("Delete requires admin", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/rentals/"+id, nil, map[string]string{"x-auth-token": env.user})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Admin delete releases stock", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/rentals/"+id, nil, map[string]string{"x-auth-token": env.admin})
		assert.Equal(t, http.StatusOK, rec.Code)

		stock, err := env.store.Inventory.Stock(context.Background(), m.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stock)

		rec = env.do(t, http.MethodGet, "/api/rentals/"+id, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalog_HTTP(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	auth := map[string]string{"x-auth-token": env.user}

	rec := env.do(t, http.MethodPost, "/api/genres", map[string]string{"name": "Act"}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/genres", map[string]string{"name": "Action"}, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	genreID := decode(t, rec)["_id"].(string)

	rec = env.do(t, http.MethodPost, "/api/movies", map[string]any{
		"title": "Terminator", "genreId": uuid.NewString(), "numberInStock": 3, "dailyRentalRate": 2,
	}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid genre.", text(rec))

	rec = env.do(t, http.MethodPost, "/api/movies", map[string]any{
		"title": "Terminator", "genreId": genreID, "numberInStock": 3, "dailyRentalRate": 2,
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	movie := decode(t, rec)
	assert.Equal(t, "Action", movie["genre"].(map[string]any)["name"])

	rec = env.do(t, http.MethodPost, "/api/customers", map[string]any{"name": "Robert", "phone": "12345", "isGold": true}, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	customerID := decode(t, rec)["_id"].(string)

	rec = env.do(t, http.MethodPut, "/api/customers/"+uuid.NewString(), map[string]any{"name": "Robert", "phone": "12345"}, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "The customer with the given ID was not found.", text(rec))

	rec = env.do(t, http.MethodDelete, "/api/customers/"+customerID, nil, auth)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/customers/"+customerID, nil, map[string]string{"x-auth-token": env.admin})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/movies", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var movies []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movies))
	assert.Len(t, movies, 1)
}

func TestUsersAndAuth_HTTP(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	register := map[string]string{"name": "Jane Doe", "email": "jane@example.com", "password": "secret1"}

	rec := env.do(t, http.MethodPost, "/api/users", register, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("x-auth-token")
	assert.NotEmpty(t, token)
	user := decode(t, rec)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "PasswordHash")

	rec = env.do(t, http.MethodPost, "/api/users", register, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already registered.", text(rec))

	rec = env.do(t, http.MethodGet, "/api/users/me", nil, map[string]string{"x-auth-token": token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane Doe", decode(t, rec)["name"])

	rec = env.do(t, http.MethodPost, "/api/auth", map[string]string{"email": "jane@example.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	claims, err := env.tokens.ValidateToken(rec.Body.String())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)

	rec = env.do(t, http.MethodPost, "/api/auth", map[string]string{"email": "jane@example.com", "password": "wrong-one"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email or password.", text(rec))
}

func TestIdempotencyKey_HTTP(t *testing.T) {
	env := newTestEnv(t, testConfig(), idempotency.NewMemoryStore(time.Hour))
	c, m := env.seed(t, 5)
	body := map[string]string{"customerId": c.ID.String(), "movieId": m.ID.String()}
	headers := map[string]string{"x-auth-token": env.user, "Idempotency-Key": "retry-1"}

	rec := env.do(t, http.MethodPost, "/api/rentals", body, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/rentals", body, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)

	stock, err := env.store.Inventory.Stock(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stock)

	headers["Idempotency-Key"] = "retry-2"
	rec = env.do(t, http.MethodPost, "/api/returns", body, headers)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type flakyRentals struct {
	service.RentalService
	failures int
	calls    int
}

func (f *flakyRentals) OpenRental(ctx context.Context, customerID, movieID uuid.UUID) (*domain.Rental, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &domain.TransactionError{Op: "open rental", Err: errors.New("connection reset")}
	}
	return f.RentalService.OpenRental(ctx, customerID, movieID)
}

func TestIdempotencyKey_RetryAfterServerError(t *testing.T) {
	store := memory.NewStore()
	tokens := security.NewTokenManager(testSecret, time.Hour)
	services := testServices(store, tokens)
	rentals := &flakyRentals{RentalService: services.Rentals, failures: 1}
	services.Rentals = rentals
	env := &testEnv{
		handler: NewServer(testConfig(), services, tokens, idempotency.NewMemoryStore(time.Hour)).Handler(),
		store:   store,
		tokens:  tokens,
	}
	user := &domain.User{Name: "Regular", Email: "user@example.com"}
	require.NoError(t, store.Users.Create(context.Background(), user))
	token, err := tokens.GenerateAuthToken(user)
	require.NoError(t, err)

	c, m := env.seed(t, 5)
	body := map[string]string{"customerId": c.ID.String(), "movieId": m.ID.String()}
	headers := map[string]string{"x-auth-token": token, "Idempotency-Key": "k1"}

	rec := env.do(t, http.MethodPost, "/api/rentals", body, headers)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/rentals", body, headers)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, rentals.calls)

	rec = env.do(t, http.MethodPost, "/api/rentals", body, headers)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, rentals.calls)

	stock, err := store.Inventory.Stock(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stock)
}

func TestIdempotencyKey_RetryAfterRejection(t *testing.T) {
	env := newTestEnv(t, testConfig(), idempotency.NewMemoryStore(time.Hour))
	c, m := env.seed(t, 0)
	body := map[string]string{"customerId": c.ID.String(), "movieId": m.ID.String()}
	headers := map[string]string{"x-auth-token": env.user, "Idempotency-Key": "restock-1"}

	rec := env.do(t, http.MethodPost, "/api/rentals", body, headers)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Movie not in stock.", text(rec))

	require.NoError(t, env.store.Inventory.Increment(context.Background(), m.ID))

	rec = env.do(t, http.MethodPost, "/api/rentals", body, headers)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdempotencyKey_ReleasedAfterPanic(t *testing.T) {
	store := memory.NewStore()
	tokens := security.NewTokenManager(testSecret, time.Hour)
	services := testServices(store, tokens)
	services.Rentals = panickingRentals{}
	keys := idempotency.NewMemoryStore(time.Hour)
	handler := NewServer(testConfig(), services, tokens, keys).Handler()

	user := &domain.User{Name: "Regular", Email: "user@example.com"}
	require.NoError(t, store.Users.Create(context.Background(), user))
	token, err := tokens.GenerateAuthToken(user)
	require.NoError(t, err)

	body := strings.NewReader(`{"customerId":"` + uuid.NewString() + `","movieId":"` + uuid.NewString() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/rentals", body)
	req.Header.Set("x-auth-token", token)
	req.Header.Set("Idempotency-Key", "p1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	claimed, err := keys.Claim(context.Background(), user.ID.String()+":POST /api/rentals:p1")
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRateLimit_HTTP(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	env := newTestEnv(t, cfg, nil)

	rec := env.do(t, http.MethodGet, "/api/genres", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/genres", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

type panickingRentals struct {
	service.RentalService
}

func TestPanicRecovery_HTTP(t *testing.T) {
	store := memory.NewStore()
	tokens := security.NewTokenManager(testSecret, time.Hour)
	services := testServices(store, tokens)
	services.Rentals = panickingRentals{}
	handler := NewServer(testConfig(), services, tokens, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/rentals", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something failed.", text(rec))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, testConfig(), nil)
	env.do(t, http.MethodGet, "/health", nil, nil)

	rec := env.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rentalstore_http_requests_total")
}
