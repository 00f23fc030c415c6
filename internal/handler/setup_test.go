package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/recycle-connect/internal/config"
	"github.com/iliyamo/recycle-connect/internal/handler"
	"github.com/iliyamo/recycle-connect/internal/model"
	"github.com/iliyamo/recycle-connect/internal/repository"
	"github.com/iliyamo/recycle-connect/internal/router"
)

// testServer runs the real router and middleware against in-memory
// stores, so tests exercise the same request path as production minus
// MySQL, Redis and the broker.
type testServer struct {
	e        *echo.Echo
	users    *repository.MemoryUserStore
	listings *repository.MemoryListingStore
	txs      *repository.MemoryTransactionStore
	sessions *repository.MemorySessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		Env:             "test",
		Port:            "0",
		SessionTTLHours: 1,
		BcryptCost:      bcrypt.MinCost,
	}
	s := &testServer{
		users:    repository.NewMemoryUserStore(),
		listings: repository.NewMemoryListingStore(),
		txs:      repository.NewMemoryTransactionStore(),
		sessions: repository.NewMemorySessionStore(),
	}
	authH := handler.NewAuthHandler(cfg, s.users, s.sessions)
	listingH := handler.NewListingHandler(s.listings, s.txs)
	txH := handler.NewTransactionHandler(s.listings, s.txs, nil)

	s.e = echo.New()
	router.RegisterRoutes(s.e)
	router.RegisterAPI(s.e, authH, listingH, txH, s.users, s.sessions, nil, config.CacheConfig{})
	return s
}

// do issues a request against the test server. A non-empty session
// token is attached as the session cookie.
func (s *testServer) do(t *testing.T, method, path, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: session})
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// decodeList unmarshals a JSON array response body.
func decodeList(t *testing.T, rec *httptest.ResponseRecorder, out *[]map[string]any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// register creates an account through the API and returns its id.
func (s *testServer) register(t *testing.T, username, email string, role model.Role) uint64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": "hunter2hunter2",
		"fullName": "Test " + username,
		"role":     string(role),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return uint64(decode(t, rec)["id"].(float64))
}

// login authenticates and returns the session token from the cookie.
func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    email,
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_id" && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("no session cookie set on login")
	return ""
}

// signup registers and logs a user in, returning the session token.
func (s *testServer) signup(t *testing.T, username string, role model.Role) string {
	t.Helper()
	email := username + "@example.com"
	s.register(t, username, email, role)
	return s.login(t, email)
}

// listingStatus reads a listing's status straight from the store.
func (s *testServer) listingStatus(t *testing.T, id uint64) model.ListingStatus {
	t.Helper()
	l, err := s.listings.GetByID(context.Background(), id)
	require.NoError(t, err)
	return l.Status
}
