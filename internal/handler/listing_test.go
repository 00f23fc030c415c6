package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// createListing posts a minimal valid listing and returns its id.
func createListing(t *testing.T, s *testServer, token string, material string, qty, price float64) uint64 {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/listings", token, map[string]any{
		"materialType": material,
		"quantity":     qty,
		"unit":         "kg",
		"price":        price,
		"location":     "Lisbon",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return uint64(decode(t, rec)["id"].(float64))
}

func TestCreateListing(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "carla", model.RoleCollector)

	rec := s.do(t, http.MethodPost, "/api/listings", token, map[string]any{
		"materialType": "paper",
		"quantity":     10.0,
		"unit":         "kg",
		"price":        2.0,
		"description":  "old newspapers",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "paper", body["materialType"])
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, 10.0, body["quantity"])
	assert.Equal(t, 2.0, body["price"])
	assert.NotZero(t, body["collectorId"])
}

func TestCreateListingValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signup(t, "carla", model.RoleCollector)

	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"bad material", map[string]any{"materialType": "plutonium", "quantity": 1.0, "unit": "kg", "price": 1.0}, "invalid material type"},
		{"zero quantity", map[string]any{"materialType": "glass", "quantity": 0.0, "unit": "kg", "price": 1.0}, "quantity must be greater than zero"},
		{"missing unit", map[string]any{"materialType": "glass", "quantity": 1.0, "price": 1.0}, "unit is required"},
		{"negative price", map[string]any{"materialType": "glass", "quantity": 1.0, "unit": "kg", "price": -1.0}, "price must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/listings", token, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.want, decode(t, rec)["error"])
		})
	}
}

func TestListingMutationsAreCollectorOnly(t *testing.T) {
	s := newTestServer(t)
	buyer := s.signup(t, "bruno", model.RoleBuyer)

	rec := s.do(t, http.MethodPost, "/api/listings", buyer, map[string]any{
		"materialType": "paper", "quantity": 1.0, "unit": "kg", "price": 1.0,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/listings/1", buyer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateListing(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "carla", model.RoleCollector)
	other := s.signup(t, "rita", model.RoleCollector)
	id := createListing(t, s, owner, "metal", 5, 3)

	// Only the owner may update.
	rec := s.do(t, http.MethodPut, fmt.Sprintf("/api/listings/%d", id), other, map[string]any{"price": 9.0})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "you can only update your own listings", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/listings/%d", id), owner, map[string]any{
		"price":       4.5,
		"description": "scrap copper",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, 4.5, body["price"])
	assert.Equal(t, "scrap copper", body["description"])
	assert.Equal(t, 5.0, body["quantity"])

	// Lifecycle rules apply to status edits: available cannot jump to
	// delivered.
	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/listings/%d", id), owner, map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid status transition", decode(t, rec)["error"])

	// Cancelling an open listing is allowed.
	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/listings/%d", id), owner, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode(t, rec)["status"])

	rec = s.do(t, http.MethodPut, "/api/listings/999", owner, map[string]any{"price": 1.0})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteListing(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "carla", model.RoleCollector)
	buyer := s.signup(t, "bruno", model.RoleBuyer)
	id := createListing(t, s, owner, "plastic", 8, 1)

	// A pending transaction pins the listing.
	rec := s.do(t, http.MethodPost, "/api/transactions", buyer, map[string]any{"listingId": id})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	txID := uint64(decode(t, rec)["id"].(float64))

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/listings/%d", id), owner, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "listing has a pending transaction", decode(t, rec)["error"])

	// Once the transaction is cancelled the listing can go.
	rec = s.do(t, http.MethodPut, fmt.Sprintf("/api/transactions/%d", txID), buyer, map[string]any{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/listings/%d", id), owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/listings/%d", id), owner, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAvailableAndMine(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup(t, "carla", model.RoleCollector)
	buyer := s.signup(t, "bruno", model.RoleBuyer)

	a := createListing(t, s, owner, "paper", 10, 2)
	b := createListing(t, s, owner, "glass", 4, 1)

	// Claiming listing A removes it from the marketplace feed.
	rec := s.do(t, http.MethodPost, "/api/transactions", buyer, map[string]any{"listingId": a})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/listings/available", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []map[string]any
	decodeList(t, rec, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, float64(b), feed[0]["id"])

	// The owner still sees both of their listings.
	rec = s.do(t, http.MethodGet, "/api/listings/collector", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []map[string]any
	decodeList(t, rec, &mine)
	assert.Len(t, mine, 2)
}
