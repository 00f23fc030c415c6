package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// getUserID extracts the authenticated user's id from the echo
// context. SessionAuth stores it as uint64; the extra cases cover
// values injected by tests or future middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole extracts the authenticated user's role from the echo
// context.
func getRole(c echo.Context) (model.Role, error) {
	if s, ok := c.Get("role").(string); ok {
		if r, ok := model.ParseRole(s); ok {
			return r, nil
		}
	}
	return "", errors.New("invalid role in context")
}

// optional turns a possibly empty form value into a nullable field.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseDate accepts RFC3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// ----- response DTOs (wire contract, camelCase JSON) -----

type userResponse struct {
	ID              uint64    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	Phone           *string   `json:"phone,omitempty"`
	Address         *string   `json:"address,omitempty"`
	City            *string   `json:"city,omitempty"`
	Role            string    `json:"role"`
	ProfileComplete bool      `json:"profileComplete"`
	CreatedAt       time.Time `json:"createdAt"`
}

// newUserResponse strips the password hash from a user record.
func newUserResponse(u model.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FullName:        u.FullName,
		Phone:           u.Phone,
		Address:         u.Address,
		City:            u.City,
		Role:            string(u.Role),
		ProfileComplete: u.ProfileComplete,
		CreatedAt:       u.CreatedAt,
	}
}

type listingResponse struct {
	ID           uint64    `json:"id"`
	CollectorID  uint64    `json:"collectorId"`
	MaterialType string    `json:"materialType"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Description  *string   `json:"description,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newListingResponse(l model.WasteListing) listingResponse {
	return listingResponse{
		ID:           l.ID,
		CollectorID:  l.CollectorID,
		MaterialType: string(l.MaterialType),
		Quantity:     l.Quantity,
		Unit:         l.Unit,
		Description:  l.Description,
		Location:     l.Location,
		Price:        l.Price,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func newListingResponses(ls []model.WasteListing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, newListingResponse(l))
	}
	return out
}

type transactionResponse struct {
	ID            uint64     `json:"id"`
	ListingID     uint64     `json:"listingId"`
	CollectorID   uint64     `json:"collectorId"`
	TransporterID *uint64    `json:"transporterId,omitempty"`
	BuyerID       *uint64    `json:"buyerId,omitempty"`
	Status        string     `json:"status"`
	TotalAmount   float64    `json:"totalAmount"`
	PickupDate    *time.Time `json:"pickupDate,omitempty"`
	DeliveryDate  *time.Time `json:"deliveryDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func newTransactionResponse(t model.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		ListingID:     t.ListingID,
		CollectorID:   t.CollectorID,
		TransporterID: t.TransporterID,
		BuyerID:       t.BuyerID,
		Status:        string(t.Status),
		TotalAmount:   t.TotalAmount,
		PickupDate:    t.PickupDate,
		DeliveryDate:  t.DeliveryDate,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func newTransactionResponses(ts []model.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTransactionResponse(t))
	}
	return out
}
