package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recycle-connect/internal/model"
	"github.com/iliyamo/recycle-connect/internal/repository"
)

// ListingHandler bundles the stores needed by listing endpoints. The
// transaction store is consulted on delete to keep referenced listings
// alive.
type ListingHandler struct {
	Listings     repository.ListingStore
	Transactions repository.TransactionStore
}

// NewListingHandler constructs a ListingHandler.
func NewListingHandler(listings repository.ListingStore, transactions repository.TransactionStore) *ListingHandler {
	return &ListingHandler{Listings: listings, Transactions: transactions}
}

type createListingReq struct {
	MaterialType string  `json:"materialType"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	Price        float64 `json:"price"`
}

type updateListingReq struct {
	MaterialType *string  `json:"materialType"`
	Quantity     *float64 `json:"quantity"`
	Unit         *string  `json:"unit"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	Price        *float64 `json:"price"`
	Status       *string  `json:"status"`
}

// Create publishes a new waste listing for the authenticated
// collector. New listings always start as available.
func (h *ListingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	mt, ok := model.ParseMaterialType(req.MaterialType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid material type"})
	}
	if req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be greater than zero"})
	}
	if strings.TrimSpace(req.Unit) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unit is required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l := model.WasteListing{
		CollectorID:  userID,
		MaterialType: mt,
		Quantity:     req.Quantity,
		Unit:         strings.TrimSpace(req.Unit),
		Description:  optional(req.Description),
		Location:     optional(req.Location),
		Price:        req.Price,
	}
	if err := h.Listings.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create listing failed"})
	}
	return c.JSON(http.StatusCreated, newListingResponse(l))
}

// ListMine returns all listings owned by the authenticated collector,
// newest first, in every status.
func (h *ListingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ls, err := h.Listings.ListByCollector(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newListingResponses(ls))
}

// ListAvailable returns the marketplace view: every listing still open
// for a transaction.
func (h *ListingHandler) ListAvailable(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ls, err := h.Listings.ListByStatus(ctx, model.ListingAvailable)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newListingResponses(ls))
}

// Update modifies an owned listing. Status changes are checked against
// the listing lifecycle; other fields are merged as-is.
func (h *ListingHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}
	var req updateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if l.CollectorID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only update your own listings"})
	}

	upd := repository.ListingUpdate{
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
	}
	if req.MaterialType != nil {
		mt, ok := model.ParseMaterialType(*req.MaterialType)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid material type"})
		}
		upd.MaterialType = &mt
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be greater than zero"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.Status != nil {
		st, ok := model.ParseListingStatus(*req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		if !model.ValidListingTransition(l.Status, st) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
		}
		upd.Status = &st
	}

	out, err := h.Listings.Update(ctx, listingID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update listing failed"})
	}
	return c.JSON(http.StatusOK, newListingResponse(out))
}

// Delete removes an owned listing. Listings referenced by a pending
// transaction cannot be deleted; cancel the transaction first.
func (h *ListingHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if l.CollectorID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only delete your own listings"})
	}

	txs, err := h.Transactions.ListByListing(ctx, listingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for _, t := range txs {
		if t.Status == model.TransactionPending {
			return c.JSON(http.StatusConflict, echo.Map{"error": "listing has a pending transaction"})
		}
	}

	if err := h.Listings.Delete(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete listing failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "listing deleted successfully"})
}
