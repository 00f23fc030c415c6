package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/recycle-connect/internal/model"
	"github.com/iliyamo/recycle-connect/internal/queue"
	"github.com/iliyamo/recycle-connect/internal/repository"
)

// TransactionHandler bundles the stores needed by transaction
// endpoints. Publish is called after a transaction completes; nil
// disables event publishing (tests, broker-less deployments).
type TransactionHandler struct {
	Listings     repository.ListingStore
	Transactions repository.TransactionStore
	Publish      func(ctx context.Context, ev queue.TransactionCompletedEvent) error
}

// NewTransactionHandler constructs a TransactionHandler.
func NewTransactionHandler(listings repository.ListingStore, transactions repository.TransactionStore,
	publish func(ctx context.Context, ev queue.TransactionCompletedEvent) error) *TransactionHandler {
	return &TransactionHandler{Listings: listings, Transactions: transactions, Publish: publish}
}

type createTransactionReq struct {
	ListingID  uint64 `json:"listingId"`
	PickupDate string `json:"pickupDate"`
}

type updateTransactionReq struct {
	Status       *string `json:"status"`
	PickupDate   *string `json:"pickupDate"`
	DeliveryDate *string `json:"deliveryDate"`
}

// Create opens a transaction against an available listing. Claiming
// the listing is a compare-and-swap on its status, so two concurrent
// requests for the same listing cannot both succeed.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if role == model.RoleCollector {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only transporters and buyers can create transactions"})
	}

	var req createTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ListingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listingId is required"})
	}
	var pickup *time.Time
	if req.PickupDate != "" {
		t, err := parseDate(req.PickupDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pickup date"})
		}
		pickup = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if l.CollectorID == userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you cannot transact on your own listing"})
	}

	next := model.ListingStatusOnTransactionCreate(role)
	if err := h.Listings.UpdateStatusFrom(ctx, l.ID, model.ListingAvailable, next); err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "this listing is not available"})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update listing failed"})
	}

	t := model.Transaction{
		ListingID:   l.ID,
		CollectorID: l.CollectorID,
		TotalAmount: l.Price * l.Quantity,
		PickupDate:  pickup,
	}
	switch role {
	case model.RoleTransporter:
		t.TransporterID = &userID
	case model.RoleBuyer:
		t.BuyerID = &userID
	}
	if err := h.Transactions.Create(ctx, &t); err != nil {
		// Release the listing so it is not stuck in pending_pickup.
		_ = h.Listings.UpdateStatusFrom(ctx, l.ID, next, model.ListingAvailable)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create transaction failed"})
	}
	return c.JSON(http.StatusCreated, newTransactionResponse(t))
}

// ListMine returns the transactions the caller participates in,
// scoped by the party column matching their role.
func (h *TransactionHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ts, err := h.Transactions.ListByParty(ctx, userID, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, newTransactionResponses(ts))
}

// Update changes a transaction's status or schedule dates. Only
// involved parties may touch it. Completing or cancelling cascades to
// the listing: completed closes it, cancelled returns it to the
// marketplace.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	txID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}
	var req updateTransactionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Transactions.GetByID(ctx, txID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !t.PartyFor(userID, role) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not involved in this transaction"})
	}

	upd := repository.TransactionUpdate{}
	if req.PickupDate != nil {
		d, err := parseDate(*req.PickupDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid pickup date"})
		}
		upd.PickupDate = &d
	}
	if req.DeliveryDate != nil {
		d, err := parseDate(*req.DeliveryDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid delivery date"})
		}
		upd.DeliveryDate = &d
	}
	if req.Status != nil {
		st, ok := model.ParseTransactionStatus(*req.Status)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		if !model.ValidTransactionTransition(t.Status, st) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status transition"})
		}
		upd.Status = &st
	}

	out, err := h.Transactions.Update(ctx, txID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update transaction failed"})
	}

	if upd.Status != nil && *upd.Status != t.Status {
		h.cascadeListing(ctx, out, *upd.Status)
		if *upd.Status == model.TransactionCompleted {
			h.publishCompleted(out)
		}
	}
	return c.JSON(http.StatusOK, newTransactionResponse(out))
}

// cascadeListing moves the listing in step with a transaction status
// change. Failures are logged by the store layer; the transaction
// update itself is already committed.
func (h *TransactionHandler) cascadeListing(ctx context.Context, t model.Transaction, to model.TransactionStatus) {
	l, err := h.Listings.GetByID(ctx, t.ListingID)
	if err != nil {
		return
	}
	next := model.ListingStatusAfterTransactionUpdate(l.Status, to)
	if next != l.Status {
		_ = h.Listings.UpdateStatus(ctx, l.ID, next)
	}
}

// publishCompleted emits the completion event in the background so
// broker latency never delays the HTTP response.
func (h *TransactionHandler) publishCompleted(t model.Transaction) {
	if h.Publish == nil {
		return
	}
	ev := queue.TransactionCompletedEvent{
		TransactionID: t.ID,
		ListingID:     t.ListingID,
		CollectorID:   t.CollectorID,
		TransporterID: t.TransporterID,
		BuyerID:       t.BuyerID,
		TotalAmount:   t.TotalAmount,
		CompletedAt:   time.Now().UTC(),
	}
	if l, err := h.Listings.GetByID(context.Background(), t.ListingID); err == nil {
		ev.MaterialType = string(l.MaterialType)
		ev.Quantity = l.Quantity
		ev.Unit = l.Unit
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
