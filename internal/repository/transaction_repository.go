package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// TransactionRepo is the MySQL-backed TransactionStore for the
// `transactions` table. Rows are insert-and-update only; terminal
// transactions stay around as history.
type TransactionRepo struct{ db *sql.DB }

// NewTransactionRepo returns a TransactionRepo bound to the given
// database.
func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionCols = "id, listing_id, collector_id, transporter_id, buyer_id, status, total_amount, pickup_date, delivery_date, created_at, updated_at"

func scanTransaction(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	var status string
	var transporterID, buyerID sql.NullInt64
	var pickup, delivery sql.NullTime
	err := row.Scan(&t.ID, &t.ListingID, &t.CollectorID, &transporterID, &buyerID,
		&status, &t.TotalAmount, &pickup, &delivery, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return model.Transaction{}, err
	}
	t.Status = model.TransactionStatus(status)
	if transporterID.Valid {
		v := uint64(transporterID.Int64)
		t.TransporterID = &v
	}
	if buyerID.Valid {
		v := uint64(buyerID.Int64)
		t.BuyerID = &v
	}
	if pickup.Valid {
		v := pickup.Time
		t.PickupDate = &v
	}
	if delivery.Valid {
		v := delivery.Time
		t.DeliveryDate = &v
	}
	return t, nil
}

// Create inserts a transaction with status pending and populates the
// generated id and timestamps on the record.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	t.Status = model.TransactionPending
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (listing_id, collector_id, transporter_id, buyer_id, status, total_amount, pickup_date, delivery_date) VALUES (?,?,?,?,?,?,?,?)",
		t.ListingID, t.CollectorID, t.TransporterID, t.BuyerID, string(t.Status), t.TotalAmount, t.PickupDate, t.DeliveryDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	got, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = got
	return nil
}

// GetByID fetches a transaction by id.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		"SELECT "+transactionCols+" FROM transactions WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, ErrNotFound
	}
	return t, err
}

// Update merges the non-nil fields of upd over the stored row,
// refreshes updated_at and returns the updated transaction.
func (r *TransactionRepo) Update(ctx context.Context, id uint64, upd TransactionUpdate) (model.Transaction, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, string(*upd.Status))
	}
	if upd.PickupDate != nil {
		sets = append(sets, "pickup_date=?")
		args = append(args, *upd.PickupDate)
	}
	if upd.DeliveryDate != nil {
		sets = append(sets, "delivery_date=?")
		args = append(args, *upd.DeliveryDate)
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at=CURRENT_TIMESTAMP")
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE transactions SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return model.Transaction{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// ListByParty returns the transactions in which the user participates
// under the given role, newest first. A collector sees transactions
// against their listings; transporters and buyers see the ones they
// initiated.
func (r *TransactionRepo) ListByParty(ctx context.Context, userID uint64, role model.Role) ([]model.Transaction, error) {
	var col string
	switch role {
	case model.RoleCollector:
		col = "collector_id"
	case model.RoleTransporter:
		col = "transporter_id"
	case model.RoleBuyer:
		col = "buyer_id"
	default:
		return []model.Transaction{}, nil
	}
	return r.list(ctx,
		"SELECT "+transactionCols+" FROM transactions WHERE "+col+"=? ORDER BY created_at DESC", userID)
}

// ListByListing returns all transactions ever created against the
// listing, newest first.
func (r *TransactionRepo) ListByListing(ctx context.Context, listingID uint64) ([]model.Transaction, error) {
	return r.list(ctx,
		"SELECT "+transactionCols+" FROM transactions WHERE listing_id=? ORDER BY created_at DESC", listingID)
}

func (r *TransactionRepo) list(ctx context.Context, query string, arg any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
