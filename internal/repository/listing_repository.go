package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// ListingRepo is the MySQL-backed ListingStore for the
// `waste_listings` table. Status writes go through UpdateStatus and
// UpdateStatusFrom so the lifecycle rules stay enforceable above this
// layer; the CAS variant is what serializes transaction creation
// against a single listing.
type ListingRepo struct{ db *sql.DB }

// NewListingRepo returns a ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = "id, collector_id, material_type, quantity, unit, description, location, price, status, created_at, updated_at"

func scanListing(row interface{ Scan(...any) error }) (model.WasteListing, error) {
	var l model.WasteListing
	var material, status string
	err := row.Scan(&l.ID, &l.CollectorID, &material, &l.Quantity, &l.Unit,
		&l.Description, &l.Location, &l.Price, &status, &l.CreatedAt, &l.UpdatedAt)
	l.MaterialType = model.MaterialType(material)
	l.Status = model.ListingStatus(status)
	return l, err
}

// Create inserts a listing with status available and populates the
// generated id and timestamps on the record.
func (r *ListingRepo) Create(ctx context.Context, l *model.WasteListing) error {
	l.Status = model.ListingAvailable
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO waste_listings (collector_id, material_type, quantity, unit, description, location, price, status) VALUES (?,?,?,?,?,?,?,?)",
		l.CollectorID, string(l.MaterialType), l.Quantity, l.Unit, l.Description, l.Location, l.Price, string(l.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	got, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = got
	return nil
}

// GetByID fetches a listing by id.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.WasteListing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx,
		"SELECT "+listingCols+" FROM waste_listings WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.WasteListing{}, ErrNotFound
	}
	return l, err
}

// Update merges the non-nil fields of upd over the stored row,
// refreshes updated_at and returns the updated listing.
func (r *ListingRepo) Update(ctx context.Context, id uint64, upd ListingUpdate) (model.WasteListing, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	if upd.MaterialType != nil {
		sets = append(sets, "material_type=?")
		args = append(args, string(*upd.MaterialType))
	}
	if upd.Quantity != nil {
		sets = append(sets, "quantity=?")
		args = append(args, *upd.Quantity)
	}
	if upd.Unit != nil {
		sets = append(sets, "unit=?")
		args = append(args, *upd.Unit)
	}
	if upd.Description != nil {
		sets = append(sets, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Location != nil {
		sets = append(sets, "location=?")
		args = append(args, *upd.Location)
	}
	if upd.Price != nil {
		sets = append(sets, "price=?")
		args = append(args, *upd.Price)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, string(*upd.Status))
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at=CURRENT_TIMESTAMP")
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			"UPDATE waste_listings SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return model.WasteListing{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus unconditionally sets the listing status.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id uint64, status model.ListingStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE waste_listings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		string(status), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatusFrom sets the status only when the row currently holds
// the expected one. ErrInvalidState signals a lost race or an illegal
// starting state; ErrNotFound signals a missing row.
func (r *ListingRepo) UpdateStatusFrom(ctx context.Context, id uint64, from, to model.ListingStatus) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE waste_listings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?",
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInvalidState
	}
	return nil
}

// Delete removes the listing row. ErrNotFound when it did not exist.
func (r *ListingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM waste_listings WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCollector returns all listings owned by the collector, newest
// first.
func (r *ListingRepo) ListByCollector(ctx context.Context, collectorID uint64) ([]model.WasteListing, error) {
	return r.list(ctx,
		"SELECT "+listingCols+" FROM waste_listings WHERE collector_id=? ORDER BY created_at DESC", collectorID)
}

// ListByStatus returns all listings in the given status, newest first.
func (r *ListingRepo) ListByStatus(ctx context.Context, status model.ListingStatus) ([]model.WasteListing, error) {
	return r.list(ctx,
		"SELECT "+listingCols+" FROM waste_listings WHERE status=? ORDER BY created_at DESC", string(status))
}

func (r *ListingRepo) list(ctx context.Context, query string, arg any) ([]model.WasteListing, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.WasteListing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
