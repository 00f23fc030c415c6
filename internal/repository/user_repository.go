package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// UserRepo is the MySQL-backed UserStore. It mirrors the `users`
// table with raw SQL; duplicate detection relies on the unique
// indexes on email and username.
type UserRepo struct{ db *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = "id, username, email, password_hash, full_name, phone, address, city, role, profile_complete, created_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Phone, &u.Address, &u.City, &role, &u.ProfileComplete, &u.CreatedAt)
	u.Role = model.Role(role)
	return u, err
}

// Create inserts a user and populates the generated id and creation
// timestamp on the record. Email and username are stored normalized.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name, phone, address, city, role) VALUES (?,?,?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Phone, u.Address, u.City, string(u.Role))
	if err != nil {
		// MySQL 1062 = duplicate entry; the index name tells us which field.
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return ErrUsernameExists
			}
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	row := r.db.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE id=?", u.ID)
	got, err := scanUser(row)
	if err != nil {
		return err
	}
	*u = got
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE username=? LIMIT 1", strings.TrimSpace(username)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// UpdateProfile merges the non-nil fields of upd over the stored row
// and returns the updated user. Identity fields are never touched.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, upd UserProfileUpdate) (model.User, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, *upd.FullName)
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *upd.Phone)
	}
	if upd.Address != nil {
		sets = append(sets, "address=?")
		args = append(args, *upd.Address)
	}
	if upd.City != nil {
		sets = append(sets, "city=?")
		args = append(args, *upd.City)
	}
	if upd.ProfileComplete != nil {
		sets = append(sets, "profile_complete=?")
		args = append(args, *upd.ProfileComplete)
	}
	if len(sets) > 0 {
		args = append(args, id)
		// Zero rows affected can mean an identical write, so the select
		// below is what distinguishes "no change" from "no row".
		if _, err := r.db.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...); err != nil {
			return model.User{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// ListByRole returns all users carrying the given role.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role=? ORDER BY id", string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
