package repository

import (
	"context"
	"time"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// UserStore persists user accounts. Create assigns the id and
// creation timestamp on the passed record. Role and id never change
// after creation; UpdateProfile only touches the mutable contact
// fields.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	UpdateProfile(ctx context.Context, id uint64, upd UserProfileUpdate) (model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}

// ListingStore persists waste listings. Create initializes status to
// available and stamps both timestamps. UpdateStatusFrom is a
// compare-and-swap: it moves the listing from one exact status to
// another and fails with ErrInvalidState when the current status
// differs, which is what prevents two concurrent transactions from
// claiming the same listing.
type ListingStore interface {
	Create(ctx context.Context, l *model.WasteListing) error
	GetByID(ctx context.Context, id uint64) (model.WasteListing, error)
	Update(ctx context.Context, id uint64, upd ListingUpdate) (model.WasteListing, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ListingStatus) error
	UpdateStatusFrom(ctx context.Context, id uint64, from, to model.ListingStatus) error
	Delete(ctx context.Context, id uint64) error
	ListByCollector(ctx context.Context, collectorID uint64) ([]model.WasteListing, error)
	ListByStatus(ctx context.Context, status model.ListingStatus) ([]model.WasteListing, error)
}

// TransactionStore persists transactions. Rows are never deleted;
// terminal statuses are kept for history. ListByParty scopes rows to
// the party field matching the caller's role.
type TransactionStore interface {
	Create(ctx context.Context, t *model.Transaction) error
	GetByID(ctx context.Context, id uint64) (model.Transaction, error)
	Update(ctx context.Context, id uint64, upd TransactionUpdate) (model.Transaction, error)
	ListByParty(ctx context.Context, userID uint64, role model.Role) ([]model.Transaction, error)
	ListByListing(ctx context.Context, listingID uint64) ([]model.Transaction, error)
}

// SessionStore maps opaque session tokens to user ids with a TTL.
// Get returns ErrNotFound for unknown or expired tokens.
type SessionStore interface {
	Create(ctx context.Context, token string, userID uint64, ttl time.Duration) error
	Get(ctx context.Context, token string) (uint64, error)
	Delete(ctx context.Context, token string) error
}

// UserProfileUpdate carries a partial profile update. Nil fields are
// left untouched; identity fields (id, username, email, role) are
// never updatable.
type UserProfileUpdate struct {
	FullName        *string
	Phone           *string
	Address         *string
	City            *string
	ProfileComplete *bool
}

// ListingUpdate carries a partial listing update. Nil fields are left
// untouched. Status changes must already be validated against the
// listing lifecycle by the caller.
type ListingUpdate struct {
	MaterialType *model.MaterialType
	Quantity     *float64
	Unit         *string
	Description  *string
	Location     *string
	Price        *float64
	Status       *model.ListingStatus
}

// TransactionUpdate carries a partial transaction update. Party and
// listing references are immutable; only status and the two schedule
// dates can change.
type TransactionUpdate struct {
	Status       *model.TransactionStatus
	PickupDate   *time.Time
	DeliveryDate *time.Time
}
