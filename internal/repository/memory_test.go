package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/recycle-connect/internal/model"
)

func TestMemoryUserStoreAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	a := &model.User{Username: "ada", Email: "Ada@Example.com", PasswordHash: "x", FullName: "Ada L", Role: model.RoleCollector}
	require.NoError(t, s.Create(ctx, a))
	b := &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", FullName: "Bob M", Role: model.RoleBuyer}
	require.NoError(t, s.Create(ctx, b))

	assert.Equal(t, uint64(1), a.ID)
	assert.Equal(t, uint64(2), b.ID)
	assert.Equal(t, "ada@example.com", a.Email) // normalized
	assert.False(t, a.CreatedAt.IsZero())
	assert.False(t, a.ProfileComplete)
}

func TestMemoryUserStoreDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	require.NoError(t, s.Create(ctx, &model.User{Username: "ada", Email: "ada@example.com", Role: model.RoleCollector}))

	err := s.Create(ctx, &model.User{Username: "other", Email: "ADA@example.com", Role: model.RoleBuyer})
	assert.ErrorIs(t, err, ErrEmailExists)
	err = s.Create(ctx, &model.User{Username: "ada", Email: "new@example.com", Role: model.RoleBuyer})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestMemoryUserStoreUpdateProfileMergesOnlyMutableFields(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	u := &model.User{Username: "ada", Email: "ada@example.com", FullName: "Ada", Role: model.RoleCollector}
	require.NoError(t, s.Create(ctx, u))

	phone := "555-0100"
	name := "Ada Lovelace"
	got, err := s.UpdateProfile(ctx, u.ID, UserProfileUpdate{FullName: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, model.RoleCollector, got.Role)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "555-0100", *got.Phone)
	assert.Nil(t, got.Address)

	_, err = s.UpdateProfile(ctx, 999, UserProfileUpdate{FullName: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListingStoreCreateDefaults(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListingStore()
	l := &model.WasteListing{CollectorID: 1, MaterialType: model.MaterialPaper, Quantity: 10, Unit: "kg", Price: 2}
	require.NoError(t, s.Create(ctx, l))

	assert.Equal(t, uint64(1), l.ID)
	assert.Equal(t, model.ListingAvailable, l.Status)
	assert.False(t, l.CreatedAt.IsZero())
	assert.Equal(t, l.CreatedAt, l.UpdatedAt)
}

func TestMemoryListingStorePartialUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListingStore()
	l := &model.WasteListing{CollectorID: 1, MaterialType: model.MaterialPaper, Quantity: 10, Unit: "kg", Price: 2}
	require.NoError(t, s.Create(ctx, l))
	created := l.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	price := 3.5
	got, err := s.Update(ctx, l.ID, ListingUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 3.5, got.Price)
	assert.Equal(t, model.MaterialPaper, got.MaterialType) // untouched
	assert.Equal(t, 10.0, got.Quantity)
	assert.True(t, got.UpdatedAt.After(created))
	assert.Equal(t, created, got.CreatedAt)

	_, err = s.Update(ctx, 999, ListingUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListingStoreUpdateStatusFrom(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListingStore()
	l := &model.WasteListing{CollectorID: 1, MaterialType: model.MaterialGlass, Quantity: 1, Unit: "kg", Price: 1}
	require.NoError(t, s.Create(ctx, l))

	require.NoError(t, s.UpdateStatusFrom(ctx, l.ID, model.ListingAvailable, model.ListingPendingPickup))
	got, err := s.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ListingPendingPickup, got.Status)

	// Second swap from available must lose.
	err = s.UpdateStatusFrom(ctx, l.ID, model.ListingAvailable, model.ListingPendingPickup)
	assert.ErrorIs(t, err, ErrInvalidState)

	err = s.UpdateStatusFrom(ctx, 999, model.ListingAvailable, model.ListingPendingPickup)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListingStoreDeleteAndListByStatus(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListingStore()
	a := &model.WasteListing{CollectorID: 1, MaterialType: model.MaterialMetal, Quantity: 2, Unit: "kg", Price: 5}
	b := &model.WasteListing{CollectorID: 2, MaterialType: model.MaterialPaper, Quantity: 4, Unit: "kg", Price: 1}
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))
	require.NoError(t, s.UpdateStatus(ctx, b.ID, model.ListingPendingPickup))

	avail, err := s.ListByStatus(ctx, model.ListingAvailable)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, a.ID, avail[0].ID)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrNotFound)
	_, err = s.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTransactionStoreListByParty(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryTransactionStore()
	transporter := uint64(20)
	buyer := uint64(30)

	t1 := &model.Transaction{ListingID: 1, CollectorID: 10, TransporterID: &transporter, TotalAmount: 20}
	t2 := &model.Transaction{ListingID: 2, CollectorID: 10, BuyerID: &buyer, TotalAmount: 5}
	require.NoError(t, s.Create(ctx, t1))
	require.NoError(t, s.Create(ctx, t2))
	assert.Equal(t, model.TransactionPending, t1.Status)

	byCollector, err := s.ListByParty(ctx, 10, model.RoleCollector)
	require.NoError(t, err)
	assert.Len(t, byCollector, 2)

	byTransporter, err := s.ListByParty(ctx, transporter, model.RoleTransporter)
	require.NoError(t, err)
	require.Len(t, byTransporter, 1)
	assert.Equal(t, t1.ID, byTransporter[0].ID)

	byBuyer, err := s.ListByParty(ctx, buyer, model.RoleBuyer)
	require.NoError(t, err)
	require.Len(t, byBuyer, 1)
	assert.Equal(t, t2.ID, byBuyer[0].ID)

	// Wrong role sees nothing even with a matching id.
	none, err := s.ListByParty(ctx, transporter, model.RoleBuyer)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore()
	require.NoError(t, s.Create(ctx, "tok", 7, 50*time.Millisecond))

	uid, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)

	time.Sleep(60 * time.Millisecond)
	_, err = s.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}
