package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/recycle-connect/internal/model"
)

// The in-memory stores implement the same contracts as the MySQL
// repositories with plain maps guarded by a mutex. Each store owns
// its own monotonically increasing id counter, so a fresh store gives
// a test a clean, isolated world. Data lives only as long as the
// process.

// MemoryUserStore is the map-backed UserStore.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]model.User
}

// NewMemoryUserStore returns an empty user store with ids starting
// at 1.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1, users: make(map[uint64]model.User)}
}

// Create assigns the next id, stamps created_at and stores the user.
// Duplicate email or username fails with the matching sentinel.
func (s *MemoryUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
		if existing.Username == u.Username {
			return ErrUsernameExists
		}
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now().UTC()
	u.ProfileComplete = false
	s.users[u.ID] = *u
	return nil
}

// GetByID fetches a user by id.
func (s *MemoryUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// GetByEmail fetches a user by normalized email.
func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// GetByUsername fetches a user by username.
func (s *MemoryUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// UpdateProfile merges the non-nil fields of upd over the stored user.
func (s *MemoryUserStore) UpdateProfile(_ context.Context, id uint64, upd UserProfileUpdate) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Address != nil {
		u.Address = upd.Address
	}
	if upd.City != nil {
		u.City = upd.City
	}
	if upd.ProfileComplete != nil {
		u.ProfileComplete = *upd.ProfileComplete
	}
	s.users[id] = u
	return u, nil
}

// ListByRole returns all users carrying the given role.
func (s *MemoryUserStore) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0)
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// MemoryListingStore is the map-backed ListingStore.
type MemoryListingStore struct {
	mu       sync.Mutex
	nextID   uint64
	listings map[uint64]model.WasteListing
}

// NewMemoryListingStore returns an empty listing store with ids
// starting at 1.
func NewMemoryListingStore() *MemoryListingStore {
	return &MemoryListingStore{nextID: 1, listings: make(map[uint64]model.WasteListing)}
}

// Create assigns the next id, stamps both timestamps, fixes the
// status to available and stores the listing.
func (s *MemoryListingStore) Create(_ context.Context, l *model.WasteListing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.Status = model.ListingAvailable
	s.listings[l.ID] = *l
	return nil
}

// GetByID fetches a listing by id.
func (s *MemoryListingStore) GetByID(_ context.Context, id uint64) (model.WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return model.WasteListing{}, ErrNotFound
	}
	return l, nil
}

// Update merges the non-nil fields of upd over the stored listing and
// refreshes updated_at.
func (s *MemoryListingStore) Update(_ context.Context, id uint64, upd ListingUpdate) (model.WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return model.WasteListing{}, ErrNotFound
	}
	if upd.MaterialType != nil {
		l.MaterialType = *upd.MaterialType
	}
	if upd.Quantity != nil {
		l.Quantity = *upd.Quantity
	}
	if upd.Unit != nil {
		l.Unit = *upd.Unit
	}
	if upd.Description != nil {
		l.Description = upd.Description
	}
	if upd.Location != nil {
		l.Location = upd.Location
	}
	if upd.Price != nil {
		l.Price = *upd.Price
	}
	if upd.Status != nil {
		l.Status = *upd.Status
	}
	l.UpdatedAt = time.Now().UTC()
	s.listings[id] = l
	return l, nil
}

// UpdateStatus unconditionally sets the listing status.
func (s *MemoryListingStore) UpdateStatus(_ context.Context, id uint64, status model.ListingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now().UTC()
	s.listings[id] = l
	return nil
}

// UpdateStatusFrom sets the status only when the listing currently
// holds the expected one; otherwise ErrInvalidState. The check and
// the write happen under one lock, which is the whole point.
func (s *MemoryListingStore) UpdateStatusFrom(_ context.Context, id uint64, from, to model.ListingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return ErrNotFound
	}
	if l.Status != from {
		return ErrInvalidState
	}
	l.Status = to
	l.UpdatedAt = time.Now().UTC()
	s.listings[id] = l
	return nil
}

// Delete removes the listing.
func (s *MemoryListingStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listings[id]; !ok {
		return ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

// ListByCollector returns all listings owned by the collector.
func (s *MemoryListingStore) ListByCollector(_ context.Context, collectorID uint64) ([]model.WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.WasteListing, 0)
	for _, l := range s.listings {
		if l.CollectorID == collectorID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ListByStatus returns all listings in the given status.
func (s *MemoryListingStore) ListByStatus(_ context.Context, status model.ListingStatus) ([]model.WasteListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.WasteListing, 0)
	for _, l := range s.listings {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

// MemoryTransactionStore is the map-backed TransactionStore.
type MemoryTransactionStore struct {
	mu           sync.Mutex
	nextID       uint64
	transactions map[uint64]model.Transaction
}

// NewMemoryTransactionStore returns an empty transaction store with
// ids starting at 1.
func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{nextID: 1, transactions: make(map[uint64]model.Transaction)}
}

// Create assigns the next id, stamps both timestamps, fixes the
// status to pending and stores the transaction.
func (s *MemoryTransactionStore) Create(_ context.Context, t *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Status = model.TransactionPending
	s.transactions[t.ID] = *t
	return nil
}

// GetByID fetches a transaction by id.
func (s *MemoryTransactionStore) GetByID(_ context.Context, id uint64) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return model.Transaction{}, ErrNotFound
	}
	return t, nil
}

// Update merges the non-nil fields of upd over the stored transaction
// and refreshes updated_at.
func (s *MemoryTransactionStore) Update(_ context.Context, id uint64, upd TransactionUpdate) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return model.Transaction{}, ErrNotFound
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.PickupDate != nil {
		t.PickupDate = upd.PickupDate
	}
	if upd.DeliveryDate != nil {
		t.DeliveryDate = upd.DeliveryDate
	}
	t.UpdatedAt = time.Now().UTC()
	s.transactions[id] = t
	return t, nil
}

// ListByParty returns the transactions in which the user participates
// under the given role.
func (s *MemoryTransactionStore) ListByParty(_ context.Context, userID uint64, role model.Role) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, 0)
	for _, t := range s.transactions {
		if t.PartyFor(userID, role) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ListByListing returns all transactions ever created against the
// listing.
func (s *MemoryTransactionStore) ListByListing(_ context.Context, listingID uint64) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, 0)
	for _, t := range s.transactions {
		if t.ListingID == listingID {
			out = append(out, t)
		}
	}
	return out, nil
}
