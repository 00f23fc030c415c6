package model

import "strings"

// ListingStatus is the lifecycle state of a waste listing.
type ListingStatus string

const (
	ListingAvailable     ListingStatus = "available"
	ListingPendingPickup ListingStatus = "pending_pickup"
	ListingInTransit     ListingStatus = "in_transit"
	ListingDelivered     ListingStatus = "delivered"
	ListingCompleted     ListingStatus = "completed"
	ListingCancelled     ListingStatus = "cancelled"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// ParseListingStatus validates a listing status string.
func ParseListingStatus(s string) (ListingStatus, bool) {
	v := ListingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case ListingAvailable, ListingPendingPickup, ListingInTransit,
		ListingDelivered, ListingCompleted, ListingCancelled:
		return v, true
	}
	return "", false
}

// ParseTransactionStatus validates a transaction status string.
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	v := TransactionStatus(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case TransactionPending, TransactionCompleted, TransactionCancelled:
		return v, true
	}
	return "", false
}

// Terminal reports whether no further transitions are possible.
func (s ListingStatus) Terminal() bool {
	return s == ListingCompleted || s == ListingCancelled
}

// Terminal reports whether no further transitions are possible.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionCompleted || s == TransactionCancelled
}

// listingEdges holds the allowed forward transitions of the listing
// state machine. Cancellation from any non-terminal state is handled
// separately in ValidListingTransition. pending_pickup -> available is
// the re-open edge taken when a pending transaction is cancelled.
var listingEdges = map[ListingStatus][]ListingStatus{
	ListingAvailable:     {ListingPendingPickup},
	ListingPendingPickup: {ListingInTransit, ListingAvailable},
	ListingInTransit:     {ListingDelivered},
	ListingDelivered:     {ListingCompleted},
}

// ValidListingTransition reports whether a listing may move from one
// status to another. A same-status write is treated as a no-op and
// allowed. Terminal states have no outgoing edges.
func ValidListingTransition(from, to ListingStatus) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if to == ListingCancelled {
		return true
	}
	for _, next := range listingEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidTransactionTransition reports whether a transaction may move
// from one status to another. Only pending -> completed and
// pending -> cancelled exist; both targets are terminal.
func ValidTransactionTransition(from, to TransactionStatus) bool {
	if from == to {
		return true
	}
	return from == TransactionPending &&
		(to == TransactionCompleted || to == TransactionCancelled)
}

// ListingStatusOnTransactionCreate returns the listing status that a
// newly created transaction forces on its listing. Every accepted
// transaction takes the listing off the market regardless of whether
// a transporter or a buyer initiated it, so at most one transaction
// can be active per listing.
func ListingStatusOnTransactionCreate(r Role) ListingStatus {
	switch r {
	case RoleTransporter, RoleBuyer:
		return ListingPendingPickup
	}
	return ListingAvailable
}

// ListingStatusAfterTransactionUpdate derives the listing status that
// follows a transaction status change. Completing a transaction
// completes the listing; cancelling one re-opens the listing for new
// transactions. Any other change leaves the listing untouched.
func ListingStatusAfterTransactionUpdate(current ListingStatus, to TransactionStatus) ListingStatus {
	switch to {
	case TransactionCompleted:
		return ListingCompleted
	case TransactionCancelled:
		return ListingAvailable
	}
	return current
}
