package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingStatus(t *testing.T) {
	for _, s := range []string{"available", "pending_pickup", "in_transit", "delivered", "completed", "cancelled"} {
		got, ok := ParseListingStatus(s)
		require.True(t, ok, s)
		assert.Equal(t, ListingStatus(s), got)
	}
	_, ok := ParseListingStatus("reserved")
	assert.False(t, ok)
	got, ok := ParseListingStatus("  Available ")
	require.True(t, ok)
	assert.Equal(t, ListingAvailable, got)
}

func TestValidListingTransitionEdges(t *testing.T) {
	allowed := []struct{ from, to ListingStatus }{
		{ListingAvailable, ListingPendingPickup},
		{ListingPendingPickup, ListingInTransit},
		{ListingPendingPickup, ListingAvailable}, // re-open after cancel
		{ListingInTransit, ListingDelivered},
		{ListingDelivered, ListingCompleted},
		{ListingAvailable, ListingCancelled},
		{ListingPendingPickup, ListingCancelled},
		{ListingInTransit, ListingCancelled},
		{ListingDelivered, ListingCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, ValidListingTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct{ from, to ListingStatus }{
		{ListingAvailable, ListingInTransit},
		{ListingAvailable, ListingDelivered},
		{ListingAvailable, ListingCompleted},
		{ListingPendingPickup, ListingCompleted},
		{ListingInTransit, ListingAvailable},
		{ListingDelivered, ListingAvailable},
		{ListingCompleted, ListingAvailable},
		{ListingCompleted, ListingCancelled},
		{ListingCancelled, ListingAvailable},
		{ListingCancelled, ListingCompleted},
	}
	for _, tc := range denied {
		assert.False(t, ValidListingTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestListingTransitionSameStateIsNoOp(t *testing.T) {
	for _, s := range []ListingStatus{ListingAvailable, ListingPendingPickup, ListingInTransit, ListingDelivered, ListingCompleted, ListingCancelled} {
		assert.True(t, ValidListingTransition(s, s), string(s))
	}
}

func TestValidTransactionTransition(t *testing.T) {
	assert.True(t, ValidTransactionTransition(TransactionPending, TransactionCompleted))
	assert.True(t, ValidTransactionTransition(TransactionPending, TransactionCancelled))
	assert.True(t, ValidTransactionTransition(TransactionPending, TransactionPending))

	assert.False(t, ValidTransactionTransition(TransactionCompleted, TransactionPending))
	assert.False(t, ValidTransactionTransition(TransactionCompleted, TransactionCancelled))
	assert.False(t, ValidTransactionTransition(TransactionCancelled, TransactionPending))
	assert.False(t, ValidTransactionTransition(TransactionCancelled, TransactionCompleted))
}

func TestListingStatusOnTransactionCreate(t *testing.T) {
	// Both transporter- and buyer-initiated transactions reserve the
	// listing so no second transaction can be opened against it.
	assert.Equal(t, ListingPendingPickup, ListingStatusOnTransactionCreate(RoleTransporter))
	assert.Equal(t, ListingPendingPickup, ListingStatusOnTransactionCreate(RoleBuyer))
	assert.Equal(t, ListingAvailable, ListingStatusOnTransactionCreate(RoleCollector))
}

func TestListingStatusAfterTransactionUpdate(t *testing.T) {
	assert.Equal(t, ListingCompleted, ListingStatusAfterTransactionUpdate(ListingPendingPickup, TransactionCompleted))
	assert.Equal(t, ListingCompleted, ListingStatusAfterTransactionUpdate(ListingInTransit, TransactionCompleted))
	assert.Equal(t, ListingAvailable, ListingStatusAfterTransactionUpdate(ListingPendingPickup, TransactionCancelled))
	// Non-terminal transaction statuses leave the listing alone.
	assert.Equal(t, ListingPendingPickup, ListingStatusAfterTransactionUpdate(ListingPendingPickup, TransactionPending))
}

func TestPartyFor(t *testing.T) {
	tid := uint64(7)
	tx := Transaction{CollectorID: 3, TransporterID: &tid}
	assert.True(t, tx.PartyFor(3, RoleCollector))
	assert.True(t, tx.PartyFor(7, RoleTransporter))
	assert.False(t, tx.PartyFor(7, RoleBuyer))
	assert.False(t, tx.PartyFor(9, RoleTransporter))
	assert.False(t, tx.PartyFor(3, RoleTransporter))
}
