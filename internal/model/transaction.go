package model

import "time"

// Transaction records one exchange instance against a listing. It is
// created by a transporter or a buyer acting on an available listing;
// exactly one of TransporterID/BuyerID is set at creation, determined
// by the creating actor's role. Transactions are never deleted:
// completed and cancelled rows are kept for history.
//
// Fields:
//  ID            - primary key identifier.
//  ListingID     - listing being exchanged, immutable.
//  CollectorID   - copied from the listing at creation time.
//  TransporterID - set when a transporter initiated the exchange.
//  BuyerID       - set when a buyer initiated the exchange.
//  Status        - pending, completed or cancelled.
//  TotalAmount   - listing price x quantity, fixed at creation.
//  PickupDate    - optional scheduled pickup.
//  DeliveryDate  - optional scheduled delivery.
//  CreatedAt     - creation timestamp.
//  UpdatedAt     - last update timestamp.
type Transaction struct {
	ID            uint64  // transactions.id
	ListingID     uint64  // transactions.listing_id
	CollectorID   uint64  // transactions.collector_id
	TransporterID *uint64 // transactions.transporter_id (nullable)
	BuyerID       *uint64 // transactions.buyer_id (nullable)
	Status        TransactionStatus
	TotalAmount   float64    // transactions.total_amount
	PickupDate    *time.Time // transactions.pickup_date (nullable)
	DeliveryDate  *time.Time // transactions.delivery_date (nullable)
	CreatedAt     time.Time  // transactions.created_at
	UpdatedAt     time.Time  // transactions.updated_at
}

// PartyFor reports whether the given user participates in the
// transaction under the given role. Used by handlers to gate updates
// to the three involved parties.
func (t Transaction) PartyFor(userID uint64, role Role) bool {
	switch role {
	case RoleCollector:
		return t.CollectorID == userID
	case RoleTransporter:
		return t.TransporterID != nil && *t.TransporterID == userID
	case RoleBuyer:
		return t.BuyerID != nil && *t.BuyerID == userID
	}
	return false
}
