package model

import (
	"strings"
	"time"
)

// MaterialType enumerates the recyclable material categories a
// collector can list.
type MaterialType string

const (
	MaterialPaper     MaterialType = "paper"
	MaterialCardboard MaterialType = "cardboard"
	MaterialPlastic   MaterialType = "plastic"
	MaterialGlass     MaterialType = "glass"
	MaterialMetal     MaterialType = "metal"
	MaterialEWaste    MaterialType = "e-waste"
	MaterialOrganic   MaterialType = "organic"
)

// ParseMaterialType validates a material type string. The second
// return value is false for unknown materials.
func ParseMaterialType(s string) (MaterialType, bool) {
	m := MaterialType(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MaterialPaper, MaterialCardboard, MaterialPlastic, MaterialGlass,
		MaterialMetal, MaterialEWaste, MaterialOrganic:
		return m, true
	}
	return "", false
}

// WasteListing is an offer of a quantity of recyclable material at a
// per-unit price, owned by a collector. Status is only ever changed
// through the lifecycle rules in status.go: either a validated direct
// edit by the owning collector or a side effect of a transaction
// status change.
//
// Fields:
//  ID           - primary key identifier.
//  CollectorID  - owning collector, immutable after creation.
//  MaterialType - one of the MaterialType values.
//  Quantity     - positive amount in Unit.
//  Unit         - free-text unit of measure ("kg", "ton").
//  Description  - optional free-text details.
//  Location     - optional pickup location.
//  Price        - price per unit.
//  Status       - current lifecycle state.
//  CreatedAt    - creation timestamp.
//  UpdatedAt    - last update timestamp.
type WasteListing struct {
	ID           uint64       // waste_listings.id
	CollectorID  uint64       // waste_listings.collector_id
	MaterialType MaterialType // waste_listings.material_type
	Quantity     float64      // waste_listings.quantity
	Unit         string       // waste_listings.unit
	Description  *string      // waste_listings.description (nullable)
	Location     *string      // waste_listings.location (nullable)
	Price        float64      // waste_listings.price (per unit)
	Status       ListingStatus
	CreatedAt    time.Time // waste_listings.created_at
	UpdatedAt    time.Time // waste_listings.updated_at
}
