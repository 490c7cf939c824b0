package models

// InventoryCategory groups supplies on hand.
type InventoryCategory string

const (
	InventoryFeed      InventoryCategory = "Feed"
	InventoryMedicine  InventoryCategory = "Medicine"
	InventoryEquipment InventoryCategory = "Equipment"
)

// Valid reports whether c is a known inventory category.
func (c InventoryCategory) Valid() bool {
	switch c {
	case InventoryFeed, InventoryMedicine, InventoryEquipment:
		return true
	default:
		return false
	}
}

// InventoryItem is a stocked supply. AlertLevel is the threshold at which it counts as low stock.
type InventoryItem struct {
	ID         string            `json:"id"`
	Name       string            `json:"name" validate:"required"`
	Category   InventoryCategory `json:"category"`
	Quantity   float64           `json:"quantity" validate:"gte=0"`
	Unit       string            `json:"unit"`
	AlertLevel float64           `json:"alertLevel" validate:"gte=0"`
}
