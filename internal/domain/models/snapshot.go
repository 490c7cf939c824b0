package models

// Snapshot is a point-in-time copy of every collection held by the store.
type Snapshot struct {
	Herd         []HerdMember    `json:"herd"`
	Transactions []Transaction   `json:"transactions"`
	Inventory    []InventoryItem `json:"inventory"`
}
