package models

// InventoryItem is a single stock entry owned by one user.
type InventoryItem struct {
	// ID is the unique identifier for the item (UUID format).
	// Assigned by the store on creation.
	ID string `json:"id"`

	// Name is the item name (e.g., "bolt"). Never empty.
	Name string `json:"name"`

	// Quantity is the number of units on hand. Any integer is accepted.
	Quantity int `json:"quantity"`

	// Description is free text, may be empty.
	Description string `json:"description"`

	// OwnerID is the ID of the user that owns this item.
	// Always taken from the authenticated caller, never from request input.
	OwnerID string `json:"owner_id"`

	// CreatedAt and UpdatedAt are Unix timestamps (UTC) maintained by the store.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ItemInput holds the client-editable fields of an inventory item.
type ItemInput struct {
	Name        string
	Quantity    int
	Description string
}

// Apply copies the editable fields onto the item.
func (in ItemInput) Apply(item *InventoryItem) {
	item.Name = in.Name
	item.Quantity = in.Quantity
	item.Description = in.Description
}
