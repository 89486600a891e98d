package model

// MenuItem is a global catalog entry, not owned by any franchise
type MenuItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// UpsertMenuItemRequest is the body of PUT /api/order/menu. A zero ID
// inserts a new item; a non-zero ID replaces the existing one.
type UpsertMenuItemRequest struct {
	ID          int     `json:"id"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Image       string  `json:"image" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}
