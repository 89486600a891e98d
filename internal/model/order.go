package model

import "time"

// Order is immutable after creation; there is no update or delete.
type Order struct {
	ID          int         `json:"id"`
	DinerID     int         `json:"-"`
	FranchiseID int         `json:"franchiseId"`
	StoreID     int         `json:"storeId"`
	Date        time.Time   `json:"date"`
	Items       []OrderItem `json:"items"`
}

type OrderItem struct {
	ID          int     `json:"id,omitempty"`
	MenuID      int     `json:"menuId"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateOrderRequest is the body of POST /api/order
type CreateOrderRequest struct {
	FranchiseID int `json:"franchiseId" binding:"required"`
	StoreID     int `json:"storeId" binding:"required"`
	Items       []struct {
		MenuID      int     `json:"menuId" binding:"required"`
		Description string  `json:"description" binding:"required"`
		Price       float64 `json:"price"`
	} `json:"items" binding:"required,min=1"`
}

// OrderPage is the response of GET /api/order
type OrderPage struct {
	DinerID int     `json:"dinerId"`
	Orders  []Order `json:"orders"`
	Page    int     `json:"page"`
}
