package model

// Franchise groups stores under a set of admin users holding the
// franchisee role scoped to this franchise id.
type Franchise struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Admins []AdminRef `json:"admins,omitempty"`
	Stores []Store    `json:"stores"`
}

// AdminRef is the public view of a franchise admin
type AdminRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Store belongs to exactly one franchise
type Store struct {
	ID           int     `json:"id"`
	FranchiseID  int     `json:"-"`
	Name         string  `json:"name"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// CreateFranchiseRequest is the body of POST /api/franchise. Admins are
// named by email and must already be registered.
type CreateFranchiseRequest struct {
	Name   string `json:"name" binding:"required"`
	Admins []struct {
		Email string `json:"email" binding:"required,email"`
	} `json:"admins"`
}

// CreateStoreRequest is the body of POST /api/franchise/:franchiseId/store
type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"`
}
