package backend

import "time"

// Models mirror the POS backend's REST payloads. Fields the admin UI does
// not surface are omitted; unknown fields in responses are ignored.

// Branch is a retail location.
type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BranchRequest is the create/update payload for branches.
type BranchRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Active  *bool  `json:"active,omitempty"`
}

// Product is a sellable item.
type Product struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	UnitPrice   string    `json:"unitPrice"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UnitPrice   string `json:"unitPrice"`
	Category    string `json:"category,omitempty"`
}

// Batch is a dated stock lot of a product.
type Batch struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	BranchID   string    `json:"branchId"`
	Quantity   int       `json:"quantity"`
	CostPrice  string    `json:"costPrice"`
	ExpiryDate string    `json:"expiryDate,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BatchRequest is the create payload for batches.
type BatchRequest struct {
	ProductID  string `json:"productId"`
	BranchID   string `json:"branchId"`
	Quantity   int    `json:"quantity"`
	CostPrice  string `json:"costPrice"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

// InventoryItem is the stock level of one product at one branch.
type InventoryItem struct {
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	BranchID    string    `json:"branchId"`
	Quantity    int       `json:"quantity"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InventoryAdjustment changes the stock level of one product at one branch.
type InventoryAdjustment struct {
	ProductID string `json:"productId"`
	BranchID  string `json:"branchId"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

// OrderLine is one product position in an order.
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// Order is a customer sale.
type Order struct {
	ID         string      `json:"id"`
	BranchID   string      `json:"branchId"`
	SalesRepID string      `json:"salesRepId"`
	Status     string      `json:"status"`
	Lines      []OrderLine `json:"lines"`
	Total      string      `json:"total"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// OrderRequest is the create payload for orders.
type OrderRequest struct {
	BranchID string      `json:"branchId"`
	Lines    []OrderLine `json:"lines"`
}

// OrderStatusRequest moves an order through its lifecycle.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// Referral is a customer referral tracked for commission.
type Referral struct {
	ID           string    `json:"id"`
	ReferrerName string    `json:"referrerName"`
	CustomerName string    `json:"customerName"`
	OrderID      string    `json:"orderId,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReferralRequest is the create payload for referrals.
type ReferralRequest struct {
	ReferrerName string `json:"referrerName"`
	CustomerName string `json:"customerName"`
	OrderID      string `json:"orderId,omitempty"`
}

// User is a staff account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	BranchID  string    `json:"branchId,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRequest is the create/update payload for users.
type UserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	BranchID string `json:"branchId,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

// ListQuery carries common list parameters through to the backend.
type ListQuery struct {
	Limit    int
	Offset   int
	Search   string
	BranchID string
}
