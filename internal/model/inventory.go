package model

import (
	"errors"
	"time"
)

const (
	StatusAvailable  = "available"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

const (
	CheckoutCheckedOut = "checked_out"
	CheckoutReturned   = "returned"
	CheckoutOverdue    = "overdue"
	CheckoutLost       = "lost"
	CheckoutProjectUse = "project_use"
)

var CheckoutStatuses = []string{CheckoutCheckedOut, CheckoutReturned, CheckoutOverdue, CheckoutLost, CheckoutProjectUse}

type EquipmentCategory struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	ParentCategoryID string `json:"parentCategoryId,omitempty"`
	IsActive         bool   `json:"isActive"`
}

type Equipment struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	CategoryID          string         `json:"categoryId"`
	CategoryName        string         `json:"categoryName,omitempty"`
	Description         string         `json:"description"`
	Manufacturer        string         `json:"manufacturer,omitempty"`
	Model               string         `json:"model,omitempty"`
	SerialNumber        string         `json:"serialNumber,omitempty"`
	PurchaseDate        *time.Time     `json:"purchaseDate,omitempty"`
	PurchasePrice       *float64       `json:"purchasePrice,omitempty"`
	CurrentQuantity     int            `json:"currentQuantity"`
	MinQuantity         int            `json:"minQuantity"`
	MaxQuantity         int            `json:"maxQuantity"`
	Location            string         `json:"location,omitempty"`
	Status              string         `json:"status"`
	Specifications      map[string]any `json:"specifications,omitempty"`
	LastMaintenanceDate *time.Time     `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate *time.Time     `json:"nextMaintenanceDate,omitempty"`
	CreatedAt           *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time     `json:"updatedAt,omitempty"`
}

// EquipmentStatus derives stock status from quantities. max is accepted so
// callers pass the full quantity triple, but it does not affect the result.
func EquipmentStatus(current, min, max int) string {
	_ = max
	switch {
	case current <= 0:
		return StatusOutOfStock
	case current <= min:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

// Normalize recomputes the derived status. Status from the wire is never
// trusted.
func (e *Equipment) Normalize() {
	e.Status = EquipmentStatus(e.CurrentQuantity, e.MinQuantity, e.MaxQuantity)
}

type Checkout struct {
	ID                 string     `json:"id"`
	EquipmentID        string     `json:"equipmentId"`
	EquipmentName      string     `json:"equipmentName,omitempty"`
	UserID             string     `json:"userId"`
	UserName           string     `json:"userName,omitempty"`
	ProjectID          string     `json:"projectId,omitempty"`
	Quantity           int        `json:"quantity"`
	ReturnedQuantity   int        `json:"returnedQuantity"`
	CheckoutDate       *time.Time `json:"checkoutDate,omitempty"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
	ActualReturnDate   *time.Time `json:"actualReturnDate,omitempty"`
	Status             string     `json:"status"`
	Notes              string     `json:"notes,omitempty"`
}

var (
	ErrNegativeQuantity = errors.New("quantities must not be negative")
	ErrOverReturned     = errors.New("returned quantity exceeds checked out quantity")
)

func (c Checkout) Remaining() int {
	return c.Quantity - c.ReturnedQuantity
}

// Validate enforces remaining = quantity - returnedQuantity >= 0.
func (c Checkout) Validate() error {
	if c.Quantity < 0 || c.ReturnedQuantity < 0 {
		return ErrNegativeQuantity
	}
	if c.Remaining() < 0 {
		return ErrOverReturned
	}
	return nil
}

// ApplyReturn returns a copy of c with n more units returned.
func (c Checkout) ApplyReturn(n int) (Checkout, error) {
	if n <= 0 {
		return c, ErrNegativeQuantity
	}
	c.ReturnedQuantity += n
	if err := c.Validate(); err != nil {
		return c, err
	}
	if c.Remaining() == 0 {
		c.Status = CheckoutReturned
	}
	return c, nil
}
