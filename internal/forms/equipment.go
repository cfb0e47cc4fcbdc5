package forms

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

// SpecRow is one key/value row of the specifications editor.
type SpecRow struct {
	Key   string
	Value string
}

type EquipmentForm struct {
	Name                string `form:"name" validate:"required,min=3,max=100"`
	CategoryID          string `form:"categoryId" validate:"required"`
	Description         string `form:"description" validate:"required,min=10,max=1000"`
	Manufacturer        string `form:"manufacturer" validate:"max=100"`
	Model               string `form:"model" validate:"max=100"`
	SerialNumber        string `form:"serialNumber" validate:"max=100"`
	Location            string `form:"location" validate:"max=200"`
	PurchaseDate        string `form:"purchaseDate"`
	PurchasePrice       string `form:"purchasePrice"`
	CurrentQuantity     int    `form:"currentQuantity" validate:"gte=0"`
	MinQuantity         int    `form:"minQuantity" validate:"gte=0"`
	MaxQuantity         int    `form:"maxQuantity" validate:"gte=0"`
	LastMaintenanceDate string `form:"lastMaintenanceDate"`
	NextMaintenanceDate string `form:"nextMaintenanceDate"`
	Specifications      []SpecRow

	// Categories are the options for CategoryID.
	Categories []model.EquipmentCategory

	parse error
}

var equipmentMessages = map[string]string{
	"Name.required":        "Equipment name is required",
	"Name.min":             "Equipment name must be at least 3 characters",
	"Name.max":             "Equipment name must be at most 100 characters",
	"CategoryID.required":  "Please select a category",
	"Description.required": "Description is required",
	"Description.min":      "Description must be at least 10 characters",
	"Description.max":      "Description must be at most 1000 characters",
	"Manufacturer.max":     "Manufacturer must be at most 100 characters",
	"Model.max":            "Model must be at most 100 characters",
	"SerialNumber.max":     "Serial number must be at most 100 characters",
	"Location.max":         "Location must be at most 200 characters",
	"CurrentQuantity.gte":  "Current quantity cannot be negative",
	"MinQuantity.gte":      "Minimum quantity cannot be negative",
	"MaxQuantity.gte":      "Maximum quantity cannot be negative",
}

func NewEquipmentForm(categories []model.EquipmentCategory) EquipmentForm {
	return EquipmentForm{Categories: categories, Specifications: []SpecRow{}}
}

// EquipmentFormFrom seeds an edit form. The category is only kept when it is
// one of the loaded options.
func EquipmentFormFrom(e model.Equipment, categories []model.EquipmentCategory) EquipmentForm {
	f := EquipmentForm{
		Name:                e.Name,
		Description:         e.Description,
		Manufacturer:        e.Manufacturer,
		Model:               e.Model,
		SerialNumber:        e.SerialNumber,
		Location:            e.Location,
		PurchaseDate:        formatDate(e.PurchaseDate),
		CurrentQuantity:     e.CurrentQuantity,
		MinQuantity:         e.MinQuantity,
		MaxQuantity:         e.MaxQuantity,
		LastMaintenanceDate: formatDate(e.LastMaintenanceDate),
		NextMaintenanceDate: formatDate(e.NextMaintenanceDate),
		Categories:          categories,
	}
	for _, c := range categories {
		if c.ID == e.CategoryID {
			f.CategoryID = e.CategoryID
		}
	}
	if e.PurchasePrice != nil {
		f.PurchasePrice = strconv.FormatFloat(*e.PurchasePrice, 'f', -1, 64)
	}
	keys := make([]string, 0, len(e.Specifications))
	for k := range e.Specifications {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f.Specifications = append(f.Specifications, SpecRow{Key: k, Value: fmt.Sprint(e.Specifications[k])})
	}
	return f
}

// ParseEquipmentForm reads a posted equipment form. Specification rows
// arrive as parallel specKey/specValue lists.
func ParseEquipmentForm(values url.Values, categories []model.EquipmentCategory) EquipmentForm {
	d := newDecoder(values)
	f := EquipmentForm{
		Name:                d.str("name"),
		CategoryID:          d.str("categoryId"),
		Description:         d.str("description"),
		Manufacturer:        d.str("manufacturer"),
		Model:               d.str("model"),
		SerialNumber:        d.str("serialNumber"),
		Location:            d.str("location"),
		PurchaseDate:        d.str("purchaseDate"),
		PurchasePrice:       d.str("purchasePrice"),
		CurrentQuantity:     d.integer("currentQuantity", "Current quantity"),
		MinQuantity:         d.integer("minQuantity", "Minimum quantity"),
		MaxQuantity:         d.integer("maxQuantity", "Maximum quantity"),
		LastMaintenanceDate: d.str("lastMaintenanceDate"),
		NextMaintenanceDate: d.str("nextMaintenanceDate"),
		Categories:          categories,
	}
	keys, vals := values["specKey"], values["specValue"]
	for i := range keys {
		row := SpecRow{Key: strings.TrimSpace(keys[i])}
		if i < len(vals) {
			row.Value = strings.TrimSpace(vals[i])
		}
		f.Specifications = append(f.Specifications, row)
	}
	if f.PurchasePrice != "" {
		if _, err := strconv.ParseFloat(f.PurchasePrice, 64); err != nil {
			d.fail("purchasePrice", "Purchase price must be a number")
		}
	}
	f.parse = d.parseErr()
	return f
}

func (f EquipmentForm) Validate() error {
	if f.parse != nil {
		return f.parse
	}
	if err := check(f, equipmentMessages); err != nil {
		return err
	}
	if f.MaxQuantity < f.CurrentQuantity {
		return invalid("maxQuantity", "Maximum quantity cannot be less than current quantity")
	}
	if f.MaxQuantity < f.MinQuantity {
		return invalid("maxQuantity", "Maximum quantity cannot be less than minimum quantity")
	}
	if price, ok := f.price(); ok && price < 0 {
		return invalid("purchasePrice", "Purchase price cannot be negative")
	}
	for _, field := range []struct{ key, label, raw string }{
		{"purchaseDate", "Purchase date", f.PurchaseDate},
		{"lastMaintenanceDate", "Last maintenance date", f.LastMaintenanceDate},
		{"nextMaintenanceDate", "Next maintenance date", f.NextMaintenanceDate},
	} {
		if err := checkDate(field.key, field.label, field.raw); err != nil {
			return err
		}
	}
	return nil
}

func (f EquipmentForm) price() (float64, bool) {
	if f.PurchasePrice == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(f.PurchasePrice, 64)
	return p, err == nil
}

// Payload builds the request body. Status is derived from the quantities
// so the stored value always agrees with them.
func (f EquipmentForm) Payload() map[string]interface{} {
	p := payload{
		"name":            strings.TrimSpace(f.Name),
		"categoryId":      f.CategoryID,
		"description":     strings.TrimSpace(f.Description),
		"currentQuantity": f.CurrentQuantity,
		"minQuantity":     f.MinQuantity,
		"maxQuantity":     f.MaxQuantity,
		"status":          model.EquipmentStatus(f.CurrentQuantity, f.MinQuantity, f.MaxQuantity),
	}
	p.str("manufacturer", f.Manufacturer)
	p.str("model", f.Model)
	p.str("serialNumber", f.SerialNumber)
	p.str("location", f.Location)
	p.date("purchaseDate", f.PurchaseDate)
	p.date("lastMaintenanceDate", f.LastMaintenanceDate)
	p.date("nextMaintenanceDate", f.NextMaintenanceDate)
	if price, ok := f.price(); ok {
		p["purchasePrice"] = price
	}
	specs := map[string]string{}
	for _, row := range f.Specifications {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		specs[key] = strings.TrimSpace(row.Value)
	}
	if len(specs) > 0 {
		p["specifications"] = specs
	}
	return p
}

type CategoryForm struct {
	ID               string `form:"-"`
	Name             string `form:"name" validate:"required,min=2,max=50"`
	Description      string `form:"description" validate:"max=500"`
	ParentCategoryID string `form:"parentCategoryId"`
	IsActive         bool   `form:"isActive"`

	Parents []model.EquipmentCategory
}

var categoryMessages = map[string]string{
	"Name.required":   "Category name is required",
	"Name.min":        "Category name must be at least 2 characters",
	"Name.max":        "Category name must be at most 50 characters",
	"Description.max": "Description must be at most 500 characters",
}

func NewCategoryForm(parents []model.EquipmentCategory) CategoryForm {
	return CategoryForm{IsActive: true, Parents: parents}
}

func CategoryFormFrom(c model.EquipmentCategory, parents []model.EquipmentCategory) CategoryForm {
	return CategoryForm{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		ParentCategoryID: c.ParentCategoryID,
		IsActive:         c.IsActive,
		Parents:          parents,
	}
}

func ParseCategoryForm(id string, values url.Values, parents []model.EquipmentCategory) CategoryForm {
	d := newDecoder(values)
	return CategoryForm{
		ID:               id,
		Name:             d.str("name"),
		Description:      d.str("description"),
		ParentCategoryID: d.str("parentCategoryId"),
		IsActive:         d.boolean("isActive"),
		Parents:          parents,
	}
}

func (f CategoryForm) Validate() error {
	if err := check(f, categoryMessages); err != nil {
		return err
	}
	if f.ID != "" && f.ParentCategoryID == f.ID {
		return invalid("parentCategoryId", "A category cannot be its own parent")
	}
	return nil
}

func (f CategoryForm) Payload() map[string]interface{} {
	p := payload{"name": strings.TrimSpace(f.Name), "isActive": f.IsActive}
	p.str("description", f.Description)
	p.str("parentCategoryId", f.ParentCategoryID)
	return p
}

type CheckoutForm struct {
	EquipmentID        string `form:"equipmentId" validate:"required"`
	UserID             string `form:"userId" validate:"required"`
	ProjectID          string `form:"projectId"`
	Quantity           int    `form:"quantity" validate:"gte=1"`
	ExpectedReturnDate string `form:"expectedReturnDate" validate:"required"`
	Status             string `form:"status" validate:"omitempty,oneof=checked_out project_use"`
	Notes              string `form:"notes" validate:"max=500"`

	// Available is the equipment's current quantity when known, -1 otherwise.
	Available int
	Equipment []model.Equipment

	parse error
}

var checkoutMessages = map[string]string{
	"EquipmentID.required":        "Please select equipment",
	"UserID.required":             "Please select a user",
	"Quantity.gte":                "Quantity must be at least 1",
	"ExpectedReturnDate.required": "Expected return date is required",
	"Status.oneof":                "Status must be checked out or project use",
	"Notes.max":                   "Notes must be at most 500 characters",
}

func NewCheckoutForm(equipment []model.Equipment) CheckoutForm {
	return CheckoutForm{Quantity: 1, Status: model.CheckoutCheckedOut, Available: -1, Equipment: equipment}
}

func ParseCheckoutForm(values url.Values, equipment []model.Equipment) CheckoutForm {
	d := newDecoder(values)
	f := CheckoutForm{
		EquipmentID:        d.str("equipmentId"),
		UserID:             d.str("userId"),
		ProjectID:          d.str("projectId"),
		Quantity:           d.integer("quantity", "Quantity"),
		ExpectedReturnDate: d.str("expectedReturnDate"),
		Status:             d.str("status"),
		Notes:              d.str("notes"),
		Available:          -1,
		Equipment:          equipment,
	}
	for _, e := range equipment {
		if e.ID == f.EquipmentID {
			f.Available = e.CurrentQuantity
		}
	}
	f.parse = d.parseErr()
	return f
}

func (f CheckoutForm) Validate() error {
	if f.parse != nil {
		return f.parse
	}
	if err := check(f, checkoutMessages); err != nil {
		return err
	}
	if f.Available >= 0 && f.Quantity > f.Available {
		return invalid("quantity", fmt.Sprintf("Only %d available", f.Available))
	}
	return checkDate("expectedReturnDate", "Expected return date", f.ExpectedReturnDate)
}

func (f CheckoutForm) Payload() map[string]interface{} {
	status := f.Status
	if status == "" {
		status = model.CheckoutCheckedOut
	}
	p := payload{
		"equipmentId": f.EquipmentID,
		"userId":      f.UserID,
		"quantity":    f.Quantity,
		"status":      status,
	}
	p.str("projectId", f.ProjectID)
	p.date("expectedReturnDate", f.ExpectedReturnDate)
	p.str("notes", f.Notes)
	return p
}

// ReturnForm records units coming back from a checkout.
type ReturnForm struct {
	Checkout model.Checkout
	Quantity int    `form:"returnQuantity" validate:"gte=1"`
	Notes    string `form:"notes" validate:"max=500"`

	parse error
}

var returnMessages = map[string]string{
	"Quantity.gte": "Return quantity must be at least 1",
	"Notes.max":    "Notes must be at most 500 characters",
}

func ParseReturnForm(c model.Checkout, values url.Values) ReturnForm {
	d := newDecoder(values)
	f := ReturnForm{
		Checkout: c,
		Quantity: d.integer("returnQuantity", "Return quantity"),
		Notes:    d.str("notes"),
	}
	f.parse = d.parseErr()
	return f
}

func (f ReturnForm) Validate() error {
	if f.parse != nil {
		return f.parse
	}
	if err := check(f, returnMessages); err != nil {
		return err
	}
	if _, err := f.Checkout.ApplyReturn(f.Quantity); err != nil {
		return invalid("returnQuantity", fmt.Sprintf("Cannot return more than the %d units outstanding", f.Checkout.Remaining()))
	}
	return nil
}

func (f ReturnForm) Payload() map[string]interface{} {
	updated, _ := f.Checkout.ApplyReturn(f.Quantity)
	p := payload{
		"returnedQuantity": updated.ReturnedQuantity,
		"status":           updated.Status,
	}
	if updated.Status == model.CheckoutReturned {
		p["actualReturnDate"] = now().UTC().Format(time.RFC3339)
	}
	p.str("notes", f.Notes)
	return p
}
