package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/forms"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
)

// listAll fetches the first page at the maximum window, for select options.
func listAll[T any](ctx context.Context, s *Server, token string, desc resource.Descriptor[T]) ([]T, error) {
	src := resource.Remote[T]{Desc: desc, Client: s.backend, Token: token}
	page, err := src.List(ctx, resource.Filter{Limit: resource.MaxLimit})
	if err != nil {
		return nil, err
	}
	if desc.Normalize != nil {
		for i := range page.Items {
			desc.Normalize(&page.Items[i])
		}
	}
	return page.Items, nil
}

var inventoryLinks = []Link{
	{Label: "Equipment", Href: "/inventory"},
	{Label: "Categories", Href: "/inventory/categories"},
	{Label: "Checkouts", Href: "/inventory/checkouts"},
}

var equipmentList = listSpec[model.Equipment]{
	Title:   "Inventory",
	Noun:    "equipment",
	Base:    "/inventory",
	Desc:    catalog.Equipment,
	Columns: catalog.EquipmentColumns,
	Badge:   func(e model.Equipment) string { return e.Status },
	Filters: catalog.EquipmentFilters,
	Links:   inventoryLinks,
	Create:  true,
	View:    true,
	Edit:    true,
	Delete:  true,
}

var equipmentForm = formSpec[model.Equipment, []model.EquipmentCategory, forms.EquipmentForm]{
	Noun: "equipment",
	Base: "/inventory",
	Desc: catalog.Equipment,
	Refs: func(ctx context.Context, s *Server, token string) ([]model.EquipmentCategory, error) {
		return listAll(ctx, s, token, catalog.EquipmentCategories)
	},
	Blank: forms.NewEquipmentForm,
	Seed:  forms.EquipmentFormFrom,
	Parse: noParse[model.Equipment](func(r *http.Request, cats []model.EquipmentCategory) forms.EquipmentForm {
		return forms.ParseEquipmentForm(r.PostForm, cats)
	}),
	View: equipmentFormView,
}

func equipmentFormView(f forms.EquipmentForm) FormView {
	cats := make([]catalog.Option, 0, len(f.Categories))
	for _, c := range f.Categories {
		cats = append(cats, catalog.Option{Value: c.ID, Label: c.Name})
	}
	specs := make([][]string, 0, len(f.Specifications))
	for _, row := range f.Specifications {
		specs = append(specs, []string{row.Key, row.Value})
	}
	status := model.EquipmentStatus(f.CurrentQuantity, f.MinQuantity, f.MaxQuantity)
	return FormView{
		Notice: "Status is computed from the quantities. Current values give: " + catalog.Humanize(status) + ".",
		Fields: []Field{
			text("name", "Name", f.Name, true),
			selectField("categoryId", "Category", f.CategoryID, true, cats),
			textarea("description", "Description", f.Description, true),
			text("manufacturer", "Manufacturer", f.Manufacturer, false),
			text("model", "Model", f.Model, false),
			text("serialNumber", "Serial number", f.SerialNumber, false),
			text("location", "Location", f.Location, false),
			number("currentQuantity", "Current quantity", f.CurrentQuantity),
			number("minQuantity", "Minimum quantity", f.MinQuantity),
			number("maxQuantity", "Maximum quantity", f.MaxQuantity),
			date("purchaseDate", "Purchase date", f.PurchaseDate),
			text("purchasePrice", "Purchase price", f.PurchasePrice, false),
			date("lastMaintenanceDate", "Last maintenance", f.LastMaintenanceDate),
			date("nextMaintenanceDate", "Next maintenance", f.NextMaintenanceDate),
		},
		Groups: []RowGroup{{
			Label:   "Specifications",
			Columns: []GroupColumn{{Name: "specKey", Label: "Key", Type: "text"}, {Name: "specValue", Label: "Value", Type: "text"}},
			Rows:    specs,
		}},
	}
}

func (s *Server) handleEquipmentDetail(w http.ResponseWriter, r *http.Request) {
	e, ok := fetch(s, w, r, catalog.Equipment, "/inventory")
	if !ok {
		return
	}
	price := "-"
	if e.PurchasePrice != nil {
		price = strconv.FormatFloat(*e.PurchasePrice, 'f', 2, 64)
	}
	view := DetailView{
		Heading: e.Name,
		Badge:   e.Status,
		Back:    Link{Label: "Back to inventory", Href: "/inventory"},
		Edit:    "/inventory/edit/" + url.PathEscape(e.ID),
		Fields: []DetailField{
			{"Category", orDash(e.CategoryName)},
			{"Description", e.Description},
			{"Manufacturer", orDash(e.Manufacturer)},
			{"Model", orDash(e.Model)},
			{"Serial number", orDash(e.SerialNumber)},
			{"Location", orDash(e.Location)},
			{"Quantity", fmt.Sprintf("%d (min %d, max %d)", e.CurrentQuantity, e.MinQuantity, e.MaxQuantity)},
			{"Purchase date", catalog.Date(e.PurchaseDate)},
			{"Purchase price", price},
			{"Last maintenance", catalog.Date(e.LastMaintenanceDate)},
			{"Next maintenance", catalog.Date(e.NextMaintenanceDate)},
		},
		Actions: []Action{{Label: "Delete", Href: "/inventory/delete/" + url.PathEscape(e.ID), Danger: true}},
	}
	if len(e.Specifications) > 0 {
		keys := make([]string, 0, len(e.Specifications))
		for k := range e.Specifications {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		specs := catalog.Table{Headers: []string{"Key", "Value"}}
		for _, k := range keys {
			specs.Rows = append(specs.Rows, catalog.Row{ID: k, Cells: []string{k, fmt.Sprint(e.Specifications[k])}})
		}
		view.Tables = append(view.Tables, TableSection{Title: "Specifications", Table: specs})
	}

	sess := currentSession(r)
	checkouts := resource.Remote[model.Checkout]{Desc: catalog.Checkouts, Client: s.backend, Token: sess.AccessToken}
	page, err := checkouts.List(r.Context(), resource.Filter{Limit: 10, Params: map[string]string{"equipmentId": e.ID}})
	if err != nil {
		s.logger.Warn("equipment checkouts unavailable", zap.String("equipment", e.ID), zap.Error(err))
	} else if len(page.Items) > 0 {
		view.Tables = append(view.Tables, TableSection{
			Title: "Recent checkouts",
			Table: catalog.BuildTable(catalog.CheckoutColumns, catalog.Checkouts.ID, checkoutBadge, page.Items),
		})
	}
	s.render(w, r, http.StatusOK, "detail", e.Name, view)
}

// Categories

var categoryList = listSpec[model.EquipmentCategory]{
	Title:   "Equipment Categories",
	Noun:    "category",
	Base:    "/inventory/categories",
	Desc:    catalog.EquipmentCategories,
	Columns: catalog.CategoryColumns,
	Links:   inventoryLinks,
	Create:  true,
	Edit:    true,
	Delete:  true,
}

var categoryForm = formSpec[model.EquipmentCategory, []model.EquipmentCategory, forms.CategoryForm]{
	Noun: "category",
	Base: "/inventory/categories",
	Desc: catalog.EquipmentCategories,
	Refs: func(ctx context.Context, s *Server, token string) ([]model.EquipmentCategory, error) {
		return listAll(ctx, s, token, catalog.EquipmentCategories)
	},
	Blank: forms.NewCategoryForm,
	Seed:  forms.CategoryFormFrom,
	Parse: func(_ context.Context, r *http.Request, _ resource.Source[model.EquipmentCategory], id string, parents []model.EquipmentCategory) (forms.CategoryForm, error) {
		return forms.ParseCategoryForm(id, r.PostForm, parents), nil
	},
	View: func(f forms.CategoryForm) FormView {
		parents := []catalog.Option{{Value: "", Label: "None"}}
		for _, p := range f.Parents {
			if p.ID != f.ID {
				parents = append(parents, catalog.Option{Value: p.ID, Label: p.Name})
			}
		}
		return FormView{Fields: []Field{
			text("name", "Name", f.Name, true),
			textarea("description", "Description", f.Description, false),
			selectField("parentCategoryId", "Parent category", f.ParentCategoryID, false, parents),
			checkbox("isActive", "Active", f.IsActive),
		}}
	},
}

// Checkouts

func checkoutBadge(c model.Checkout) string { return c.Status }

var checkoutList = listSpec[model.Checkout]{
	Title:   "Checkouts",
	Noun:    "checkout",
	Base:    "/inventory/checkouts",
	Desc:    catalog.Checkouts,
	Columns: catalog.CheckoutColumns,
	Badge:   checkoutBadge,
	Filters: catalog.CheckoutFilters,
	Links:   inventoryLinks,
	Create:  true,
	View:    true,
}

var checkoutForm = formSpec[model.Checkout, []model.Equipment, forms.CheckoutForm]{
	Noun: "checkout",
	Base: "/inventory/checkouts",
	Desc: catalog.Checkouts,
	Refs: func(ctx context.Context, s *Server, token string) ([]model.Equipment, error) {
		return listAll(ctx, s, token, catalog.Equipment)
	},
	Blank: forms.NewCheckoutForm,
	Parse: noParse[model.Checkout](func(r *http.Request, equipment []model.Equipment) forms.CheckoutForm {
		return forms.ParseCheckoutForm(r.PostForm, equipment)
	}),
	View: func(f forms.CheckoutForm) FormView {
		opts := make([]catalog.Option, 0, len(f.Equipment))
		for _, e := range f.Equipment {
			opts = append(opts, catalog.Option{Value: e.ID, Label: fmt.Sprintf("%s (%d available)", e.Name, e.CurrentQuantity)})
		}
		return FormView{Fields: []Field{
			selectField("equipmentId", "Equipment", f.EquipmentID, true, opts),
			text("userId", "User ID", f.UserID, true),
			text("projectId", "Project ID", f.ProjectID, false),
			number("quantity", "Quantity", f.Quantity),
			date("expectedReturnDate", "Expected return", f.ExpectedReturnDate),
			selectField("status", "Status", f.Status, false, statusOptions([]string{model.CheckoutCheckedOut, model.CheckoutProjectUse})),
			textarea("notes", "Notes", f.Notes, false),
		}}
	},
}

func returnFormView(c model.Checkout, quantity int, notes string) *FormView {
	if c.Remaining() <= 0 || c.Status == model.CheckoutReturned {
		return nil
	}
	return &FormView{
		Heading: "Record return",
		Action:  "/inventory/checkouts/" + url.PathEscape(c.ID) + "/return",
		Submit:  "Record return",
		Notice:  fmt.Sprintf("%d of %d units outstanding.", c.Remaining(), c.Quantity),
		Fields: []Field{
			number("returnQuantity", "Quantity returned", quantity),
			textarea("notes", "Notes", notes, false),
		},
	}
}

func checkoutDetail(c model.Checkout) DetailView {
	return DetailView{
		Heading: "Checkout of " + orDash(c.EquipmentName),
		Badge:   c.Status,
		Back:    Link{Label: "Back to checkouts", Href: "/inventory/checkouts"},
		Fields: []DetailField{
			{"Equipment", orDash(c.EquipmentName)},
			{"User", orDash(c.UserName)},
			{"Project", orDash(c.ProjectID)},
			{"Quantity", strconv.Itoa(c.Quantity)},
			{"Returned", strconv.Itoa(c.ReturnedQuantity)},
			{"Remaining", strconv.Itoa(c.Remaining())},
			{"Checked out", catalog.Date(c.CheckoutDate)},
			{"Expected return", catalog.Date(c.ExpectedReturnDate)},
			{"Returned on", catalog.Date(c.ActualReturnDate)},
			{"Notes", orDash(c.Notes)},
		},
		Form: returnFormView(c, c.Remaining(), ""),
	}
}

func (s *Server) handleCheckoutDetail(w http.ResponseWriter, r *http.Request) {
	c, ok := fetch(s, w, r, catalog.Checkouts, "/inventory/checkouts")
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "detail", "Checkout", checkoutDetail(c))
}

// handleCheckoutReturn records returned units against a checkout. The
// outstanding quantity is re-read from the backend, never taken from the
// form.
func (s *Server) handleCheckoutReturn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c, ok := fetch(s, w, r, catalog.Checkouts, "/inventory/checkouts")
	if !ok {
		return
	}
	form := forms.ParseReturnForm(c, r.PostForm)
	if err := form.Validate(); err != nil {
		view := checkoutDetail(c)
		view.Form = returnFormView(c, form.Quantity, form.Notes)
		message := err.Error()
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			message = verr.Message
		}
		s.render(w, r, http.StatusUnprocessableEntity, "detail", "Checkout", view, inlineError(message))
		return
	}

	sess := currentSession(r)
	src := resource.Remote[model.Checkout]{Desc: catalog.Checkouts, Client: s.backend, Token: sess.AccessToken}
	if _, err := src.Update(r.Context(), c.ID, form.Payload()); err != nil {
		if s.handleBackendError(w, r, err) {
			return
		}
		view := checkoutDetail(c)
		view.Form = returnFormView(c, form.Quantity, form.Notes)
		s.render(w, r, http.StatusBadGateway, "detail", "Checkout", view, inlineError(backend.Message("recording the return", err)))
		return
	}
	s.record(r, audit.ActionUpdate, catalog.Checkouts.Name, c.ID)
	s.stageHighlight(r, sess, "/inventory/checkouts", c.ID)
	s.toasts.Success(w, r, fmt.Sprintf("Recorded return of %d unit(s)", form.Quantity))
	http.Redirect(w, r, "/inventory/checkouts", http.StatusSeeOther)
}

func (s *Server) inventoryRoutes(r chi.Router) {
	r.Get("/inventory", serveList(s, equipmentList))
	r.Get("/inventory/create", serveNew(s, equipmentForm))
	r.Post("/inventory/create", serveSubmit(s, equipmentForm))
	r.Get("/inventory/edit/{id}", serveEdit(s, equipmentForm))
	r.Post("/inventory/edit/{id}", serveSubmit(s, equipmentForm))
	r.Post("/inventory/delete/{id}", serveDelete(s, equipmentList))

	r.Get("/inventory/categories", serveList(s, categoryList))
	r.Get("/inventory/categories/create", serveNew(s, categoryForm))
	r.Post("/inventory/categories/create", serveSubmit(s, categoryForm))
	r.Get("/inventory/categories/edit/{id}", serveEdit(s, categoryForm))
	r.Post("/inventory/categories/edit/{id}", serveSubmit(s, categoryForm))
	r.Post("/inventory/categories/delete/{id}", serveDelete(s, categoryList))

	r.Get("/inventory/checkouts", serveList(s, checkoutList))
	r.Get("/inventory/checkouts/create", serveNew(s, checkoutForm))
	r.Post("/inventory/checkouts/create", serveSubmit(s, checkoutForm))
	r.Get("/inventory/checkouts/{id}", s.handleCheckoutDetail)
	r.Post("/inventory/checkouts/{id}/return", s.handleCheckoutReturn)

	r.Get("/inventory/{id}", s.handleEquipmentDetail)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
