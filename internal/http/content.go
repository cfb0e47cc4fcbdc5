package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/forms"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
)

// Events

var eventList = listSpec[model.Event]{
	Title:   "Events",
	Noun:    "event",
	Base:    "/events",
	Desc:    catalog.Events,
	Columns: catalog.EventColumns,
	Badge:   func(e model.Event) string { return e.Status },
	Filters: catalog.EventFilters,
	Create:  true,
	View:    true,
	Edit:    true,
	Delete:  true,
}

var eventForm = formSpec[model.Event, struct{}, forms.EventForm]{
	Noun:  "event",
	Base:  "/events",
	Desc:  catalog.Events,
	Blank: func(struct{}) forms.EventForm { return forms.NewEventForm() },
	Seed:  func(e model.Event, _ struct{}) forms.EventForm { return forms.EventFormFrom(e) },
	Parse: noParse[model.Event](func(r *http.Request, _ struct{}) forms.EventForm {
		return forms.ParseEventForm(r.PostForm)
	}),
	View: func(f forms.EventForm) FormView {
		return FormView{Fields: []Field{
			text("title", "Title", f.Title, true),
			textarea("description", "Description", f.Description, true),
			text("type", "Type", f.Type, false),
			datetime("startDate", "Starts", f.StartDate),
			datetime("endDate", "Ends", f.EndDate),
			text("location", "Location", f.Location, false),
			{Name: "capacity", Label: "Capacity", Type: "number", Value: strconv.Itoa(f.Capacity), Help: "0 means unlimited"},
			checkbox("registrationRequired", "Registration required", f.RegistrationRequired),
			datetime("registrationDeadline", "Registration deadline", f.RegistrationDeadline),
			selectField("status", "Status", f.Status, true, statusOptions(model.EventStatuses)),
			checkbox("isFeatured", "Featured", f.IsFeatured),
			checkbox("showInNav", "Show in site navigation", f.ShowInNav),
			text("navLabel", "Navigation label", f.NavLabel, false),
			{Name: "imageUrl", Label: "Image URL", Type: "url", Value: f.ImageURL},
		}}
	},
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	e, ok := fetch(s, w, r, catalog.Events, "/events")
	if !ok {
		return
	}
	capacity, spots := "Unlimited", "-"
	if e.Capacity > 0 {
		capacity = strconv.Itoa(e.Capacity)
		spots = strconv.Itoa(e.SpotsLeft())
	}
	view := DetailView{
		Heading: e.Title,
		Badge:   e.Status,
		Back:    Link{Label: "Back to events", Href: "/events"},
		Edit:    "/events/edit/" + url.PathEscape(e.ID),
		Fields: []DetailField{
			{"Description", e.Description},
			{"Type", orDash(e.Type)},
			{"Starts", catalog.DateTime(e.StartDate)},
			{"Ends", catalog.DateTime(e.EndDate)},
			{"Location", orDash(e.Location)},
			{"Capacity", capacity},
			{"Registrations", strconv.Itoa(e.CurrentRegistrations)},
			{"Spots left", spots},
			{"Registration deadline", catalog.DateTime(e.RegistrationDeadline)},
			{"Featured", yesNo(e.IsFeatured)},
			{"In navigation", yesNo(e.ShowInNav)},
		},
		Actions: []Action{{Label: "Delete", Href: "/events/delete/" + url.PathEscape(e.ID), Danger: true}},
	}
	if len(e.Registrations) > 0 {
		regs := catalog.Table{Headers: []string{"Name", "Email", "Status", "Registered"}}
		for _, reg := range e.Registrations {
			regs.Rows = append(regs.Rows, catalog.Row{
				ID:    reg.ID,
				Cells: []string{orDash(reg.Name), orDash(reg.Email), catalog.Humanize(reg.Status), catalog.DateTime(reg.RegisteredAt)},
			})
		}
		view.Tables = append(view.Tables, TableSection{Title: "Registrations", Table: regs})
	}
	s.render(w, r, http.StatusOK, "detail", e.Title, view)
}

// News

var newsLinks = []Link{
	{Label: "Articles", Href: "/news"},
	{Label: "Categories", Href: "/news/categories"},
}

var newsList = listSpec[model.NewsArticle]{
	Title:   "News",
	Noun:    "article",
	Base:    "/news",
	Desc:    catalog.News,
	Columns: catalog.NewsColumns,
	Filters: catalog.NewsFilters,
	Links:   newsLinks,
	Create:  true,
	View:    true,
	Edit:    true,
	Delete:  true,
	Source: func(s *Server, token string) resource.Source[model.NewsArticle] {
		return splitSource[model.NewsArticle]{
			Source: resource.Remote[model.NewsArticle]{Desc: catalog.News, Client: s.backend, Token: token},
			lister: resource.Remote[model.NewsArticle]{
				Desc:   catalog.AdminList(catalog.News, catalog.NewsAdminEndpoint),
				Client: s.backend,
				Token:  token,
			},
		}
	},
}

var newsForm = formSpec[model.NewsArticle, []model.NewsCategory, forms.NewsForm]{
	Noun: "article",
	Base: "/news",
	Desc: catalog.News,
	Refs: func(ctx context.Context, s *Server, token string) ([]model.NewsCategory, error) {
		return listAll(ctx, s, token, catalog.NewsCategories)
	},
	Blank: forms.NewNewsForm,
	Seed:  forms.NewsFormFrom,
	Parse: noParse[model.NewsArticle](func(r *http.Request, cats []model.NewsCategory) forms.NewsForm {
		return forms.ParseNewsForm(r.PostForm, cats)
	}),
	View: func(f forms.NewsForm) FormView {
		cats := make([]catalog.Option, 0, len(f.Categories))
		for _, c := range f.Categories {
			cats = append(cats, catalog.Option{Value: c.ID, Label: c.Name})
		}
		app := f.Application
		types := statusOptions([]string{"project", "event", "workshop", "recruitment", "other"})
		return FormView{Fields: []Field{
			text("title", "Title", f.Title, true),
			{Name: "content", Label: "Content", Type: "textarea", Value: f.Content, Required: true, Help: "Markdown is supported"},
			textarea("summary", "Summary", f.Summary, false),
			selectField("categoryId", "Category", f.CategoryID, true, cats),
			{Name: "featuredImageUrl", Label: "Featured image URL", Type: "url", Value: f.FeaturedImage},
			{Name: "tags", Label: "Tags", Type: "text", Value: joinList(f.Tags), Help: "Comma separated"},
			checkbox("isPublished", "Published", f.IsPublished),
			checkbox("isFeatured", "Featured", f.IsFeatured),
			checkbox("applicationEnabled", "Accept applications", app.Enabled),
			selectField("applicationType", "Application type", app.Type, false, append([]catalog.Option{{Value: "", Label: "None"}}, types...)),
			datetime("formApplyStartDate", "Applications open", app.StartDate),
			datetime("formApplyLastDate", "Applications close", app.LastDate),
			number("maxApplicants", "Maximum applicants", app.MaxApplicants),
			text("targetId", "Target ID", app.TargetID, false),
			{Name: "externalLink", Label: "Application link", Type: "url", Value: app.ExternalLink},
		}}
	},
}

func (s *Server) handleNewsDetail(w http.ResponseWriter, r *http.Request) {
	a, ok := fetch(s, w, r, catalog.News, "/news")
	if !ok {
		return
	}
	body, err := renderMarkdown([]byte(a.Content))
	if err != nil {
		s.logger.Warn("article markdown failed", zap.String("article", a.ID), zap.Error(err))
	}
	view := DetailView{
		Heading: a.Title,
		Back:    Link{Label: "Back to news", Href: "/news"},
		Edit:    "/news/edit/" + url.PathEscape(a.ID),
		Fields: []DetailField{
			{"Summary", orDash(a.Summary)},
			{"Category", orDash(a.CategoryName)},
			{"Author", orDash(a.AuthorName)},
			{"Tags", orDash(joinList(a.Tags))},
			{"Published", yesNo(a.IsPublished)},
			{"Published at", catalog.DateTime(a.PublishedAt)},
			{"Featured", yesNo(a.IsFeatured)},
			{"Views", strconv.Itoa(a.ViewCount)},
		},
		Body:    body,
		Actions: []Action{{Label: "Delete", Href: "/news/delete/" + url.PathEscape(a.ID), Danger: true}},
	}
	if app := a.Application; app != nil && app.IsEnabled {
		view.Fields = append(view.Fields,
			DetailField{"Application type", catalog.Humanize(app.Type)},
			DetailField{"Applications open", catalog.DateTime(app.FormApplyStartDate)},
			DetailField{"Applications close", catalog.DateTime(app.FormApplyLastDate)},
		)
	}
	s.render(w, r, http.StatusOK, "detail", a.Title, view)
}

var newsCategoryList = listSpec[model.NewsCategory]{
	Title:   "News Categories",
	Noun:    "news category",
	Base:    "/news/categories",
	Desc:    catalog.NewsCategories,
	Columns: catalog.NewsCategoryColumns,
	Links:   newsLinks,
	Create:  true,
	Edit:    true,
	Delete:  true,
}

var newsCategoryForm = formSpec[model.NewsCategory, struct{}, forms.NewsCategoryForm]{
	Noun:  "news category",
	Base:  "/news/categories",
	Desc:  catalog.NewsCategories,
	Blank: func(struct{}) forms.NewsCategoryForm { return forms.NewNewsCategoryForm() },
	Seed:  func(c model.NewsCategory, _ struct{}) forms.NewsCategoryForm { return forms.NewsCategoryFormFrom(c) },
	Parse: noParse[model.NewsCategory](func(r *http.Request, _ struct{}) forms.NewsCategoryForm {
		return forms.ParseNewsCategoryForm(r.PostForm)
	}),
	View: func(f forms.NewsCategoryForm) FormView {
		return FormView{Fields: []Field{
			text("name", "Name", f.Name, true),
			textarea("description", "Description", f.Description, false),
			{Name: "color", Label: "Colour", Type: "color", Value: f.Color},
			checkbox("isActive", "Active", f.IsActive),
		}}
	},
}

// Research areas

var researchAreaList = listSpec[model.ResearchArea]{
	Title:   "Research Areas",
	Noun:    "research area",
	Base:    "/research-areas",
	Desc:    catalog.ResearchAreas,
	Columns: catalog.ResearchAreaColumns,
	Filters: catalog.ResearchAreaFilters,
	Create:  true,
	View:    true,
	Edit:    true,
	Delete:  true,
}

// researchCategories reads the category vocabulary, which the backend
// returns either as a bare array or under "categories".
func researchCategories(ctx context.Context, s *Server, token string) ([]string, error) {
	page, err := backend.List[string](ctx, s.backend, token, catalog.ResearchAreaCategoriesEndpoint, "categories", nil)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

var researchAreaForm = formSpec[model.ResearchArea, []string, forms.ResearchAreaForm]{
	Noun:  "research area",
	Base:  "/research-areas",
	Desc:  catalog.ResearchAreas,
	Refs:  researchCategories,
	Blank: forms.NewResearchAreaForm,
	Seed:  forms.ResearchAreaFormFrom,
	Parse: noParse[model.ResearchArea](func(r *http.Request, cats []string) forms.ResearchAreaForm {
		return forms.ParseResearchAreaForm(r.PostForm, cats)
	}),
	View: func(f forms.ResearchAreaForm) FormView {
		category := text("category", "Category", f.Category, false)
		if len(f.Categories) > 0 {
			opts := []catalog.Option{{Value: "", Label: "None"}}
			known := false
			for _, c := range f.Categories {
				opts = append(opts, catalog.Option{Value: c, Label: catalog.Humanize(c)})
				known = known || c == f.Category
			}
			if !known && f.Category != "" {
				opts = append(opts, catalog.Option{Value: f.Category, Label: catalog.Humanize(f.Category)})
			}
			category = selectField("category", "Category", f.Category, false, opts)
		}
		links := make([][]string, 0, len(f.Links))
		for _, l := range f.Links {
			links = append(links, []string{l.Title, l.URL, l.Description})
		}
		list := func(name, label string, values []string) Field {
			return Field{Name: name, Label: label, Type: "text", Value: joinList(values), Help: "Comma separated"}
		}
		return FormView{
			Fields: []Field{
				text("name", "Name", f.Name, true),
				textarea("description", "Description", f.Description, true),
				category,
				list("keywords", "Keywords", f.Keywords),
				list("focusAreas", "Focus areas", f.FocusAreas),
				list("requiredEquipment", "Required equipment", f.RequiredEquipment),
				list("requiredSkills", "Required skills", f.RequiredSkills),
				list("studentIds", "Student IDs", f.StudentIDs),
				checkbox("isActive", "Active", f.IsActive),
			},
			Groups: []RowGroup{{
				Label: "External links",
				Columns: []GroupColumn{
					{Name: "linkTitle", Label: "Title", Type: "text"},
					{Name: "linkUrl", Label: "URL", Type: "url"},
					{Name: "linkDescription", Label: "Description", Type: "text"},
				},
				Rows: links,
			}},
		}
	},
}

func (s *Server) handleResearchAreaDetail(w http.ResponseWriter, r *http.Request) {
	ra, ok := fetch(s, w, r, catalog.ResearchAreas, "/research-areas")
	if !ok {
		return
	}
	view := DetailView{
		Heading: ra.Name,
		Back:    Link{Label: "Back to research areas", Href: "/research-areas"},
		Edit:    "/research-areas/edit/" + url.PathEscape(ra.ID),
		Fields: []DetailField{
			{"Description", ra.Description},
			{"Category", orDash(catalog.Humanize(ra.Category))},
			{"Keywords", orDash(joinList(ra.Keywords))},
			{"Focus areas", orDash(joinList(ra.FocusAreas))},
			{"Required equipment", orDash(joinList(ra.RequiredEquipment))},
			{"Required skills", orDash(joinList(ra.RequiredSkills))},
			{"Students", strconv.Itoa(len(ra.StudentIDs))},
			{"Active", yesNo(ra.IsActive)},
		},
		Actions: []Action{{Label: "Delete", Href: "/research-areas/delete/" + url.PathEscape(ra.ID), Danger: true}},
	}
	if len(ra.ExternalLinks) > 0 {
		links := catalog.Table{Headers: []string{"Title", "URL", "Description"}}
		for i, l := range ra.ExternalLinks {
			links.Rows = append(links.Rows, catalog.Row{ID: strconv.Itoa(i), Cells: []string{l.Title, l.URL, orDash(l.Description)}})
		}
		view.Tables = append(view.Tables, TableSection{Title: "External links", Table: links})
	}
	s.render(w, r, http.StatusOK, "detail", ra.Name, view)
}

func (s *Server) contentRoutes(r chi.Router) {
	r.Get("/events", serveList(s, eventList))
	r.Get("/events/create", serveNew(s, eventForm))
	r.Post("/events/create", serveSubmit(s, eventForm))
	r.Get("/events/edit/{id}", serveEdit(s, eventForm))
	r.Post("/events/edit/{id}", serveSubmit(s, eventForm))
	r.Post("/events/delete/{id}", serveDelete(s, eventList))
	r.Get("/events/{id}", s.handleEventDetail)

	r.Get("/news", serveList(s, newsList))
	r.Get("/news/create", serveNew(s, newsForm))
	r.Post("/news/create", serveSubmit(s, newsForm))
	r.Get("/news/edit/{id}", serveEdit(s, newsForm))
	r.Post("/news/edit/{id}", serveSubmit(s, newsForm))
	r.Post("/news/delete/{id}", serveDelete(s, newsList))
	r.Get("/news/categories", serveList(s, newsCategoryList))
	r.Get("/news/categories/create", serveNew(s, newsCategoryForm))
	r.Post("/news/categories/create", serveSubmit(s, newsCategoryForm))
	r.Get("/news/categories/edit/{id}", serveEdit(s, newsCategoryForm))
	r.Post("/news/categories/edit/{id}", serveSubmit(s, newsCategoryForm))
	r.Post("/news/categories/delete/{id}", serveDelete(s, newsCategoryList))
	r.Get("/news/{id}", s.handleNewsDetail)

	r.Get("/research-areas", serveList(s, researchAreaList))
	r.Get("/research-areas/create", serveNew(s, researchAreaForm))
	r.Post("/research-areas/create", serveSubmit(s, researchAreaForm))
	r.Get("/research-areas/edit/{id}", serveEdit(s, researchAreaForm))
	r.Post("/research-areas/edit/{id}", serveSubmit(s, researchAreaForm))
	r.Post("/research-areas/delete/{id}", serveDelete(s, researchAreaList))
	r.Get("/research-areas/{id}", s.handleResearchAreaDetail)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
