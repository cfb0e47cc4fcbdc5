package forms

import (
	"net/url"
	"strings"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

type EventForm struct {
	Title                string `form:"title" validate:"required,min=3,max=200"`
	Description          string `form:"description" validate:"required,min=10"`
	Type                 string `form:"type" validate:"max=50"`
	StartDate            string `form:"startDate" validate:"required"`
	EndDate              string `form:"endDate" validate:"required"`
	Location             string `form:"location" validate:"max=200"`
	Capacity             int    `form:"capacity" validate:"gte=0"`
	RegistrationRequired bool   `form:"registrationRequired"`
	RegistrationDeadline string `form:"registrationDeadline"`
	Status               string `form:"status" validate:"required,oneof=upcoming ongoing completed cancelled"`
	IsFeatured           bool   `form:"isFeatured"`
	ShowInNav            bool   `form:"showInNav"`
	NavLabel             string `form:"navLabel" validate:"max=30"`
	ImageURL             string `form:"imageUrl" validate:"omitempty,url"`

	parse error
}

var eventMessages = map[string]string{
	"Title.required":       "Event title is required",
	"Title.min":            "Event title must be at least 3 characters",
	"Title.max":            "Event title must be at most 200 characters",
	"Description.required": "Event description is required",
	"Description.min":      "Event description must be at least 10 characters",
	"Type.max":             "Event type must be at most 50 characters",
	"StartDate.required":   "Start date is required",
	"EndDate.required":     "End date is required",
	"Location.max":         "Location must be at most 200 characters",
	"Capacity.gte":         "Capacity cannot be negative",
	"Status.required":      "Status is required",
	"Status.oneof":         "Status must be upcoming, ongoing, completed or cancelled",
	"NavLabel.max":         "Navigation label must be at most 30 characters",
	"ImageURL.url":         "Image URL must be a valid URL",
}

func NewEventForm() EventForm {
	return EventForm{Status: model.EventUpcoming}
}

func EventFormFrom(e model.Event) EventForm {
	return EventForm{
		Title:                e.Title,
		Description:          e.Description,
		Type:                 e.Type,
		StartDate:            formatDateTime(e.StartDate),
		EndDate:              formatDateTime(e.EndDate),
		Location:             e.Location,
		Capacity:             e.Capacity,
		RegistrationRequired: e.RegistrationRequired,
		RegistrationDeadline: formatDateTime(e.RegistrationDeadline),
		Status:               e.Status,
		IsFeatured:           e.IsFeatured,
		ShowInNav:            e.ShowInNav,
		NavLabel:             e.NavLabel,
		ImageURL:             e.ImageURL,
	}
}

func ParseEventForm(values url.Values) EventForm {
	d := newDecoder(values)
	f := EventForm{
		Title:                d.str("title"),
		Description:          d.str("description"),
		Type:                 d.str("type"),
		StartDate:            d.str("startDate"),
		EndDate:              d.str("endDate"),
		Location:             d.str("location"),
		Capacity:             d.integer("capacity", "Capacity"),
		RegistrationRequired: d.boolean("registrationRequired"),
		RegistrationDeadline: d.str("registrationDeadline"),
		Status:               d.str("status"),
		IsFeatured:           d.boolean("isFeatured"),
		ShowInNav:            d.boolean("showInNav"),
		NavLabel:             d.str("navLabel"),
		ImageURL:             d.str("imageUrl"),
	}
	f.parse = d.parseErr()
	return f
}

func (f EventForm) Validate() error {
	if f.parse != nil {
		return f.parse
	}
	if err := check(f, eventMessages); err != nil {
		return err
	}
	start, ok := parseTime(f.StartDate)
	if !ok {
		return invalid("startDate", "Start date is not a valid date")
	}
	end, ok := parseTime(f.EndDate)
	if !ok {
		return invalid("endDate", "End date is not a valid date")
	}
	if !end.After(start) {
		return invalid("endDate", "End date must be after the start date")
	}
	if f.RegistrationDeadline != "" {
		deadline, ok := parseTime(f.RegistrationDeadline)
		if !ok {
			return invalid("registrationDeadline", "Registration deadline is not a valid date")
		}
		if deadline.After(start) {
			return invalid("registrationDeadline", "Registration deadline must not be after the start date")
		}
	}
	if f.ShowInNav && f.NavLabel == "" {
		return invalid("navLabel", "Navigation label is required when the event is shown in navigation")
	}
	return nil
}

func (f EventForm) Payload() map[string]interface{} {
	p := payload{
		"title":                strings.TrimSpace(f.Title),
		"description":          strings.TrimSpace(f.Description),
		"capacity":             f.Capacity,
		"registrationRequired": f.RegistrationRequired,
		"status":               f.Status,
		"isFeatured":           f.IsFeatured,
		"showInNav":            f.ShowInNav,
	}
	p.str("type", f.Type)
	p.date("startDate", f.StartDate)
	p.date("endDate", f.EndDate)
	p.str("location", f.Location)
	p.date("registrationDeadline", f.RegistrationDeadline)
	if f.ShowInNav {
		p.str("navLabel", f.NavLabel)
	}
	p.str("imageUrl", f.ImageURL)
	return p
}

// ApplicationForm is the optional application sub-form of a news article.
type ApplicationForm struct {
	Enabled       bool   `form:"applicationEnabled"`
	Type          string `form:"applicationType" validate:"omitempty,oneof=project event workshop recruitment other"`
	StartDate     string `form:"formApplyStartDate"`
	LastDate      string `form:"formApplyLastDate"`
	MaxApplicants int    `form:"maxApplicants" validate:"gte=0"`
	TargetID      string `form:"targetId"`
	ExternalLink  string `form:"externalLink" validate:"omitempty,url"`
}

type NewsForm struct {
	Title         string `form:"title" validate:"required,min=5,max=200"`
	Content       string `form:"content" validate:"required,min=20"`
	Summary       string `form:"summary" validate:"max=500"`
	CategoryID    string `form:"categoryId" validate:"required"`
	FeaturedImage string `form:"featuredImageUrl" validate:"omitempty,url"`
	Tags          []string
	IsPublished   bool `form:"isPublished"`
	IsFeatured    bool `form:"isFeatured"`
	Application   ApplicationForm `validate:"-"`

	Categories []model.NewsCategory

	parse error
}

var newsMessages = map[string]string{
	"Title.required":      "Article title is required",
	"Title.min":           "Article title must be at least 5 characters",
	"Title.max":           "Article title must be at most 200 characters",
	"Content.required":    "Article content is required",
	"Content.min":         "Article content must be at least 20 characters",
	"Summary.max":         "Summary must be at most 500 characters",
	"CategoryID.required": "Please select a category",
	"FeaturedImage.url":   "Featured image must be a valid URL",
	"Type.oneof":          "Unknown application type",
	"MaxApplicants.gte":   "Maximum applicants cannot be negative",
	"ExternalLink.url":    "Application link must be a valid URL",
}

func NewNewsForm(categories []model.NewsCategory) NewsForm {
	return NewsForm{Categories: categories, Tags: []string{}}
}

func NewsFormFrom(a model.NewsArticle, categories []model.NewsCategory) NewsForm {
	f := NewsForm{
		Title:         a.Title,
		Content:       a.Content,
		Summary:       a.Summary,
		FeaturedImage: a.FeaturedImage,
		Tags:          append([]string{}, a.Tags...),
		IsPublished:   a.IsPublished,
		IsFeatured:    a.IsFeatured,
		Categories:    categories,
	}
	for _, c := range categories {
		if c.ID == a.CategoryID {
			f.CategoryID = a.CategoryID
		}
	}
	if app := a.Application; app != nil {
		f.Application = ApplicationForm{
			Enabled:       app.IsEnabled,
			Type:          app.Type,
			StartDate:     formatDateTime(app.FormApplyStartDate),
			LastDate:      formatDateTime(app.FormApplyLastDate),
			MaxApplicants: app.MaxApplicants,
			TargetID:      app.TargetID,
			ExternalLink:  app.ExternalLink,
		}
	}
	return f
}

func ParseNewsForm(values url.Values, categories []model.NewsCategory) NewsForm {
	d := newDecoder(values)
	enabled := d.boolean("applicationEnabled")
	maxApplicants := 0
	if enabled {
		maxApplicants = d.integer("maxApplicants", "Maximum applicants")
	}
	f := NewsForm{
		Title:         d.str("title"),
		Content:       d.str("content"),
		Summary:       d.str("summary"),
		CategoryID:    d.str("categoryId"),
		FeaturedImage: d.str("featuredImageUrl"),
		Tags:          d.list("tags"),
		IsPublished:   d.boolean("isPublished"),
		IsFeatured:    d.boolean("isFeatured"),
		Application: ApplicationForm{
			Enabled:       enabled,
			Type:          d.str("applicationType"),
			StartDate:     d.str("formApplyStartDate"),
			LastDate:      d.str("formApplyLastDate"),
			MaxApplicants: maxApplicants,
			TargetID:      d.str("targetId"),
			ExternalLink:  d.str("externalLink"),
		},
		Categories: categories,
	}
	f.parse = d.parseErr()
	return f
}

func (f NewsForm) Validate() error {
	if f.parse != nil {
		return f.parse
	}
	if err := check(f, newsMessages); err != nil {
		return err
	}
	return f.Application.validate()
}

// validate checks an enabled application sub-form. Dates are only ordered
// when both are present.
func (a ApplicationForm) validate() error {
	if !a.Enabled {
		return nil
	}
	if err := check(a, newsMessages); err != nil {
		return err
	}
	if err := checkDate("formApplyStartDate", "Application start date", a.StartDate); err != nil {
		return err
	}
	if err := checkDate("formApplyLastDate", "Application last date", a.LastDate); err != nil {
		return err
	}
	start, hasStart := parseTime(a.StartDate)
	last, hasLast := parseTime(a.LastDate)
	if hasStart && hasLast && !start.Before(last) {
		return invalid("formApplyLastDate", "Application start date must be before the last date")
	}
	return nil
}

func (f NewsForm) Payload() map[string]interface{} {
	p := payload{
		"title":       strings.TrimSpace(f.Title),
		"content":     strings.TrimSpace(f.Content),
		"categoryId":  f.CategoryID,
		"isPublished": f.IsPublished,
		"isFeatured":  f.IsFeatured,
		"tags":        f.Tags,
	}
	p.str("summary", f.Summary)
	p.str("featuredImageUrl", f.FeaturedImage)
	if f.Application.Enabled {
		app := payload{"isApplicationEnabled": true}
		app.str("applicationType", f.Application.Type)
		app.date("formApplyStartDate", f.Application.StartDate)
		app.date("formApplyLastDate", f.Application.LastDate)
		if f.Application.MaxApplicants > 0 {
			app["maxApplicants"] = f.Application.MaxApplicants
		}
		app.str("targetId", f.Application.TargetID)
		app.str("externalLink", f.Application.ExternalLink)
		p["application"] = map[string]interface{}(app)
	} else {
		p["application"] = map[string]interface{}{"isApplicationEnabled": false}
	}
	return p
}

type NewsCategoryForm struct {
	Name        string `form:"name" validate:"required,min=2,max=50"`
	Description string `form:"description" validate:"max=300"`
	Color       string `form:"color" validate:"omitempty,hexcolor"`
	IsActive    bool   `form:"isActive"`
}

var newsCategoryMessages = map[string]string{
	"Name.required":   "Category name is required",
	"Name.min":        "Category name must be at least 2 characters",
	"Name.max":        "Category name must be at most 50 characters",
	"Description.max": "Description must be at most 300 characters",
	"Color.hexcolor":  "Color must be a hex value such as #1e90ff",
}

func NewNewsCategoryForm() NewsCategoryForm {
	return NewsCategoryForm{IsActive: true}
}

func NewsCategoryFormFrom(c model.NewsCategory) NewsCategoryForm {
	return NewsCategoryForm{Name: c.Name, Description: c.Description, Color: c.Color, IsActive: c.IsActive}
}

func ParseNewsCategoryForm(values url.Values) NewsCategoryForm {
	d := newDecoder(values)
	return NewsCategoryForm{
		Name:        d.str("name"),
		Description: d.str("description"),
		Color:       d.str("color"),
		IsActive:    d.boolean("isActive"),
	}
}

func (f NewsCategoryForm) Validate() error {
	return check(f, newsCategoryMessages)
}

func (f NewsCategoryForm) Payload() map[string]interface{} {
	p := payload{"name": strings.TrimSpace(f.Name), "isActive": f.IsActive}
	p.str("description", f.Description)
	p.str("color", f.Color)
	return p
}

// LinkRow is one external link row of a research area.
type LinkRow struct {
	Title       string `form:"linkTitle" validate:"required,max=100"`
	URL         string `form:"linkUrl" validate:"required"`
	Description string `form:"linkDescription" validate:"max=300"`
}

func (r LinkRow) blank() bool {
	return r.Title == "" && r.URL == "" && r.Description == ""
}

var linkMessages = map[string]string{
	"Title.required":  "Link title is required",
	"Title.max":       "Link title must be at most 100 characters",
	"URL.required":    "Link URL is required",
	"Description.max": "Link description must be at most 300 characters",
}

// Validate checks one link row.
func (r LinkRow) Validate() error {
	if err := check(r, linkMessages); err != nil {
		return err
	}
	if !validURL(r.URL) {
		return invalid("linkUrl", "Link URL must be a valid URL")
	}
	return nil
}

type ResearchAreaForm struct {
	Name              string `form:"name" validate:"required,min=3,max=100"`
	Description       string `form:"description" validate:"required,min=10,max=2000"`
	Category          string `form:"category" validate:"max=50"`
	Keywords          []string
	FocusAreas        []string
	RequiredEquipment []string
	RequiredSkills    []string
	StudentIDs        []string
	Links             []LinkRow
	IsActive          bool `form:"isActive"`

	Categories []string
}

var researchAreaMessages = map[string]string{
	"Name.required":        "Research area name is required",
	"Name.min":             "Research area name must be at least 3 characters",
	"Name.max":             "Research area name must be at most 100 characters",
	"Description.required": "Description is required",
	"Description.min":      "Description must be at least 10 characters",
	"Description.max":      "Description must be at most 2000 characters",
	"Category.max":         "Category must be at most 50 characters",
}

func NewResearchAreaForm(categories []string) ResearchAreaForm {
	return ResearchAreaForm{IsActive: true, Categories: categories}
}

func ResearchAreaFormFrom(r model.ResearchArea, categories []string) ResearchAreaForm {
	f := ResearchAreaForm{
		Name:              r.Name,
		Description:       r.Description,
		Category:          r.Category,
		Keywords:          append([]string{}, r.Keywords...),
		FocusAreas:        append([]string{}, r.FocusAreas...),
		RequiredEquipment: append([]string{}, r.RequiredEquipment...),
		RequiredSkills:    append([]string{}, r.RequiredSkills...),
		StudentIDs:        append([]string{}, r.StudentIDs...),
		IsActive:          r.IsActive,
		Categories:        categories,
	}
	for _, l := range r.ExternalLinks {
		f.Links = append(f.Links, LinkRow{Title: l.Title, URL: l.URL, Description: l.Description})
	}
	return f
}

// ParseResearchAreaForm reads a posted form. Link rows arrive as parallel
// linkTitle/linkUrl/linkDescription lists; fully blank rows are dropped.
func ParseResearchAreaForm(values url.Values, categories []string) ResearchAreaForm {
	d := newDecoder(values)
	f := ResearchAreaForm{
		Name:              d.str("name"),
		Description:       d.str("description"),
		Category:          d.str("category"),
		Keywords:          d.list("keywords"),
		FocusAreas:        d.list("focusAreas"),
		RequiredEquipment: d.list("requiredEquipment"),
		RequiredSkills:    d.list("requiredSkills"),
		StudentIDs:        d.list("studentIds"),
		IsActive:          d.boolean("isActive"),
		Categories:        categories,
	}
	titles, urls, descs := values["linkTitle"], values["linkUrl"], values["linkDescription"]
	for i := 0; i < len(titles) || i < len(urls) || i < len(descs); i++ {
		row := LinkRow{Title: at(titles, i), URL: at(urls, i), Description: at(descs, i)}
		if row.blank() {
			continue
		}
		f.Links = append(f.Links, row)
	}
	return f
}

func at(values []string, i int) string {
	if i < len(values) {
		return strings.TrimSpace(values[i])
	}
	return ""
}

func (f ResearchAreaForm) Validate() error {
	if err := check(f, researchAreaMessages); err != nil {
		return err
	}
	for _, link := range f.Links {
		if err := link.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f ResearchAreaForm) Payload() map[string]interface{} {
	p := payload{
		"name":        strings.TrimSpace(f.Name),
		"description": strings.TrimSpace(f.Description),
		"isActive":    f.IsActive,
	}
	p.str("category", f.Category)
	p.list("keywords", f.Keywords)
	p.list("focusAreas", f.FocusAreas)
	p.list("requiredEquipment", f.RequiredEquipment)
	p.list("requiredSkills", f.RequiredSkills)
	p.list("studentIds", f.StudentIDs)
	links := make([]map[string]interface{}, 0, len(f.Links))
	for _, l := range f.Links {
		if l.blank() {
			continue
		}
		link := payload{"title": l.Title, "url": l.URL}
		link.str("description", l.Description)
		links = append(links, link)
	}
	p["externalLinks"] = links
	return p
}
