// Package catalog binds each panel entity to its backend collection and to
// the list behaviour the generic controllers need.
package catalog

import (
	"strings"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
)

var Equipment = resource.Descriptor[model.Equipment]{
	Name:         "equipment",
	Endpoint:     "/api/inventory/equipment",
	Key:          "equipment",
	FilterKeys:   []string{"category", "status", "location"},
	ServerSearch: true,
	ID:           func(e model.Equipment) string { return e.ID },
	Matches: func(e model.Equipment, q string) bool {
		return resource.ContainsFold(q, e.Name, e.Description, e.Manufacturer, e.Model, e.SerialNumber, e.Location)
	},
	Normalize: func(e *model.Equipment) { e.Normalize() },
	// status is derived; the backend's own status filter may be stale.
	Keep: func(e model.Equipment, f resource.Filter) bool {
		status := f.Params["status"]
		return status == "" || e.Status == status
	},
}

var EquipmentCategories = resource.Descriptor[model.EquipmentCategory]{
	Name:     "category",
	Endpoint: "/api/inventory/categories",
	Key:      "categories",
	ID:       func(c model.EquipmentCategory) string { return c.ID },
	Matches: func(c model.EquipmentCategory, q string) bool {
		return resource.ContainsFold(q, c.Name, c.Description)
	},
}

var Checkouts = resource.Descriptor[model.Checkout]{
	Name:       "checkout",
	Endpoint:   "/api/inventory/checkouts",
	Key:        "checkouts",
	FilterKeys: []string{"status", "equipmentId", "userId"},
	ID:         func(c model.Checkout) string { return c.ID },
	Matches: func(c model.Checkout, q string) bool {
		return resource.ContainsFold(q, c.EquipmentName, c.UserName, c.Notes)
	},
}

var Events = resource.Descriptor[model.Event]{
	Name:         "event",
	Endpoint:     "/api/events",
	Key:          "events",
	FilterKeys:   []string{"status", "type"},
	ServerSearch: true,
	ID:           func(e model.Event) string { return e.ID },
	Matches: func(e model.Event, q string) bool {
		return resource.ContainsFold(q, e.Title, e.Description, e.Location, e.Type)
	},
}

// News lists through the admin endpoint so drafts are included; single
// articles are fetched and written through /api/news.
var News = resource.Descriptor[model.NewsArticle]{
	Name:         "article",
	Endpoint:     "/api/news",
	Key:          "articles",
	FilterKeys:   []string{"category", "isPublished", "isFeatured"},
	ServerSearch: true,
	ID:           func(a model.NewsArticle) string { return a.ID },
	Matches: func(a model.NewsArticle, q string) bool {
		return resource.ContainsFold(q, a.Title, a.Summary, a.AuthorName, strings.Join(a.Tags, " "))
	},
}

const NewsAdminEndpoint = "/api/news/admin"

var NewsCategories = resource.Descriptor[model.NewsCategory]{
	Name:     "news category",
	Endpoint: "/api/news/categories",
	Key:      "categories",
	ID:       func(c model.NewsCategory) string { return c.ID },
	Matches: func(c model.NewsCategory, q string) bool {
		return resource.ContainsFold(q, c.Name, c.Description)
	},
}

var ResearchAreas = resource.Descriptor[model.ResearchArea]{
	Name:         "research area",
	Endpoint:     "/api/research-areas",
	Key:          "researchAreas",
	FilterKeys:   []string{"category", "isActive"},
	ServerSearch: true,
	ID:           func(r model.ResearchArea) string { return r.ID },
	Matches: func(r model.ResearchArea, q string) bool {
		return resource.ContainsFold(q, r.Name, r.Description, r.Category, strings.Join(r.Keywords, " "))
	},
}

const ResearchAreaCategoriesEndpoint = "/api/research-areas/categories"

var Subscriptions = resource.Descriptor[model.NewsletterSubscription]{
	Name:       "subscription",
	Endpoint:   "/api/newsletter/admin/subscriptions",
	Key:        "subscriptions",
	FilterKeys: []string{"isActive", "source"},
	ID:         func(s model.NewsletterSubscription) string { return s.ID },
	Matches: func(s model.NewsletterSubscription, q string) bool {
		return resource.ContainsFold(q, s.Email, s.Name)
	},
}

var Campaigns = resource.Descriptor[model.Campaign]{
	Name:       "campaign",
	Endpoint:   "/api/newsletter/admin/campaigns",
	Key:        "campaigns",
	FilterKeys: []string{"status"},
	ID:         func(c model.Campaign) string { return c.ID },
	Matches: func(c model.Campaign, q string) bool {
		return resource.ContainsFold(q, c.Subject)
	},
}

var Users = resource.Descriptor[model.UserSummary]{
	Name:         "user",
	Endpoint:     "/api/users",
	Key:          "users",
	FilterKeys:   []string{"role", "department", "isActive"},
	ServerSearch: true,
	ID:           func(u model.UserSummary) string { return u.ID },
	Matches: func(u model.UserSummary, q string) bool {
		return resource.ContainsFold(q, u.FullName(), u.Email, u.Department, u.StudentID)
	},
}

var Projects = resource.Descriptor[model.Project]{
	Name:         "project",
	Endpoint:     "/api/projects",
	Key:          "projects",
	FilterKeys:   []string{"status", "category"},
	ServerSearch: true,
	ID:           func(p model.Project) string { return p.ID },
	Matches: func(p model.Project, q string) bool {
		return resource.ContainsFold(q, p.Title, p.Description, p.Category)
	},
}

var Media = resource.Descriptor[model.MediaItem]{
	Name:       "media",
	Endpoint:   "/api/media",
	Key:        "media",
	FilterKeys: []string{"type", "projectId"},
	ID:         func(m model.MediaItem) string { return m.ID },
	Matches: func(m model.MediaItem, q string) bool {
		return resource.ContainsFold(q, m.Title, m.Type)
	},
}

// AdminList returns d with its collection endpoint swapped for listing.
func AdminList[T any](d resource.Descriptor[T], endpoint string) resource.Descriptor[T] {
	d.Endpoint = endpoint
	return d
}
