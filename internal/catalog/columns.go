package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

type Column[T any] struct {
	Header string
	Value  func(T) string
}

type Row struct {
	ID    string
	Cells []string
	// Badge is a status value rendered as a coloured pill in the last cell.
	Badge string
}

type Table struct {
	Headers []string
	Rows    []Row
}

// BuildTable renders items through cols. badge may be nil.
func BuildTable[T any](cols []Column[T], id func(T) string, badge func(T) string, items []T) Table {
	t := Table{Headers: make([]string, 0, len(cols))}
	for _, c := range cols {
		t.Headers = append(t.Headers, c.Header)
	}
	for _, item := range items {
		row := Row{ID: id(item), Cells: make([]string, 0, len(cols))}
		for _, c := range cols {
			row.Cells = append(row.Cells, c.Value(item))
		}
		if badge != nil {
			row.Badge = badge(item)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

type Option struct {
	Value string
	Label string
}

// FilterField is one categorical filter above a list.
type FilterField struct {
	Key     string
	Label   string
	Options []Option
}

func options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: Humanize(v)})
	}
	return out
}

var boolOptions = []Option{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}

// Humanize turns snake_case enum values into labels.
func Humanize(v string) string {
	if v == "" {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(v, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func DateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

var EquipmentColumns = []Column[model.Equipment]{
	{"Name", func(e model.Equipment) string { return e.Name }},
	{"Category", func(e model.Equipment) string { return orDash(e.CategoryName) }},
	{"Quantity", func(e model.Equipment) string {
		return fmt.Sprintf("%d (min %d, max %d)", e.CurrentQuantity, e.MinQuantity, e.MaxQuantity)
	}},
	{"Location", func(e model.Equipment) string { return orDash(e.Location) }},
	{"Status", func(e model.Equipment) string { return Humanize(e.Status) }},
}

var EquipmentFilters = []FilterField{
	{Key: "status", Label: "Status", Options: options(model.StatusAvailable, model.StatusLowStock, model.StatusOutOfStock)},
}

var CategoryColumns = []Column[model.EquipmentCategory]{
	{"Name", func(c model.EquipmentCategory) string { return c.Name }},
	{"Description", func(c model.EquipmentCategory) string { return orDash(c.Description) }},
	{"Parent", func(c model.EquipmentCategory) string { return orDash(c.ParentCategoryID) }},
	{"Active", func(c model.EquipmentCategory) string { return yesNo(c.IsActive) }},
}

var CheckoutColumns = []Column[model.Checkout]{
	{"Equipment", func(c model.Checkout) string { return orDash(c.EquipmentName) }},
	{"User", func(c model.Checkout) string { return orDash(c.UserName) }},
	{"Quantity", func(c model.Checkout) string {
		return fmt.Sprintf("%d (%d returned)", c.Quantity, c.ReturnedQuantity)
	}},
	{"Remaining", func(c model.Checkout) string { return strconv.Itoa(c.Remaining()) }},
	{"Due", func(c model.Checkout) string { return Date(c.ExpectedReturnDate) }},
	{"Status", func(c model.Checkout) string { return Humanize(c.Status) }},
}

var CheckoutFilters = []FilterField{
	{Key: "status", Label: "Status", Options: options(model.CheckoutStatuses...)},
}

var EventColumns = []Column[model.Event]{
	{"Title", func(e model.Event) string { return e.Title }},
	{"Starts", func(e model.Event) string { return DateTime(e.StartDate) }},
	{"Location", func(e model.Event) string { return orDash(e.Location) }},
	{"Registrations", func(e model.Event) string {
		if e.Capacity <= 0 {
			return strconv.Itoa(e.CurrentRegistrations)
		}
		return fmt.Sprintf("%d / %d", e.CurrentRegistrations, e.Capacity)
	}},
	{"Status", func(e model.Event) string { return Humanize(e.Status) }},
}

var EventFilters = []FilterField{
	{Key: "status", Label: "Status", Options: options(model.EventStatuses...)},
}

var NewsColumns = []Column[model.NewsArticle]{
	{"Title", func(a model.NewsArticle) string { return a.Title }},
	{"Category", func(a model.NewsArticle) string { return orDash(a.CategoryName) }},
	{"Author", func(a model.NewsArticle) string { return orDash(a.AuthorName) }},
	{"Published", func(a model.NewsArticle) string { return yesNo(a.IsPublished) }},
	{"Featured", func(a model.NewsArticle) string { return yesNo(a.IsFeatured) }},
	{"Views", func(a model.NewsArticle) string { return strconv.Itoa(a.ViewCount) }},
}

var NewsFilters = []FilterField{
	{Key: "isPublished", Label: "Published", Options: boolOptions},
	{Key: "isFeatured", Label: "Featured", Options: boolOptions},
}

var NewsCategoryColumns = []Column[model.NewsCategory]{
	{"Name", func(c model.NewsCategory) string { return c.Name }},
	{"Description", func(c model.NewsCategory) string { return orDash(c.Description) }},
	{"Color", func(c model.NewsCategory) string { return orDash(c.Color) }},
	{"Active", func(c model.NewsCategory) string { return yesNo(c.IsActive) }},
}

var ResearchAreaColumns = []Column[model.ResearchArea]{
	{"Name", func(r model.ResearchArea) string { return r.Name }},
	{"Category", func(r model.ResearchArea) string { return orDash(r.Category) }},
	{"Keywords", func(r model.ResearchArea) string { return orDash(strings.Join(r.Keywords, ", ")) }},
	{"Students", func(r model.ResearchArea) string { return strconv.Itoa(len(r.StudentIDs)) }},
	{"Active", func(r model.ResearchArea) string { return yesNo(r.IsActive) }},
}

var ResearchAreaFilters = []FilterField{
	{Key: "isActive", Label: "Active", Options: boolOptions},
}

var SubscriptionColumns = []Column[model.NewsletterSubscription]{
	{"Email", func(s model.NewsletterSubscription) string { return s.Email }},
	{"Name", func(s model.NewsletterSubscription) string { return orDash(s.Name) }},
	{"Source", func(s model.NewsletterSubscription) string { return orDash(s.Source) }},
	{"Subscribed", func(s model.NewsletterSubscription) string { return Date(s.SubscribedAt) }},
	{"Active", func(s model.NewsletterSubscription) string { return yesNo(s.IsActive) }},
}

var SubscriptionFilters = []FilterField{
	{Key: "isActive", Label: "Active", Options: boolOptions},
}

var CampaignColumns = []Column[model.Campaign]{
	{"Subject", func(c model.Campaign) string { return c.Subject }},
	{"Scheduled", func(c model.Campaign) string { return DateTime(c.ScheduledAt) }},
	{"Sent", func(c model.Campaign) string { return DateTime(c.SentAt) }},
	{"Recipients", func(c model.Campaign) string { return strconv.Itoa(c.SendStats.TotalRecipients) }},
	{"Status", func(c model.Campaign) string { return Humanize(c.Status) }},
}

var CampaignFilters = []FilterField{
	{Key: "status", Label: "Status", Options: options(model.CampaignStatuses...)},
}

var UserColumns = []Column[model.UserSummary]{
	{"Name", func(u model.UserSummary) string { return u.FullName() }},
	{"Email", func(u model.UserSummary) string { return u.Email }},
	{"Role", func(u model.UserSummary) string { return Humanize(u.Role) }},
	{"Department", func(u model.UserSummary) string { return orDash(u.Department) }},
	{"Active", func(u model.UserSummary) string { return yesNo(u.IsActive) }},
}

var UserFilters = []FilterField{
	{Key: "role", Label: "Role", Options: options(model.RoleAdmin, model.RoleTeamMember, model.RoleModerator, model.RoleStudent)},
}

var ProjectColumns = []Column[model.Project]{
	{"Title", func(p model.Project) string { return p.Title }},
	{"Category", func(p model.Project) string { return orDash(p.Category) }},
	{"Members", func(p model.Project) string { return strconv.Itoa(len(p.TeamMembers)) }},
	{"Status", func(p model.Project) string { return Humanize(p.Status) }},
}

var MediaColumns = []Column[model.MediaItem]{
	{"Title", func(m model.MediaItem) string { return m.Title }},
	{"Type", func(m model.MediaItem) string { return Humanize(m.Type) }},
	{"Project", func(m model.MediaItem) string { return orDash(m.ProjectID) }},
	{"Uploaded", func(m model.MediaItem) string { return Date(m.CreatedAt) }},
}
