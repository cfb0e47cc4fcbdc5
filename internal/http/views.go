package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/access"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/session"
)

//go:embed templates
var templateFS embed.FS

var pageNames = []string{"login", "dashboard", "list", "detail", "form", "message", "docs"}

type views struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"humanize": catalog.Humanize,
	"badge":    badgeClass,
	"last":     func(i, n int) bool { return i == n-1 },
	"formctx": func(form interface{}, csrf template.HTML) map[string]interface{} {
		return map[string]interface{}{"Form": form, "CSRF": csrf}
	},
}

func loadViews() (*views, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	v := &views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		v.pages[name] = page
	}
	return v, nil
}

// Page is what the layout renders around every view.
type Page struct {
	Title     string
	User      *model.UserSummary
	Nav       []access.NavEntry
	Toasts    []session.Toast
	CSRFField template.HTML
	Data      interface{}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data interface{}, inline ...session.Toast) {
	tmpl, ok := s.views.pages[name]
	if !ok {
		http.Error(w, "unknown view", http.StatusInternalServerError)
		return
	}
	sess := currentSession(r)
	page := Page{
		Title:     title,
		User:      sess.User,
		Nav:       decisionFromContext(r.Context()).Navigation,
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}
	if sess.Valid() {
		page.Toasts = append(page.Toasts, s.welcomeToast(r, sess)...)
	}
	page.Toasts = append(page.Toasts, s.toasts.Drain(w, r)...)
	page.Toasts = append(page.Toasts, inline...)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		s.logger.Error("render failed", zap.String("view", name), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func inlineError(message string) session.Toast {
	return session.Toast{Kind: session.ToastError, Message: message}
}

// Message pages: restricted placeholder and not found.

type MessageView struct {
	Heading string
	Body    string
	Link    Link
}

func (s *Server) renderRestricted(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusForbidden, "message", "Access Restricted", MessageView{
		Heading: "Access Restricted",
		Body:    "You do not have permission to view this page. Contact an administrator if you need access.",
		Link:    Link{Label: "Back to projects", Href: "/projects"},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "message", "Not Found", MessageView{
		Heading: "Page not found",
		Body:    "The page you were looking for does not exist.",
		Link:    Link{Label: "Go to dashboard", Href: "/dashboard"},
	})
}

type Link struct {
	Label string
	Href  string
}

// Lists

type FilterView struct {
	Key      string
	Label    string
	Options  []catalog.Option
	Selected string
}

type Pager struct {
	Page    int
	From    int
	To      int
	Total   int
	PrevURL string
	NextURL string
}

type ListView struct {
	Heading   string
	Noun      string
	Base      string
	Create    string
	Table     catalog.Table
	Filters   []FilterView
	Search    string
	Pager     Pager
	Empty     bool
	Failed    bool
	Highlight string
	View      bool
	Edit      bool
	Delete    bool
	Links     []Link
	// Return is the current query, posted back by delete forms.
	Return string
}

func filterViews(fields []catalog.FilterField, f resource.Filter) []FilterView {
	out := make([]FilterView, 0, len(fields))
	for _, field := range fields {
		out = append(out, FilterView{Key: field.Key, Label: field.Label, Options: field.Options, Selected: f.Params[field.Key]})
	}
	return out
}

func pager(base string, query url.Values, f resource.Filter, p backend.Pagination, shown int) Pager {
	pg := Pager{Page: f.Page(), Total: p.Total}
	if shown > 0 {
		pg.From = f.Skip + 1
		pg.To = f.Skip + shown
	}
	link := func(page int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return base + "?" + q.Encode()
	}
	if pg.Page > 1 {
		pg.PrevURL = link(pg.Page - 1)
	}
	if p.HasMore {
		pg.NextURL = link(pg.Page + 1)
	}
	return pg
}

// Details

type DetailField struct {
	Label string
	Value string
}

type TableSection struct {
	Title string
	Table catalog.Table
}

// Action is a one-button POST form, such as a campaign status change.
type Action struct {
	Label  string
	Href   string
	Name   string
	Value  string
	Danger bool
}

type DetailView struct {
	Heading string
	Badge   string
	Back    Link
	Edit    string
	Fields  []DetailField
	Body    template.HTML
	Tables  []TableSection
	Actions []Action
	Form    *FormView
}

// Forms

type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Options  []catalog.Option
	Required bool
	Checked  bool
	Help     string
}

type GroupColumn struct {
	Name  string
	Label string
	Type  string
}

// RowGroup is a repeatable set of inputs posted as parallel lists.
type RowGroup struct {
	Label   string
	Columns []GroupColumn
	Rows    [][]string
}

type FormView struct {
	Heading string
	Action  string
	Cancel  string
	Submit  string
	Notice  string
	Fields  []Field
	Groups  []RowGroup
}

func text(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: "text", Value: value, Required: required}
}

func textarea(name, label, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: "textarea", Value: value, Required: required}
}

func number(name, label string, value int) Field {
	return Field{Name: name, Label: label, Type: "number", Value: strconv.Itoa(value)}
}

func checkbox(name, label string, checked bool) Field {
	return Field{Name: name, Label: label, Type: "checkbox", Checked: checked}
}

func date(name, label, value string) Field {
	return Field{Name: name, Label: label, Type: "date", Value: value}
}

func datetime(name, label, value string) Field {
	return Field{Name: name, Label: label, Type: "datetime-local", Value: value}
}

func selectField(name, label, value string, required bool, opts []catalog.Option) Field {
	return Field{Name: name, Label: label, Type: "select", Value: value, Required: required, Options: opts}
}

func statusOptions(values []string) []catalog.Option {
	out := make([]catalog.Option, 0, len(values))
	for _, v := range values {
		out = append(out, catalog.Option{Value: v, Label: catalog.Humanize(v)})
	}
	return out
}

func badgeClass(status string) string {
	switch status {
	case model.StatusAvailable, model.CheckoutReturned, model.EventCompleted, model.CampaignSent, "active", "yes":
		return "badge-green"
	case model.StatusLowStock, model.CheckoutOverdue, model.CampaignScheduled, model.EventOngoing:
		return "badge-amber"
	case model.StatusOutOfStock, model.CheckoutLost, model.CampaignCancelled:
		return "badge-red"
	default:
		return "badge-grey"
	}
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

// loadDocs reads the markdown shown on /docs. An empty path serves the
// embedded guide.
func loadDocs(path string) ([]byte, error) {
	if path == "" {
		return fs.ReadFile(templateFS, "templates/guide.md")
	}
	return os.ReadFile(path)
}
