package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/forms"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

const settingsEndpoint = "/api/settings"

func settingsFormView(f forms.SettingsForm) FormView {
	return FormView{
		Heading: "Settings",
		Action:  "/settings",
		Cancel:  "/dashboard",
		Submit:  "Save settings",
		Fields: []Field{
			text("siteName", "Site name", f.SiteName, true),
			{Name: "contactEmail", Label: "Contact email", Type: "email", Value: f.ContactEmail, Required: true},
			checkbox("registrationOpen", "Registration open", f.RegistrationOpen),
			checkbox("maintenanceMode", "Maintenance mode", f.MaintenanceMode),
			number("maxCheckoutDays", "Maximum checkout days", f.MaxCheckoutDays),
			textarea("announcementBanner", "Announcement banner", f.AnnouncementBanner, false),
		},
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	current, err := backend.Get[model.Settings](r.Context(), s.backend, sess.AccessToken, settingsEndpoint, "settings")
	if s.handleBackendError(w, r, err) {
		return
	}
	v := settingsFormView(forms.SettingsFormFrom(current))
	if err != nil {
		s.render(w, r, http.StatusOK, "form", "Settings", v, inlineError(backend.Message("loading settings", err)))
		return
	}
	s.render(w, r, http.StatusOK, "form", "Settings", v)
}

func (s *Server) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := forms.ParseSettingsForm(r.PostForm)
	if err := form.Validate(); err != nil {
		message := err.Error()
		var verr *forms.ValidationError
		if errors.As(err, &verr) {
			message = verr.Message
		}
		s.render(w, r, http.StatusUnprocessableEntity, "form", "Settings", settingsFormView(form), inlineError(message))
		return
	}
	sess := currentSession(r)
	_, err := backend.Update[model.Settings](r.Context(), s.backend, sess.AccessToken, settingsEndpoint, "settings", form.Payload())
	if err != nil {
		if s.handleBackendError(w, r, err) {
			return
		}
		s.render(w, r, http.StatusBadGateway, "form", "Settings", settingsFormView(form), inlineError(backend.Message("saving settings", err)))
		return
	}
	s.record(r, audit.ActionUpdate, "settings", "site")
	s.toasts.Success(w, r, "Settings saved successfully")
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// Docs

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdown converts src to HTML. Raw HTML in src is dropped by the
// renderer.
func renderMarkdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

type DocsView struct {
	Body template.HTML
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	body, err := renderMarkdown(s.docs)
	if err != nil {
		s.render(w, r, http.StatusInternalServerError, "message", "Documentation", MessageView{
			Heading: "Documentation unavailable",
			Body:    "The documentation could not be rendered.",
		})
		return
	}
	s.render(w, r, http.StatusOK, "docs", "Documentation", DocsView{Body: body})
}
