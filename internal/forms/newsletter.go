package forms

import (
	"net/url"
	"strings"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

type CampaignForm struct {
	Subject     string `form:"subject" validate:"required,min=3,max=200"`
	Content     string `form:"content" validate:"required,min=10"`
	ScheduledAt string `form:"scheduledAt"`

	// Status is the campaign's current status when editing.
	Status string
}

var campaignMessages = map[string]string{
	"Subject.required": "Subject is required",
	"Subject.min":      "Subject must be at least 3 characters",
	"Subject.max":      "Subject must be at most 200 characters",
	"Content.required": "Content is required",
	"Content.min":      "Content must be at least 10 characters",
}

func NewCampaignForm() CampaignForm {
	return CampaignForm{Status: model.CampaignDraft}
}

func CampaignFormFrom(c model.Campaign) CampaignForm {
	return CampaignForm{
		Subject:     c.Subject,
		Content:     c.Content,
		ScheduledAt: formatDateTime(c.ScheduledAt),
		Status:      c.Status,
	}
}

func ParseCampaignForm(values url.Values, status string) CampaignForm {
	d := newDecoder(values)
	if status == "" {
		status = model.CampaignDraft
	}
	return CampaignForm{
		Subject:     d.str("subject"),
		Content:     d.str("content"),
		ScheduledAt: d.str("scheduledAt"),
		Status:      status,
	}
}

func (f CampaignForm) Validate() error {
	if f.Status != model.CampaignDraft && f.Status != model.CampaignScheduled {
		return invalid("status", "Only draft or scheduled campaigns can be edited")
	}
	if err := check(f, campaignMessages); err != nil {
		return err
	}
	if f.ScheduledAt != "" {
		at, ok := parseTime(f.ScheduledAt)
		if !ok {
			return invalid("scheduledAt", "Schedule time is not a valid date")
		}
		if !at.After(now()) {
			return invalid("scheduledAt", "Schedule time must be in the future")
		}
	}
	return nil
}

// Payload sets the status from the schedule: a scheduled time makes the
// campaign scheduled, clearing it returns it to draft.
func (f CampaignForm) Payload() map[string]interface{} {
	p := payload{
		"subject": strings.TrimSpace(f.Subject),
		"content": strings.TrimSpace(f.Content),
		"status":  model.CampaignDraft,
	}
	if _, ok := parseTime(f.ScheduledAt); ok {
		p.date("scheduledAt", f.ScheduledAt)
		p["status"] = model.CampaignScheduled
	}
	return p
}

type SettingsForm struct {
	SiteName           string `form:"siteName" validate:"required,max=100"`
	ContactEmail       string `form:"contactEmail" validate:"required,email"`
	RegistrationOpen   bool   `form:"registrationOpen"`
	MaintenanceMode    bool   `form:"maintenanceMode"`
	MaxCheckoutDays    int    `form:"maxCheckoutDays" validate:"gte=1,lte=365"`
	AnnouncementBanner string `form:"announcementBanner" validate:"max=300"`

	parse error
}

var settingsMessages = map[string]string{
	"SiteName.required":      "Site name is required",
	"SiteName.max":           "Site name must be at most 100 characters",
	"ContactEmail.required":  "Contact email is required",
	"ContactEmail.email":     "Contact email must be a valid email address",
	"MaxCheckoutDays.gte":    "Maximum checkout days must be at least 1",
	"MaxCheckoutDays.lte":    "Maximum checkout days must be at most 365",
	"AnnouncementBanner.max": "Announcement banner must be at most 300 characters",
}

func SettingsFormFrom(s model.Settings) SettingsForm {
	return SettingsForm{
		SiteName:           s.SiteName,
		ContactEmail:       s.ContactEmail,
		RegistrationOpen:   s.RegistrationOpen,
		MaintenanceMode:    s.MaintenanceMode,
		MaxCheckoutDays:    s.MaxCheckoutDays,
		AnnouncementBanner: s.AnnouncementBanner,
	}
}

func ParseSettingsForm(values url.Values) SettingsForm {
	d := newDecoder(values)
	f := SettingsForm{
		SiteName:           d.str("siteName"),
		ContactEmail:       d.str("contactEmail"),
		RegistrationOpen:   d.boolean("registrationOpen"),
		MaintenanceMode:    d.boolean("maintenanceMode"),
		MaxCheckoutDays:    d.integer("maxCheckoutDays", "Maximum checkout days"),
		AnnouncementBanner: d.str("announcementBanner"),
	}
	f.parse = d.parseErr()
	return f
}

func (f SettingsForm) Validate() error {
	if f.parse != nil {
		return f.parse
	}
	return check(f, settingsMessages)
}

func (f SettingsForm) Payload() map[string]interface{} {
	p := payload{
		"siteName":         strings.TrimSpace(f.SiteName),
		"contactEmail":     strings.TrimSpace(f.ContactEmail),
		"registrationOpen": f.RegistrationOpen,
		"maintenanceMode":  f.MaintenanceMode,
		"maxCheckoutDays":  f.MaxCheckoutDays,
		// An empty banner is sent so it can be cleared.
		"announcementBanner": strings.TrimSpace(f.AnnouncementBanner),
	}
	return p
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

var loginMessages = map[string]string{
	"Email.required":    "Email is required",
	"Email.email":       "Enter a valid email address",
	"Password.required": "Password is required",
}

func ParseLoginForm(values url.Values) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

func (f LoginForm) Validate() error {
	return check(f, loginMessages)
}
