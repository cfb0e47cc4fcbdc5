package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/forms"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
)

var newsletterLinks = []Link{
	{Label: "Subscribers", Href: "/newsletter"},
	{Label: "Campaigns", Href: "/newsletter/campaigns"},
}

var subscriptionList = listSpec[model.NewsletterSubscription]{
	Title:   "Newsletter",
	Noun:    "subscription",
	Base:    "/newsletter",
	Desc:    catalog.Subscriptions,
	Columns: catalog.SubscriptionColumns,
	Filters: catalog.SubscriptionFilters,
	Links:   newsletterLinks,
	View:    true,
	Delete:  true,
}

func (s *Server) handleSubscriptionDetail(w http.ResponseWriter, r *http.Request) {
	sub, ok := fetch(s, w, r, catalog.Subscriptions, "/newsletter")
	if !ok {
		return
	}
	status := "inactive"
	if sub.IsActive {
		status = "active"
	}
	s.render(w, r, http.StatusOK, "detail", sub.Email, DetailView{
		Heading: sub.Email,
		Badge:   status,
		Back:    Link{Label: "Back to subscribers", Href: "/newsletter"},
		Fields: []DetailField{
			{"Name", orDash(sub.Name)},
			{"Source", orDash(sub.Source)},
			{"Preferences", orDash(joinList(sub.Preferences))},
			{"Subscribed", catalog.DateTime(sub.SubscribedAt)},
			{"Unsubscribed", catalog.DateTime(sub.UnsubscribedAt)},
		},
		Actions: []Action{{Label: "Delete", Href: "/newsletter/delete/" + url.PathEscape(sub.ID), Danger: true}},
	})
}

// Campaigns

var campaignList = listSpec[model.Campaign]{
	Title:   "Campaigns",
	Noun:    "campaign",
	Base:    "/newsletter/campaigns",
	Desc:    catalog.Campaigns,
	Columns: catalog.CampaignColumns,
	Badge:   func(c model.Campaign) string { return c.Status },
	Filters: catalog.CampaignFilters,
	Links:   newsletterLinks,
	Create:  true,
	View:    true,
	Edit:    true,
	Delete:  true,
}

var campaignForm = formSpec[model.Campaign, struct{}, forms.CampaignForm]{
	Noun:  "campaign",
	Base:  "/newsletter/campaigns",
	Desc:  catalog.Campaigns,
	Blank: func(struct{}) forms.CampaignForm { return forms.NewCampaignForm() },
	Seed:  func(c model.Campaign, _ struct{}) forms.CampaignForm { return forms.CampaignFormFrom(c) },
	// Editability depends on the stored status, so edits re-read it.
	Parse: func(ctx context.Context, r *http.Request, src resource.Source[model.Campaign], id string, _ struct{}) (forms.CampaignForm, error) {
		status := ""
		if id != "" {
			current, err := src.Get(ctx, id)
			if err != nil {
				return forms.CampaignForm{}, err
			}
			status = current.Status
		}
		return forms.ParseCampaignForm(r.PostForm, status), nil
	},
	View: func(f forms.CampaignForm) FormView {
		v := FormView{Fields: []Field{
			text("subject", "Subject", f.Subject, true),
			{Name: "content", Label: "Content", Type: "textarea", Value: f.Content, Required: true, Help: "Markdown is supported"},
			{Name: "scheduledAt", Label: "Schedule for", Type: "datetime-local", Value: f.ScheduledAt, Help: "Leave empty to keep as draft"},
		}}
		if f.Status != "" && f.Status != model.CampaignDraft {
			v.Notice = "Current status: " + catalog.Humanize(f.Status)
		}
		return v
	},
}

var transitionLabels = map[string]string{
	model.CampaignDraft:     "Back to draft",
	model.CampaignScheduled: "Schedule",
	model.CampaignSending:   "Send now",
	model.CampaignSent:      "Mark as sent",
	model.CampaignCancelled: "Cancel campaign",
}

func (s *Server) handleCampaignDetail(w http.ResponseWriter, r *http.Request) {
	c, ok := fetch(s, w, r, catalog.Campaigns, "/newsletter/campaigns")
	if !ok {
		return
	}
	body, err := renderMarkdown([]byte(c.Content))
	if err != nil {
		body = ""
	}
	view := DetailView{
		Heading: c.Subject,
		Badge:   c.Status,
		Back:    Link{Label: "Back to campaigns", Href: "/newsletter/campaigns"},
		Fields: []DetailField{
			{"Scheduled", catalog.DateTime(c.ScheduledAt)},
			{"Sent", catalog.DateTime(c.SentAt)},
			{"Recipients", strconv.Itoa(c.SendStats.TotalRecipients)},
			{"Delivered", strconv.Itoa(c.SendStats.Delivered)},
			{"Opened", strconv.Itoa(c.SendStats.Opened)},
			{"Clicked", strconv.Itoa(c.SendStats.Clicked)},
		},
		Body: body,
	}
	if c.Editable() {
		view.Edit = "/newsletter/campaigns/edit/" + url.PathEscape(c.ID)
	}
	for _, next := range c.NextStatuses() {
		view.Actions = append(view.Actions, Action{
			Label:  transitionLabels[next],
			Href:   "/newsletter/campaigns/" + url.PathEscape(c.ID) + "/status",
			Name:   "status",
			Value:  next,
			Danger: next == model.CampaignCancelled,
		})
	}
	view.Actions = append(view.Actions, Action{Label: "Delete", Href: "/newsletter/campaigns/delete/" + url.PathEscape(c.ID), Danger: true})
	s.render(w, r, http.StatusOK, "detail", c.Subject, view)
}

// handleCampaignStatus moves a campaign along its lifecycle. Transitions
// not allowed from the stored status are rejected before any write.
func (s *Server) handleCampaignStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	c, ok := fetch(s, w, r, catalog.Campaigns, "/newsletter/campaigns")
	if !ok {
		return
	}
	back := "/newsletter/campaigns/" + url.PathEscape(c.ID)
	to := r.PostForm.Get("status")
	switch {
	case !c.CanTransition(to):
		s.toasts.Error(w, r, fmt.Sprintf("Cannot move a %s campaign to %s", catalog.Humanize(c.Status), catalog.Humanize(to)))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	case to == model.CampaignScheduled && c.ScheduledAt == nil:
		s.toasts.Error(w, r, "Set a schedule time before scheduling the campaign")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	sess := currentSession(r)
	src := resource.Remote[model.Campaign]{Desc: catalog.Campaigns, Client: s.backend, Token: sess.AccessToken}
	if _, err := src.Update(r.Context(), c.ID, map[string]interface{}{"status": to}); err != nil {
		if s.handleBackendError(w, r, err) {
			return
		}
		s.toasts.Error(w, r, backend.Message("updating the campaign", err))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	s.record(r, audit.ActionUpdate, catalog.Campaigns.Name, c.ID)
	s.toasts.Success(w, r, "Campaign is now "+catalog.Humanize(to))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) newsletterRoutes(r chi.Router) {
	r.Get("/newsletter", serveList(s, subscriptionList))
	r.Post("/newsletter/delete/{id}", serveDelete(s, subscriptionList))

	r.Get("/newsletter/campaigns", serveList(s, campaignList))
	r.Get("/newsletter/campaigns/create", serveNew(s, campaignForm))
	r.Post("/newsletter/campaigns/create", serveSubmit(s, campaignForm))
	r.Get("/newsletter/campaigns/edit/{id}", serveEdit(s, campaignForm))
	r.Post("/newsletter/campaigns/edit/{id}", serveSubmit(s, campaignForm))
	r.Post("/newsletter/campaigns/delete/{id}", serveDelete(s, campaignList))
	r.Get("/newsletter/campaigns/{id}", s.handleCampaignDetail)
	r.Post("/newsletter/campaigns/{id}/status", s.handleCampaignStatus)

	r.Get("/newsletter/{id}", s.handleSubscriptionDetail)
}
