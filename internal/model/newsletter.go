package model

import "time"

const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignCancelled = "cancelled"
)

var CampaignStatuses = []string{CampaignDraft, CampaignScheduled, CampaignSending, CampaignSent, CampaignCancelled}

var campaignTransitions = map[string][]string{
	CampaignDraft:     {CampaignScheduled, CampaignSending},
	CampaignScheduled: {CampaignSending, CampaignCancelled, CampaignDraft},
	CampaignSending:   {CampaignSent},
}

type NewsletterSubscription struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	IsActive       bool       `json:"isActive"`
	Source         string     `json:"source,omitempty"`
	Preferences    []string   `json:"preferences,omitempty"`
	SubscribedAt   *time.Time `json:"subscribedAt,omitempty"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}

type SendStats struct {
	TotalRecipients int `json:"totalRecipients"`
	Sent            int `json:"sent"`
	Delivered       int `json:"delivered"`
	Opened          int `json:"opened"`
	Clicked         int `json:"clicked"`
	Bounced         int `json:"bounced"`
	Failed          int `json:"failed"`
}

type Campaign struct {
	ID          string     `json:"id"`
	Subject     string     `json:"subject"`
	Content     string     `json:"content"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	SendStats   SendStats  `json:"sendStats"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// CanTransition reports whether a campaign may move from its current status
// to the given one.
func (c Campaign) CanTransition(to string) bool {
	for _, next := range campaignTransitions[c.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from the current one.
func (c Campaign) NextStatuses() []string {
	return append([]string(nil), campaignTransitions[c.Status]...)
}

func (c Campaign) Editable() bool {
	return c.Status == CampaignDraft || c.Status == CampaignScheduled
}
