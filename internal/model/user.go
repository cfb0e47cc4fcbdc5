package model

import (
	"strings"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleTeamMember = "team_member"
	RoleModerator  = "moderator"
	RoleStudent    = "student"
)

// UserSummary is the user record the backend returns on login and in user
// listings. Role is the only field the panel authorises on.
type UserSummary struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Role          string     `json:"role"`
	Department    string     `json:"department,omitempty"`
	Permissions   []string   `json:"permissions"`
	IsActive      bool       `json:"isActive"`
	EmailVerified bool       `json:"emailVerified"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	StudentID     string     `json:"studentId,omitempty"`
	YearOfStudy   int        `json:"yearOfStudy,omitempty"`
	Phone         string     `json:"phone,omitempty"`
}

func (u UserSummary) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PanelRole reports whether the role may enter the admin panel at all.
func PanelRole(role string) bool {
	return role == RoleAdmin || role == RoleTeamMember
}

type Settings struct {
	SiteName           string            `json:"siteName"`
	ContactEmail       string            `json:"contactEmail"`
	RegistrationOpen   bool              `json:"registrationOpen"`
	MaintenanceMode    bool              `json:"maintenanceMode"`
	MaxCheckoutDays    int               `json:"maxCheckoutDays"`
	SocialLinks        map[string]string `json:"socialLinks,omitempty"`
	UpdatedAt          *time.Time        `json:"updatedAt,omitempty"`
	AnnouncementBanner string            `json:"announcementBanner,omitempty"`
}
