package model

import "time"

const (
	EventUpcoming  = "upcoming"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

var EventStatuses = []string{EventUpcoming, EventOngoing, EventCompleted, EventCancelled}

type Registration struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Status       string     `json:"status"`
	RegisteredAt *time.Time `json:"registeredAt,omitempty"`
}

type Event struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	Type                 string         `json:"type,omitempty"`
	StartDate            *time.Time     `json:"startDate,omitempty"`
	EndDate              *time.Time     `json:"endDate,omitempty"`
	Location             string         `json:"location,omitempty"`
	Capacity             int            `json:"capacity"`
	CurrentRegistrations int            `json:"currentRegistrations"`
	RegistrationRequired bool           `json:"registrationRequired"`
	RegistrationDeadline *time.Time     `json:"registrationDeadline,omitempty"`
	Status               string         `json:"status"`
	IsFeatured           bool           `json:"isFeatured"`
	ShowInNav            bool           `json:"showInNav"`
	NavLabel             string         `json:"navLabel,omitempty"`
	ImageURL             string         `json:"imageUrl,omitempty"`
	Registrations        []Registration `json:"registrations,omitempty"`
}

// SpotsLeft is never negative; a capacity of zero means unlimited.
func (e Event) SpotsLeft() int {
	if e.Capacity <= 0 {
		return -1
	}
	left := e.Capacity - e.CurrentRegistrations
	if left < 0 {
		return 0
	}
	return left
}

func (e Event) IsFull() bool {
	return e.Capacity > 0 && e.CurrentRegistrations >= e.Capacity
}

type NewsCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// Application describes an application form attached to a news article.
type Application struct {
	Type               string     `json:"applicationType,omitempty"`
	IsEnabled          bool       `json:"isApplicationEnabled"`
	FormApplyStartDate *time.Time `json:"formApplyStartDate,omitempty"`
	FormApplyLastDate  *time.Time `json:"formApplyLastDate,omitempty"`
	MaxApplicants      int        `json:"maxApplicants,omitempty"`
	TargetID           string     `json:"targetId,omitempty"`
	ExternalLink       string     `json:"externalLink,omitempty"`
}

type NewsArticle struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Summary       string       `json:"summary,omitempty"`
	CategoryID    string       `json:"categoryId,omitempty"`
	CategoryName  string       `json:"categoryName,omitempty"`
	AuthorID      string       `json:"authorId,omitempty"`
	AuthorName    string       `json:"authorName,omitempty"`
	FeaturedImage string       `json:"featuredImageUrl,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	IsPublished   bool         `json:"isPublished"`
	IsFeatured    bool         `json:"isFeatured"`
	PublishedAt   *time.Time   `json:"publishedAt,omitempty"`
	ViewCount     int          `json:"viewCount"`
	Application   *Application `json:"application,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
}

type ExternalLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type ResearchArea struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	Category          string         `json:"category,omitempty"`
	Keywords          []string       `json:"keywords,omitempty"`
	FocusAreas        []string       `json:"focusAreas,omitempty"`
	RequiredEquipment []string       `json:"requiredEquipment,omitempty"`
	RequiredSkills    []string       `json:"requiredSkills,omitempty"`
	ExternalLinks     []ExternalLink `json:"externalLinks,omitempty"`
	StudentIDs        []string       `json:"studentIds,omitempty"`
	IsActive          bool           `json:"isActive"`
}

type Project struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Category     string     `json:"category,omitempty"`
	TeamLeaderID string     `json:"teamLeaderId"`
	TeamMembers  []Member   `json:"teamMembers,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type Member struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
}

type MediaItem struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	URL        string     `json:"url"`
	Type       string     `json:"type"`
	ProjectID  string     `json:"projectId,omitempty"`
	UploadedBy string     `json:"uploadedBy,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}
