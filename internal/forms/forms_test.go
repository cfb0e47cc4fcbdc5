package forms

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

func validEquipment() EquipmentForm {
	return EquipmentForm{
		Name:            "Servo Motor",
		CategoryID:      "cat-1",
		Description:     "High torque metal gear servo",
		CurrentQuantity: 4,
		MinQuantity:     2,
		MaxQuantity:     10,
		PurchasePrice:   "12.50",
	}
}

func TestEquipmentValidationMessages(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*EquipmentForm)
		field  string
	}{
		{"short name", func(f *EquipmentForm) { f.Name = "ab" }, "name"},
		{"short description", func(f *EquipmentForm) { f.Description = "too short" }, "description"},
		{"max below current", func(f *EquipmentForm) { f.MaxQuantity = 3 }, "maxQuantity"},
		{"max below min", func(f *EquipmentForm) { f.CurrentQuantity = 0; f.MinQuantity = 6; f.MaxQuantity = 5 }, "maxQuantity"},
		{"negative price", func(f *EquipmentForm) { f.PurchasePrice = "-1" }, "purchasePrice"},
	}

	seen := map[string]string{}
	for _, tc := range cases {
		f := validEquipment()
		tc.mutate(&f)
		err := f.Validate()
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Message == "" {
			t.Fatalf("%s: empty message", tc.name)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, verr.Field)
		}
		if other, dup := seen[verr.Message]; dup {
			t.Fatalf("%s: message %q also used by %s", tc.name, verr.Message, other)
		}
		seen[verr.Message] = tc.name
	}

	if err := validEquipment().Validate(); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestParseEquipmentFormAndPayload(t *testing.T) {
	values := url.Values{}
	values.Set("name", "  Arduino Uno ")
	values.Set("categoryId", "cat-1")
	values.Set("description", "Microcontroller board for prototyping")
	values.Set("currentQuantity", "0")
	values.Set("minQuantity", "5")
	values.Set("maxQuantity", "20")
	values.Set("location", "")
	values.Set("purchaseDate", "2024-01-15")
	values["specKey"] = []string{"voltage", "", "pins"}
	values["specValue"] = []string{"5V", "ignored", "14"}

	cats := []model.EquipmentCategory{{ID: "cat-1", Name: "Boards"}}
	f := ParseEquipmentForm(values, cats)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p := f.Payload()
	if p["name"] != "Arduino Uno" {
		t.Fatalf("expected trimmed name, got %q", p["name"])
	}
	if p["status"] != model.StatusOutOfStock {
		t.Fatalf("expected out_of_stock, got %v", p["status"])
	}
	if _, ok := p["location"]; ok {
		t.Fatalf("empty optional field must be absent")
	}
	if _, ok := p["purchasePrice"]; ok {
		t.Fatalf("empty price must be absent")
	}
	specs, ok := p["specifications"].(map[string]string)
	if !ok || len(specs) != 2 || specs["voltage"] != "5V" || specs["pins"] != "14" {
		t.Fatalf("unexpected specifications %#v", p["specifications"])
	}
	date, _ := p["purchaseDate"].(string)
	if _, err := time.Parse(time.RFC3339, date); err != nil {
		t.Fatalf("expected RFC 3339 purchase date, got %q", date)
	}
}

func TestParseEquipmentNumberErrors(t *testing.T) {
	values := url.Values{}
	values.Set("name", "Arduino")
	values.Set("currentQuantity", "lots")
	f := ParseEquipmentForm(values, nil)
	err := f.Validate()
	if err == nil || err.Error() != "Current quantity must be a whole number" {
		t.Fatalf("expected number error first, got %v", err)
	}
}

func TestEquipmentFormFromKeepsKnownCategoryOnly(t *testing.T) {
	e := model.Equipment{Name: "Lidar", CategoryID: "cat-2", Specifications: map[string]any{"range": "12m"}}
	f := EquipmentFormFrom(e, []model.EquipmentCategory{{ID: "cat-1"}})
	if f.CategoryID != "" {
		t.Fatalf("unknown category should not be selected")
	}
	f = EquipmentFormFrom(e, []model.EquipmentCategory{{ID: "cat-2"}})
	if f.CategoryID != "cat-2" {
		t.Fatalf("expected cat-2 selected")
	}
	if len(f.Specifications) != 1 || f.Specifications[0].Value != "12m" {
		t.Fatalf("unexpected spec rows %+v", f.Specifications)
	}
}

func TestNewsApplicationWindow(t *testing.T) {
	base := NewsForm{
		Title:      "Recruitment drive",
		Content:    "We are recruiting new members for the season.",
		CategoryID: "c1",
		Application: ApplicationForm{
			Enabled:   true,
			StartDate: "2024-05-10T10:00",
			LastDate:  "2024-05-01T10:00",
		},
	}
	err := base.Validate()
	if err == nil || err.Error() != "Application start date must be before the last date" {
		t.Fatalf("expected ordering error, got %v", err)
	}

	base.Application.LastDate = base.Application.StartDate
	if base.Validate() == nil {
		t.Fatalf("equal dates must be rejected")
	}

	base.Application.LastDate = "2024-05-20T10:00"
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid window, got %v", err)
	}

	base.Application.LastDate = ""
	if err := base.Validate(); err != nil {
		t.Fatalf("single date must be accepted, got %v", err)
	}

	base.Application = ApplicationForm{Enabled: false, StartDate: "2024-05-10", LastDate: "2024-05-01"}
	if err := base.Validate(); err != nil {
		t.Fatalf("disabled application must not be checked, got %v", err)
	}
}

func TestNewsDisabledApplicationIgnoresLeftovers(t *testing.T) {
	cases := []struct {
		name    string
		enabled string
		want    string
	}{
		{"disabled", "", ""},
		{"enabled", "on", "Maximum applicants must be a whole number"},
	}
	for _, tc := range cases {
		values := url.Values{}
		values.Set("title", "Club newsletter")
		values.Set("content", "Highlights from this month in the lab.")
		values.Set("categoryId", "c1")
		values.Set("applicationEnabled", tc.enabled)
		values.Set("applicationType", "garbage")
		values.Set("externalLink", "not a url")
		values.Set("maxApplicants", "many")

		err := ParseNewsForm(values, nil).Validate()
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.want, err)
		}
	}

	f := NewsForm{
		Title:       "Club newsletter",
		Content:     "Highlights from this month in the lab.",
		CategoryID:  "c1",
		Application: ApplicationForm{Enabled: true, Type: "garbage"},
	}
	if err := f.Validate(); err == nil || err.Error() != "Unknown application type" {
		t.Fatalf("expected application type error, got %v", err)
	}
	f.Application = ApplicationForm{Enabled: true, Type: "workshop", ExternalLink: "not a url"}
	if err := f.Validate(); err == nil || err.Error() != "Application link must be a valid URL" {
		t.Fatalf("expected application link error, got %v", err)
	}
}

func TestNewsPayloadApplication(t *testing.T) {
	values := url.Values{}
	values.Set("title", "Workshop week")
	values.Set("content", "A week of hands-on robotics workshops.")
	values.Set("categoryId", "c1")
	values.Set("tags", "robotics, workshop,,")
	values.Set("applicationEnabled", "on")
	values.Set("applicationType", "workshop")
	values.Set("formApplyStartDate", "2024-06-01T09:00")
	values.Set("formApplyLastDate", "2024-06-05T18:00")

	f := ParseNewsForm(values, nil)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p := f.Payload()
	tags := p["tags"].([]string)
	if len(tags) != 2 || tags[1] != "workshop" {
		t.Fatalf("unexpected tags %v", tags)
	}
	app := p["application"].(map[string]interface{})
	if app["isApplicationEnabled"] != true || app["applicationType"] != "workshop" {
		t.Fatalf("unexpected application %v", app)
	}
	if _, ok := app["targetId"]; ok {
		t.Fatalf("empty target must be absent")
	}
}

func TestResearchAreaLinks(t *testing.T) {
	cases := []struct {
		name string
		link LinkRow
		want string
	}{
		{"empty title", LinkRow{URL: "https://example.org"}, "Link title is required"},
		{"empty url", LinkRow{Title: "Paper"}, "Link URL is required"},
		{"bad url", LinkRow{Title: "Paper", URL: "not a url"}, "Link URL must be a valid URL"},
		{"relative url", LinkRow{Title: "Paper", URL: "/papers/1"}, "Link URL must be a valid URL"},
		{"good url", LinkRow{Title: "Paper", URL: "https://arxiv.org/abs/1234.5678"}, ""},
	}
	for _, tc := range cases {
		f := ResearchAreaForm{
			Name:        "Swarm Robotics",
			Description: "Coordinated behaviour of many simple robots.",
			Links:       []LinkRow{tc.link},
		}
		err := f.Validate()
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestParseResearchAreaDropsBlankRows(t *testing.T) {
	values := url.Values{}
	values.Set("name", "Computer Vision")
	values.Set("description", "Perception for autonomous robots.")
	values.Set("keywords", "vision\nslam, detection")
	values["linkTitle"] = []string{"", "OpenCV"}
	values["linkUrl"] = []string{"", "https://opencv.org"}
	values["linkDescription"] = []string{"", ""}

	f := ParseResearchAreaForm(values, nil)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(f.Links) != 1 {
		t.Fatalf("expected blank row dropped, got %d rows", len(f.Links))
	}
	p := f.Payload()
	if kw := p["keywords"].([]string); len(kw) != 3 {
		t.Fatalf("unexpected keywords %v", kw)
	}
	links := p["externalLinks"].([]map[string]interface{})
	if _, ok := links[0]["description"]; ok {
		t.Fatalf("empty description must be absent")
	}
}

func TestParseResearchAreaKeepsDescriptionOnlyRow(t *testing.T) {
	cases := []struct {
		name   string
		titles []string
		urls   []string
		descs  []string
		rows   int
		want   string
	}{
		{"trailing description", []string{"OpenCV"}, []string{"https://opencv.org"}, []string{"", "orphan notes"}, 2, "Link title is required"},
		{"description only", nil, nil, []string{"orphan notes"}, 1, "Link title is required"},
		{"blank trailing", []string{"OpenCV"}, []string{"https://opencv.org"}, []string{"", ""}, 1, ""},
	}
	for _, tc := range cases {
		values := url.Values{}
		values.Set("name", "Computer Vision")
		values.Set("description", "Perception for autonomous robots.")
		values["linkTitle"] = tc.titles
		values["linkUrl"] = tc.urls
		values["linkDescription"] = tc.descs

		f := ParseResearchAreaForm(values, nil)
		if len(f.Links) != tc.rows {
			t.Fatalf("%s: expected %d rows, got %d", tc.name, tc.rows, len(f.Links))
		}
		err := f.Validate()
		if tc.want == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.want {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestEventValidation(t *testing.T) {
	f := EventForm{
		Title:       "Robo Wars",
		Description: "Annual robot combat competition.",
		StartDate:   "2024-09-01T10:00",
		EndDate:     "2024-09-01T09:00",
		Status:      model.EventUpcoming,
	}
	if err := f.Validate(); err == nil || err.Error() != "End date must be after the start date" {
		t.Fatalf("expected end date error, got %v", err)
	}
	f.EndDate = "2024-09-01T18:00"
	f.ShowInNav = true
	if err := f.Validate(); err == nil {
		t.Fatalf("expected nav label error")
	}
	f.NavLabel = "Robo Wars"
	f.Status = "postponed"
	if err := f.Validate(); err == nil {
		t.Fatalf("expected status error")
	}
	f.Status = model.EventOngoing
	if err := f.Validate(); err != nil {
		t.Fatalf("expected valid event, got %v", err)
	}
}

func TestReturnForm(t *testing.T) {
	c := model.Checkout{Quantity: 5, ReturnedQuantity: 3, Status: model.CheckoutCheckedOut}
	values := url.Values{}
	values.Set("returnQuantity", "3")
	if err := ParseReturnForm(c, values).Validate(); err == nil {
		t.Fatalf("expected over-return rejected")
	}
	values.Set("returnQuantity", "2")
	f := ParseReturnForm(c, values)
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	p := f.Payload()
	if p["returnedQuantity"] != 5 || p["status"] != model.CheckoutReturned {
		t.Fatalf("unexpected payload %v", p)
	}
	if _, ok := p["actualReturnDate"]; !ok {
		t.Fatalf("expected actual return date")
	}
}

func TestCheckoutAvailability(t *testing.T) {
	values := url.Values{}
	values.Set("equipmentId", "e1")
	values.Set("userId", "u1")
	values.Set("quantity", "4")
	values.Set("expectedReturnDate", "2024-10-01")
	f := ParseCheckoutForm(values, []model.Equipment{{ID: "e1", CurrentQuantity: 3}})
	if err := f.Validate(); err == nil || err.Error() != "Only 3 available" {
		t.Fatalf("expected availability error, got %v", err)
	}
}

func TestCampaignSchedule(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local) }
	defer func() { now = restore }()

	f := CampaignForm{Subject: "Monthly digest", Content: "Highlights from the lab.", Status: model.CampaignDraft, ScheduledAt: "2023-12-01T10:00"}
	if err := f.Validate(); err == nil {
		t.Fatalf("expected past schedule rejected")
	}
	f.ScheduledAt = "2024-02-01T10:00"
	if err := f.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if f.Payload()["status"] != model.CampaignScheduled {
		t.Fatalf("expected scheduled status")
	}
	f.Status = model.CampaignSent
	if err := f.Validate(); err == nil {
		t.Fatalf("sent campaigns must not be editable")
	}
}

func TestLoginForm(t *testing.T) {
	if err := (LoginForm{Email: "nope", Password: "x"}).Validate(); err == nil || err.Error() != "Enter a valid email address" {
		t.Fatalf("expected email error, got %v", err)
	}
	if err := (LoginForm{Email: "a@b.co", Password: "x"}).Validate(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
