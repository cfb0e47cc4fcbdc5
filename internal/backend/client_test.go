package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tags []struct {
		ID string `json:"id"`
	} `json:"tags"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second, nil)
}

func TestListNormalizesIDsAndPagination(t *testing.T) {
	var gotAuth, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"success":true,"data":{"equipment":[{"_id":"a1","name":"Servo","tags":[{"_id":7}]}],"pagination":{"total":9,"limit":1,"skip":0,"hasMore":true}}}`))
	})

	query := url.Values{}
	query.Set("status", "low_stock")
	page, err := List[widget](context.Background(), c, "tok", "/api/inventory/equipment", "equipment", query)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotQuery != "status=low_stock" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "a1" {
		t.Fatalf("expected normalised id, got %+v", page.Items)
	}
	if page.Items[0].Tags[0].ID != "7" {
		t.Fatalf("expected nested numeric id stringified, got %q", page.Items[0].Tags[0].ID)
	}
	if page.Pagination.Total != 9 || !page.Pagination.HasMore {
		t.Fatalf("unexpected pagination %+v", page.Pagination)
	}
}

func TestListAcceptsItemsAndBareArrays(t *testing.T) {
	bodies := []string{
		`{"data":{"items":[{"id":"x","name":"A"}]}}`,
		`{"data":[{"_id":"x","name":"A"}]}`,
	}
	for _, body := range bodies {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		page, err := List[widget](context.Background(), c, "tok", "/api/things", "things", nil)
		if err != nil {
			t.Fatalf("list %s: %v", body, err)
		}
		if len(page.Items) != 1 || page.Items[0].ID != "x" {
			t.Fatalf("body %s: unexpected items %+v", body, page.Items)
		}
		if page.Pagination.Total != 1 {
			t.Fatalf("expected synthesised total 1, got %d", page.Pagination.Total)
		}
	}
}

func TestListIgnoresUnnamedArrays(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"unmatched key", `{"data":{"featured":[{"_id":"a"}],"recent":[{"_id":"b"},{"_id":"c"}]}}`, 0},
		{"matched key", `{"data":{"featured":[{"_id":"a"}],"things":[{"_id":"b"},{"_id":"c"}]}}`, 2},
		{"results fallback", `{"data":{"featured":[{"_id":"a"}],"results":[{"_id":"b"}]}}`, 1},
		{"key not an array", `{"data":{"things":{"_id":"a"}}}`, 0},
	}
	for _, tc := range cases {
		body := tc.body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		// repeated so map ordering cannot decide the result
		for i := 0; i < 20; i++ {
			page, err := List[widget](context.Background(), c, "tok", "/api/things", "things", nil)
			if err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
			if len(page.Items) != tc.want {
				t.Fatalf("%s: expected %d items, got %+v", tc.name, tc.want, page.Items)
			}
		}
	}
}

func TestGetAndCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data":{"item":{"_id":"g1","name":"Got"}}}`))
		case http.MethodPost:
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusUnsupportedMediaType)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"widget":{"_id":"c1","name":"` + in["name"] + `"}}}`))
		}
	})

	got, err := Get[widget](context.Background(), c, "tok", "/api/widgets/g1", "widget")
	if err != nil || got.ID != "g1" {
		t.Fatalf("get: %+v %v", got, err)
	}
	created, err := Create[widget](context.Background(), c, "tok", "/api/widgets", "widget", map[string]string{"name": "New"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "c1" || created.Name != "New" {
		t.Fatalf("unexpected created %+v", created)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   string
		unauth bool
	}{
		{http.StatusNotFound, `{"message":"Equipment not found"}`, "Equipment not found", false},
		{http.StatusBadRequest, `{"error":{"message":"Name is required"}}`, "Name is required", false},
		{http.StatusInternalServerError, `oops`, "", false},
		{http.StatusUnauthorized, `{"message":"Token expired"}`, "Token expired", true},
	}
	for _, tc := range cases {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		})
		_, err := Get[widget](context.Background(), c, "tok", "/api/widgets/1", "widget")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected APIError, got %v", tc.status, err)
		}
		if apiErr.Status != tc.status || apiErr.Message != tc.want {
			t.Fatalf("status %d: unexpected error %+v", tc.status, apiErr)
		}
		if errors.Is(err, ErrUnauthorized) != tc.unauth {
			t.Fatalf("status %d: ErrUnauthorized match mismatch", tc.status)
		}
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, time.Second, nil)
	err := c.Delete(context.Background(), "tok", "/api/widgets/1")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if msg := Message("deleting widget", err); msg != "Network error while deleting widget" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := List[widget](ctx, c, "tok", "/api/widgets", "widgets", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMessage(t *testing.T) {
	msg := Message("saving equipment", &APIError{Status: 422, Message: "Invalid quantity"})
	if !strings.Contains(msg, "422") || !strings.Contains(msg, "Invalid quantity") {
		t.Fatalf("expected status and server message, got %q", msg)
	}
	msg = Message("saving equipment", &APIError{Status: 500})
	if msg != "Failed saving equipment (HTTP 500)" {
		t.Fatalf("unexpected fallback %q", msg)
	}
}

func TestLoginAndLeaderStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_, _ = w.Write([]byte(`{"data":{"accessToken":"a","refreshToken":"r","user":{"_id":"u1","email":"x@y.z","role":"admin"}}}`))
		case "/api/projects/leader-status":
			if r.URL.Query().Get("userId") != "u1" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"data":{"isProjectLeader":true}}`))
		}
	})

	res, err := c.Login(context.Background(), "x@y.z", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken != "a" || res.User.ID != "u1" || res.User.Role != "admin" {
		t.Fatalf("unexpected login result %+v", res)
	}
	leader, err := c.IsProjectLeader(context.Background(), "a", "u1")
	if err != nil || !leader {
		t.Fatalf("expected leader, got %v %v", leader, err)
	}
}
