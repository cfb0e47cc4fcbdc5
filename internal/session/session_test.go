package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/auth"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

func newTestStore() *CookieStore {
	return NewCookieStore(Options{Secret: "test-secret-test-secret", MaxAge: time.Hour})
}

// carry copies Set-Cookie values from a recorded response onto a new request.
func carry(rec *httptest.ResponseRecorder, req *http.Request) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCookieStoreRoundTrip(t *testing.T) {
	store := newTestStore()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	sess := Session{AccessToken: "tok", RefreshToken: "ref", User: &model.UserSummary{ID: "u1", Role: model.RoleAdmin}}
	if err := store.Save(rec, req, sess); err != nil {
		t.Fatalf("save error: %v", err)
	}

	got, err := store.Get(carry(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !got.Valid() || got.AccessToken != "tok" || got.RefreshToken != "ref" || got.User.ID != "u1" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSaveRejectsIncompleteSession(t *testing.T) {
	store := newTestStore()
	err := store.Save(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), Session{AccessToken: "tok"})
	if err == nil {
		t.Fatalf("expected error for session without user")
	}
}

func guardedRequest(t *testing.T, guard Guard, sess *Session) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	if sess != nil {
		rec := httptest.NewRecorder()
		if err := guard.Store.Save(rec, req, *sess); err != nil {
			t.Fatalf("save error: %v", err)
		}
		req = carry(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	}
	rec := httptest.NewRecorder()
	guard.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			t.Fatalf("session missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec
}

func TestGuardRedirectsWithoutSession(t *testing.T) {
	guard := Guard{Store: newTestStore(), Logger: zap.NewNop()}
	rec := guardedRequest(t, guard, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("expected redirect to %s, got %d %s", LoginPath, rec.Code, rec.Header().Get("Location"))
	}
}

func TestGuardClearsInvalidRole(t *testing.T) {
	guard := Guard{Store: newTestStore(), Logger: zap.NewNop()}
	rec := guardedRequest(t, guard, &Session{AccessToken: "tok", User: &model.UserSummary{ID: "s", Role: model.RoleStudent}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected session cookie to be cleared")
	}
}

func TestGuardRejectsExpiredToken(t *testing.T) {
	token, err := auth.Sign("s", time.Minute, auth.Claims{UserID: "u", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	guard := Guard{
		Store:  newTestStore(),
		Logger: zap.NewNop(),
		Now:    func() time.Time { return time.Now().Add(time.Hour) },
	}
	rec := guardedRequest(t, guard, &Session{AccessToken: token, User: &model.UserSummary{ID: "u", Role: model.RoleAdmin}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected expired token to redirect, got %d", rec.Code)
	}

	guard.Now = nil
	rec = guardedRequest(t, guard, &Session{AccessToken: token, User: &model.UserSummary{ID: "u", Role: model.RoleAdmin}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected fresh token to pass, got %d", rec.Code)
	}
}

func TestNotifierDrain(t *testing.T) {
	store := newTestStore()
	n := NewNotifier(store.Raw(), zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/inventory", nil)
	n.Success(rec, req, "Equipment created")

	next := carry(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))
	toasts := n.Drain(httptest.NewRecorder(), next)
	if len(toasts) != 1 || toasts[0].Kind != ToastSuccess || toasts[0].Message != "Equipment created" || toasts[0].ID == "" {
		t.Fatalf("unexpected toasts: %+v", toasts)
	}
}
