package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

const (
	cookieName      = "nb_admin"
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// Session holds the credentials persisted for a signed-in user.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *model.UserSummary
}

// Valid reports whether both the token and the user are present, which is
// the precondition for rendering any protected page.
func (s Session) Valid() bool {
	return s.AccessToken != "" && s.User != nil
}

func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

type Store interface {
	Get(r *http.Request) (Session, error)
	Save(w http.ResponseWriter, r *http.Request, sess Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type Options struct {
	Secret string
	MaxAge time.Duration
	Secure bool
}

// CookieStore keeps the session in a signed cookie.
type CookieStore struct {
	store *sessions.CookieStore
}

func NewCookieStore(opts Options) *CookieStore {
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

// Raw exposes the underlying gorilla store for the flash notifier, which
// shares signing keys and cookie options.
func (c *CookieStore) Raw() sessions.Store {
	return c.store
}

func (c *CookieStore) Get(r *http.Request) (Session, error) {
	raw, err := c.store.Get(r, cookieName)
	if err != nil {
		// A cookie signed with an old key decodes as a fresh session.
		return Session{}, nil
	}
	sess := Session{
		AccessToken:  stringValue(raw.Values[keyAccessToken]),
		RefreshToken: stringValue(raw.Values[keyRefreshToken]),
	}
	if userJSON := stringValue(raw.Values[keyUser]); userJSON != "" {
		var user model.UserSummary
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			return Session{}, err
		}
		sess.User = &user
	}
	return sess, nil
}

func (c *CookieStore) Save(w http.ResponseWriter, r *http.Request, sess Session) error {
	if !sess.Valid() {
		return errors.New("session requires token and user")
	}
	raw, _ := c.store.Get(r, cookieName)
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	raw.Values[keyAccessToken] = sess.AccessToken
	raw.Values[keyRefreshToken] = sess.RefreshToken
	raw.Values[keyUser] = string(userJSON)
	raw.Options.MaxAge = c.store.Options.MaxAge
	return raw.Save(r, w)
}

func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	raw, _ := c.store.Get(r, cookieName)
	delete(raw.Values, keyAccessToken)
	delete(raw.Values, keyRefreshToken)
	delete(raw.Values, keyUser)
	raw.Options.MaxAge = -1
	return raw.Save(r, w)
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

type sessionKey struct{}

// WithSession stores the request's session in ctx. Only the guard calls it;
// handlers read it back with FromContext.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(Session)
	return sess, ok
}
