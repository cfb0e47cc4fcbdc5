package session

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/auth"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
)

const LoginPath = "/"

// Guard gates protected pages. It runs before any handler so no backend call
// is ever attempted without a token.
type Guard struct {
	Store     Store
	JWTSecret string
	JWTIssuer string
	Logger    *zap.Logger
	Now       func() time.Time
}

func (g Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := g.Store.Get(r)
		if err != nil || !sess.Valid() {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		if !model.PanelRole(sess.Role()) {
			g.reject(w, r, "invalid_role", sess)
			return
		}
		if !g.tokenUsable(sess.AccessToken) {
			g.reject(w, r, "token_rejected", sess)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func (g Guard) reject(w http.ResponseWriter, r *http.Request, reason string, sess Session) {
	if g.Logger != nil {
		g.Logger.Info("session rejected", zap.String("reason", reason), zap.String("role", sess.Role()))
	}
	if err := g.Store.Clear(w, r); err != nil && g.Logger != nil {
		g.Logger.Warn("session clear failed", zap.Error(err))
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// tokenUsable rejects tokens that fail verification (when a secret is set)
// or carry an expiry in the past. Opaque tokens pass when no secret is set.
func (g Guard) tokenUsable(token string) bool {
	claims, err := auth.ParseClaims(token, g.JWTSecret, g.JWTIssuer)
	if err != nil {
		return g.JWTSecret == ""
	}
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}
	return !claims.Expired(now)
}
