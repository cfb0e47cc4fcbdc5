package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/access"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/forms"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/session"
)

type LoginView struct {
	Email string
}

func landing(role string) string {
	if role == model.RoleAdmin {
		return "/dashboard"
	}
	return "/projects"
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r)
	if err == nil && sess.Valid() && model.PanelRole(sess.Role()) {
		http.Redirect(w, r, landing(sess.Role()), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", "Sign in", LoginView{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := forms.ParseLoginForm(r.PostForm)
	view := LoginView{Email: form.Email}
	if err := form.Validate(); err != nil {
		var verr *forms.ValidationError
		message := err.Error()
		if errors.As(err, &verr) {
			message = verr.Message
		}
		s.render(w, r, http.StatusUnprocessableEntity, "login", "Sign in", view, inlineError(message))
		return
	}

	result, err := s.backend.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		message := backend.Message("signing in", err)
		if errors.Is(err, backend.ErrUnauthorized) {
			message = "Invalid email or password"
		}
		s.logger.Info("login failed", zap.String("email", form.Email), zap.Error(err))
		s.render(w, r, http.StatusUnauthorized, "login", "Sign in", view, inlineError(message))
		return
	}
	if result.User == nil || !model.PanelRole(result.User.Role) {
		s.logger.Info("login rejected: role", zap.String("email", form.Email))
		s.render(w, r, http.StatusForbidden, "login", "Sign in", view,
			inlineError("Access denied. The admin panel is for admins and team members."))
		return
	}

	sess := session.Session{AccessToken: result.AccessToken, RefreshToken: result.RefreshToken, User: result.User}
	if err := s.sessions.Save(w, r, sess); err != nil {
		s.logger.Error("session save failed", zap.Error(err))
		s.render(w, r, http.StatusInternalServerError, "login", "Sign in", view, inlineError("Could not start a session"))
		return
	}
	r = r.WithContext(session.WithSession(r.Context(), sess))
	s.record(r, audit.ActionLogin, "session", result.User.ID)
	if err := s.stager.Stage(r.Context(), result.User.ID+":welcome", result.User.FirstName); err != nil {
		s.logger.Warn("stage welcome failed", zap.Error(err))
	}
	http.Redirect(w, r, landing(result.User.Role), http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r)
	if err == nil && sess.AccessToken != "" {
		if err := s.backend.Logout(r.Context(), sess.AccessToken, sess.RefreshToken); err != nil {
			s.logger.Debug("backend logout failed", zap.Error(err))
		}
		r = r.WithContext(session.WithSession(r.Context(), sess))
		s.record(r, audit.ActionLogout, "session", userID(sess))
	}
	if err := s.sessions.Clear(w, r); err != nil {
		s.logger.Warn("session clear failed", zap.Error(err))
	}
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
}

// JSON API

func writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": code})
}

// apiGuard is the JSON flavour of the session guard: it answers 401 rather
// than redirecting.
func (s *Server) apiGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(r)
		if err != nil || !sess.Valid() {
			writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !model.PanelRole(sess.Role()) {
			writeError(w, r, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

func (s *Server) requireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentSession(r).Role() != model.RoleAdmin {
			writeError(w, r, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type accessResponse struct {
	Role            string `json:"role"`
	IsProjectLeader bool   `json:"isProjectLeader"`
	access.Decision
}

// handleAPIAccess resolves the decision for ?path=, defaulting to the
// dashboard.
func (s *Server) handleAPIAccess(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/dashboard"
	}
	decision := s.decide(r.Context(), sess, path)
	leader := sess.Role() == model.RoleTeamMember && decision.EnabledRoutes["/media"]
	render.JSON(w, r, accessResponse{Role: sess.Role(), IsProjectLeader: leader, Decision: decision})
}

func (s *Server) handleAPIAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditLog == nil {
		render.JSON(w, r, map[string]interface{}{"entries": []audit.Entry{}})
		return
	}
	entries, err := s.auditLog.Recent(r.Context(), 50)
	if err != nil {
		s.logger.Error("audit list failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "audit_unavailable")
		return
	}
	render.JSON(w, r, map[string]interface{}{"entries": entries})
}
