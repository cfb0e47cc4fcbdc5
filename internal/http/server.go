package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/access"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/config"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/export"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/session"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/staging"
)

// AuditLog lists recent audit entries for the dashboard.
type AuditLog interface {
	Recent(ctx context.Context, limit int) ([]audit.Entry, error)
}

type Deps struct {
	Config   config.Config
	Logger   *zap.Logger
	Backend  *backend.Client
	Sessions *session.CookieStore
	Leaders  *access.LeaderResolver
	Stager   *staging.Stager
	Audit    *audit.Trail
	AuditLog AuditLog
	Archiver export.Archiver
	// BackendUp reports the last probe result for /health.
	BackendUp func() bool
}

type Server struct {
	cfg       config.Config
	logger    *zap.Logger
	backend   *backend.Client
	sessions  *session.CookieStore
	guard     session.Guard
	toasts    *session.Notifier
	leaders   *access.LeaderResolver
	stager    *staging.Stager
	audit     *audit.Trail
	auditLog  AuditLog
	archiver  export.Archiver
	backendUp func() bool
	views     *views
	docs      []byte
	now       func() time.Time
}

func NewServer(d Deps) (*Server, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	v, err := loadViews()
	if err != nil {
		return nil, err
	}
	docs, err := loadDocs(d.Config.DocsPath)
	if err != nil {
		return nil, err
	}
	archiver := d.Archiver
	if archiver == nil {
		archiver = export.Nop{}
	}
	stager := d.Stager
	if stager == nil {
		stager = staging.NewStager(staging.NewMemory(), d.Config.StagingTTL)
	}
	leaders := d.Leaders
	if leaders == nil {
		leaders = access.NewLeaderResolver(d.Backend, staging.NewMemory(), d.Config.LeaderCacheTTL, logger)
	}
	backendUp := d.BackendUp
	if backendUp == nil {
		backendUp = func() bool { return true }
	}
	return &Server{
		cfg:      d.Config,
		logger:   logger,
		backend:  d.Backend,
		sessions: d.Sessions,
		guard: session.Guard{
			Store:     d.Sessions,
			JWTSecret: d.Config.JWTSecret,
			JWTIssuer: d.Config.JWTIssuer,
			Logger:    logger,
		},
		toasts:    session.NewNotifier(d.Sessions.Raw(), logger),
		leaders:   leaders,
		stager:    stager,
		audit:     d.Audit,
		auditLog:  d.AuditLog,
		archiver:  archiver,
		backendUp: backendUp,
		views:     v,
		docs:      docs,
		now:       time.Now,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.CSRFKey != "" {
			r.Use(csrf.Protect([]byte(s.cfg.CSRFKey), csrf.Secure(s.cfg.CookieSecure), csrf.Path("/")))
		}

		r.Get("/", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.guard.Require)
			r.Use(s.accessMiddleware)

			r.Get("/dashboard", s.handleDashboard)
			s.inventoryRoutes(r)
			s.contentRoutes(r)
			s.newsletterRoutes(r)
			s.peopleRoutes(r)
			r.Get("/reports", s.handleReports)
			r.Get("/reports/export.csv", s.handleExportCSV)
			r.Get("/reports/export.pdf", s.handleExportPDF)
			r.Get("/settings", s.handleSettings)
			r.Post("/settings", s.handleSettingsSave)
			r.Get("/docs", s.handleDocs)
		})
	})

	r.Route("/api", func(r chi.Router) {
		if len(s.cfg.CORSOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   s.cfg.CORSOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(s.apiGuard)
		r.Get("/access", s.handleAPIAccess)
		r.With(s.requireAdminAPI).Get("/audit", s.handleAPIAudit)
	})

	r.NotFound(s.handleNotFound)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := "up"
	if !s.backendUp() {
		state = "down"
	}
	render.JSON(w, r, map[string]string{"status": "ok", "backend": state})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Access

type decisionKey struct{}

// accessMiddleware resolves the access decision for the signed-in user and
// blocks restricted pages with the placeholder. Navigation stays complete so
// restricted entries remain visible.
func (s *Server) accessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		decision := s.decide(r.Context(), sess, r.URL.Path)
		ctx := context.WithValue(r.Context(), decisionKey{}, decision)
		r = r.WithContext(ctx)
		if decision.Restricted {
			s.renderRestricted(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) decide(ctx context.Context, sess session.Session, path string) access.Decision {
	leader := false
	if sess.Role() == model.RoleTeamMember && sess.User != nil {
		leader = s.leaders.IsProjectLeader(ctx, sess.AccessToken, sess.User.ID)
	}
	return access.Resolve(sess.Role(), leader, path)
}

func decisionFromContext(ctx context.Context) access.Decision {
	d, _ := ctx.Value(decisionKey{}).(access.Decision)
	return d
}

// handleBackendError deals with session expiry: a 401 from the backend
// clears the session and sends the user to the login page. It reports
// whether the response has been written.
func (s *Server) handleBackendError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil || !errors.Is(err, backend.ErrUnauthorized) {
		return false
	}
	if clearErr := s.sessions.Clear(w, r); clearErr != nil {
		s.logger.Warn("session clear failed", zap.Error(clearErr))
	}
	http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
	return true
}

func (s *Server) record(r *http.Request, action, resource, id string) {
	sess, _ := session.FromContext(r.Context())
	e := audit.Entry{Action: action, Resource: resource, ResourceID: id}
	if sess.User != nil {
		e.UserID = sess.User.ID
		e.UserEmail = sess.User.Email
	}
	s.audit.Record(r.Context(), e)
}

func currentSession(r *http.Request) session.Session {
	sess, _ := session.FromContext(r.Context())
	return sess
}

func userID(sess session.Session) string {
	if sess.User == nil {
		return ""
	}
	return sess.User.ID
}
