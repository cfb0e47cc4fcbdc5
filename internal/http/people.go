package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
)

var userList = listSpec[model.UserSummary]{
	Title:   "Users",
	Noun:    "user",
	Base:    "/users",
	Desc:    catalog.Users,
	Columns: catalog.UserColumns,
	Filters: catalog.UserFilters,
}

var projectList = listSpec[model.Project]{
	Title:   "Projects",
	Noun:    "project",
	Base:    "/projects",
	Desc:    catalog.Projects,
	Columns: catalog.ProjectColumns,
	Badge:   func(p model.Project) string { return p.Status },
}

var mediaList = listSpec[model.MediaItem]{
	Title:   "Media",
	Noun:    "media",
	Base:    "/media",
	Desc:    catalog.Media,
	Columns: catalog.MediaColumns,
}

func (s *Server) peopleRoutes(r chi.Router) {
	r.Get("/users", serveList(s, userList))
	r.Get("/projects", serveList(s, projectList))
	r.Get("/media", serveList(s, mediaList))
}

// Dashboard

type StatCard struct {
	Label string
	Value string
	Href  string
}

type DashboardView struct {
	Cards     []StatCard
	Recent    []audit.Entry
	BackendUp bool
}

type counter func(ctx context.Context, token string) (int, error)

// countOf reads the total of a filtered collection with a one-row window.
func countOf[T any](s *Server, desc resource.Descriptor[T], params map[string]string) counter {
	return func(ctx context.Context, token string) (int, error) {
		src := resource.Remote[T]{Desc: desc, Client: s.backend, Token: token}
		page, err := src.List(ctx, resource.Filter{Limit: 1, Params: params})
		return page.Pagination.Total, err
	}
}

// lowStockCount derives stock status locally over the first window; the
// backend's stored status may disagree with the quantities.
func lowStockCount(s *Server) counter {
	return func(ctx context.Context, token string) (int, error) {
		items, err := listAll(ctx, s, token, catalog.Equipment)
		n := 0
		for _, e := range items {
			if e.Status != model.StatusAvailable {
				n++
			}
		}
		return n, err
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	cards := []struct {
		StatCard
		count counter
	}{
		{StatCard{Label: "Equipment", Href: "/inventory"}, countOf(s, catalog.Equipment, nil)},
		{StatCard{Label: "Low or out of stock", Href: "/inventory?status=low_stock"}, lowStockCount(s)},
		{StatCard{Label: "Active checkouts", Href: "/inventory/checkouts?status=checked_out"},
			countOf(s, catalog.Checkouts, map[string]string{"status": model.CheckoutCheckedOut})},
		{StatCard{Label: "Upcoming events", Href: "/events?status=upcoming"},
			countOf(s, catalog.Events, map[string]string{"status": model.EventUpcoming})},
		{StatCard{Label: "Articles", Href: "/news"}, countOf(s, catalog.AdminList(catalog.News, catalog.NewsAdminEndpoint), nil)},
		{StatCard{Label: "Active subscribers", Href: "/newsletter?isActive=true"},
			countOf(s, catalog.Subscriptions, map[string]string{"isActive": "true"})},
		{StatCard{Label: "Users", Href: "/users"}, countOf(s, catalog.Users, nil)},
	}

	// One failing card does not cancel the others.
	errs := make([]error, len(cards))
	var g errgroup.Group
	for i := range cards {
		i := i
		g.Go(func() error {
			n, err := cards[i].count(r.Context(), sess.AccessToken)
			errs[i] = err
			if err == nil {
				cards[i].Value = strconv.Itoa(n)
			} else {
				cards[i].Value = "-"
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, backend.ErrUnauthorized) {
			s.handleBackendError(w, r, err)
			return
		}
		s.logger.Warn("dashboard card failed", zap.String("card", cards[i].Label), zap.Error(err))
	}

	view := DashboardView{BackendUp: s.backendUp()}
	for _, c := range cards {
		view.Cards = append(view.Cards, c.StatCard)
	}
	if s.auditLog != nil {
		recent, err := s.auditLog.Recent(r.Context(), 10)
		if err != nil {
			s.logger.Warn("recent audit entries unavailable", zap.Error(err))
		}
		view.Recent = recent
	}
	s.render(w, r, http.StatusOK, "dashboard", "Dashboard", view)
}
