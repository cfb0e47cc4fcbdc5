package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/export"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/model"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/report"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
)

// maxReportPages bounds how far collectAll pages through a collection.
const maxReportPages = 50

func collectAll[T any](ctx context.Context, s *Server, token string, desc resource.Descriptor[T]) ([]T, error) {
	src := resource.Remote[T]{Desc: desc, Client: s.backend, Token: token}
	var out []T
	f := resource.Filter{Limit: resource.MaxLimit}
	for i := 0; i < maxReportPages; i++ {
		page, err := src.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
		if !page.Pagination.HasMore || len(page.Items) == 0 {
			break
		}
		f.Skip += len(page.Items)
	}
	return out, nil
}

func reportCriteria(q url.Values) report.Criteria {
	return report.Criteria{
		Role:        q.Get("role"),
		Department:  q.Get("department"),
		Search:      q.Get("search"),
		Involvement: q.Get("involvement"),
	}
}

// reportRows loads users and projects in parallel and joins them. all is
// the unfiltered join, used for the department options.
func (s *Server) reportRows(ctx context.Context, token string, c report.Criteria) (rows, all []report.StudentReport, err error) {
	var (
		users    []model.UserSummary
		projects []model.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = collectAll(gctx, s, token, catalog.Users)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = collectAll(gctx, s, token, catalog.Projects)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	all = report.Build(users, projects)
	return report.Filter(all, c), all, nil
}

var involvementOptions = []catalog.Option{
	{Value: "leader", Label: "Leads a project"},
	{Value: "member", Label: "Member of a project"},
	{Value: "any", Label: "Any project"},
	{Value: "none", Label: "No projects"},
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	q := r.URL.Query()
	criteria := reportCriteria(q)
	rows, all, err := s.reportRows(r.Context(), sess.AccessToken, criteria)
	if s.handleBackendError(w, r, err) {
		return
	}

	var departments []catalog.Option
	for _, d := range report.Departments(all) {
		departments = append(departments, catalog.Option{Value: d, Label: d})
	}
	full := report.VariantFull
	table := catalog.Table{Headers: report.Header(full)}
	for _, row := range rows {
		table.Rows = append(table.Rows, catalog.Row{ID: row.UserID, Cells: row.Record(full)})
	}

	exportLink := func(ext string, v report.Variant) string {
		eq := url.Values{}
		for k, vals := range q {
			eq[k] = vals
		}
		eq.Set("variant", string(v))
		return "/reports/export." + ext + "?" + eq.Encode()
	}
	view := ListView{
		Heading: "Student Reports",
		Noun:    "student",
		Base:    "/reports",
		Table:   table,
		Filters: []FilterView{
			{Key: "role", Label: "Role", Options: statusOptions([]string{model.RoleStudent, model.RoleTeamMember, model.RoleModerator, model.RoleAdmin}), Selected: criteria.Role},
			{Key: "department", Label: "Department", Options: departments, Selected: criteria.Department},
			{Key: "involvement", Label: "Projects", Options: involvementOptions, Selected: criteria.Involvement},
		},
		Search: criteria.Search,
		Pager:  Pager{Page: 1, Total: len(rows)},
		Empty:  err == nil && len(rows) == 0,
		Failed: err != nil,
		Links: []Link{
			{Label: "CSV (name, email)", Href: exportLink("csv", report.VariantBasic)},
			{Label: "CSV (full)", Href: exportLink("csv", report.VariantFull)},
			{Label: "PDF (name, email)", Href: exportLink("pdf", report.VariantBasic)},
			{Label: "PDF (full)", Href: exportLink("pdf", report.VariantFull)},
		},
	}
	if len(rows) > 0 {
		view.Pager.From, view.Pager.To = 1, len(rows)
	}
	if err != nil {
		s.render(w, r, http.StatusOK, "list", "Reports", view, inlineError(backend.Message("loading the report", err)))
		return
	}
	s.render(w, r, http.StatusOK, "list", "Reports", view)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "csv")
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, "pdf")
}

func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, ext string) {
	sess := currentSession(r)
	q := r.URL.Query()
	rows, _, err := s.reportRows(r.Context(), sess.AccessToken, reportCriteria(q))
	if s.handleBackendError(w, r, err) {
		return
	}
	if err != nil {
		s.toasts.Error(w, r, backend.Message("exporting the report", err))
		http.Redirect(w, r, "/reports?"+q.Encode(), http.StatusSeeOther)
		return
	}

	variant := report.ParseVariant(q.Get("variant"))
	header, records := report.Header(variant), report.Records(rows, variant)
	now := s.now()
	name := export.Filename("student-report-"+string(variant), ext, now)

	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	switch ext {
	case "pdf":
		contentType = "application/pdf"
		err = export.WritePDF(&buf, "Student Report", header, records, now)
	default:
		err = export.WriteCSV(&buf, header, records)
	}
	if err != nil {
		s.logger.Error("export failed", zap.String("format", ext), zap.Error(err))
		s.toasts.Error(w, r, "Failed to generate the export")
		http.Redirect(w, r, "/reports?"+q.Encode(), http.StatusSeeOther)
		return
	}

	s.archive(name, buf.Bytes())
	s.record(r, audit.ActionExport, "report", name)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}

// archive copies an export to the archiver without holding up the
// download.
func (s *Server) archive(name string, data []byte) {
	if _, ok := s.archiver.(export.Nop); ok {
		return
	}
	copied := append([]byte(nil), data...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.archiver.Archive(ctx, name, copied); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Warn("export archive failed", zap.String("name", name), zap.Error(err))
			return
		}
		s.logger.Info("export archived", zap.String("name", name))
	}()
}
