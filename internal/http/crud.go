package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/audit"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/catalog"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/forms"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/resource"
	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/session"
)

// listSpec configures one list page over a collection.
type listSpec[T any] struct {
	Title   string
	Noun    string
	Base    string
	Desc    resource.Descriptor[T]
	Columns []catalog.Column[T]
	Badge   func(T) string
	Filters []catalog.FilterField
	Links   []Link
	Create  bool
	View    bool
	Edit    bool
	Delete  bool
	// Source overrides the default remote source, e.g. to list through an
	// admin endpoint while writing through the public one.
	Source func(s *Server, token string) resource.Source[T]
}

func (spec listSpec[T]) source(s *Server, token string) resource.Source[T] {
	if spec.Source != nil {
		return spec.Source(s, token)
	}
	return resource.Remote[T]{Desc: spec.Desc, Client: s.backend, Token: token}
}

func serveList[T any](s *Server, spec listSpec[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		ctrl := resource.NewList(spec.Desc, spec.source(s, sess.AccessToken))
		defer ctrl.Close()

		query := r.URL.Query()
		err := ctrl.Load(r.Context(), resource.ParseFilter(query, spec.Desc.FilterKeys))
		if s.handleBackendError(w, r, err) {
			return
		}
		st := ctrl.State()

		var inline []session.Toast
		if err != nil {
			inline = append(inline, inlineError(backend.Message("loading "+spec.Noun, err)))
		}
		view := ListView{
			Heading:   spec.Title,
			Noun:      spec.Noun,
			Base:      spec.Base,
			Table:     catalog.BuildTable(spec.Columns, spec.Desc.ID, spec.Badge, st.Visible),
			Filters:   filterViews(spec.Filters, st.Filter),
			Search:    st.Query,
			Pager:     pager(spec.Base, query, st.Filter, st.Pagination, len(st.Visible)),
			Empty:     st.Empty(),
			Failed:    err != nil,
			Highlight: s.takeHighlight(r, sess, spec.Base),
			View:      spec.View,
			Edit:      spec.Edit,
			Delete:    spec.Delete,
			Links:     spec.Links,
			Return:    query.Encode(),
		}
		if spec.Create {
			view.Create = spec.Base + "/create"
		}
		s.render(w, r, http.StatusOK, "list", spec.Title, view, inline...)
	}
}

// serveDelete reloads the window the user was looking at, deletes through
// the list controller and reports the reconciled total.
func serveDelete[T any](s *Server, spec listSpec[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		id := chi.URLParam(r, "id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		returnQuery, _ := url.ParseQuery(r.PostForm.Get("return"))
		back := spec.Base
		if len(returnQuery) > 0 {
			back += "?" + returnQuery.Encode()
		}

		ctrl := resource.NewList(spec.Desc, spec.source(s, sess.AccessToken))
		defer ctrl.Close()
		filter := resource.ParseFilter(returnQuery, spec.Desc.FilterKeys)
		if err := ctrl.Load(r.Context(), filter); s.handleBackendError(w, r, err) {
			return
		}

		before := ctrl.State().Seq
		err := ctrl.Delete(r.Context(), id)
		if s.handleBackendError(w, r, err) {
			return
		}
		st := ctrl.State()
		if err != nil && st.Seq == before {
			// The delete itself failed; the list was not touched.
			s.toasts.Error(w, r, backend.Message("deleting "+spec.Noun, err))
			http.Redirect(w, r, back, http.StatusSeeOther)
			return
		}
		s.record(r, audit.ActionDelete, spec.Desc.Name, id)
		if err != nil {
			s.toasts.Success(w, r, fmt.Sprintf("%s deleted successfully", catalog.Humanize(spec.Noun)))
		} else {
			s.toasts.Success(w, r, fmt.Sprintf("%s deleted successfully. %d remaining.", catalog.Humanize(spec.Noun), st.Pagination.Total))
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
	}
}

// formSpec configures the create and edit pages for one entity.
type formSpec[T any, R any, F resource.Form] struct {
	Noun  string
	Base  string
	Desc  resource.Descriptor[T]
	Refs  func(ctx context.Context, s *Server, token string) (R, error)
	Blank func(refs R) F
	Seed  func(item T, refs R) F
	// Parse builds a form from the posted values. id is empty on create.
	Parse func(ctx context.Context, r *http.Request, src resource.Source[T], id string, refs R) (F, error)
	View  func(form F) FormView
}

func (spec formSpec[T, R, F]) controller(s *Server, token string) resource.FormController[T, R, F] {
	ctrl := resource.FormController[T, R, F]{
		Source: resource.Remote[T]{Desc: spec.Desc, Client: s.backend, Token: token},
		Blank:  spec.Blank,
		Seed:   spec.Seed,
	}
	if spec.Refs != nil {
		ctrl.Refs = func(ctx context.Context) (R, error) { return spec.Refs(ctx, s, token) }
	}
	return ctrl
}

func (spec formSpec[T, R, F]) view(form F, id string) FormView {
	v := spec.View(form)
	v.Cancel = spec.Base
	if id == "" {
		v.Heading = "Create " + catalog.Humanize(spec.Noun)
		v.Action = spec.Base + "/create"
		v.Submit = "Create"
	} else {
		v.Heading = "Edit " + catalog.Humanize(spec.Noun)
		v.Action = spec.Base + "/edit/" + url.PathEscape(id)
		v.Submit = "Save changes"
	}
	return v
}

func serveNew[T any, R any, F resource.Form](s *Server, spec formSpec[T, R, F]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		form, _, err := spec.controller(s, sess.AccessToken).New(r.Context())
		if s.handleBackendError(w, r, err) {
			return
		}
		var inline []session.Toast
		if err != nil {
			var refs R
			form = spec.Blank(refs)
			inline = append(inline, inlineError(backend.Message("loading form options", err)))
		}
		v := spec.view(form, "")
		s.render(w, r, http.StatusOK, "form", v.Heading, v, inline...)
	}
}

func serveEdit[T any, R any, F resource.Form](s *Server, spec formSpec[T, R, F]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		id := chi.URLParam(r, "id")
		form, _, err := spec.controller(s, sess.AccessToken).Edit(r.Context(), id)
		if s.handleBackendError(w, r, err) {
			return
		}
		if err != nil {
			s.toasts.Error(w, r, backend.Message("loading "+spec.Noun, err))
			http.Redirect(w, r, spec.Base, http.StatusSeeOther)
			return
		}
		v := spec.view(form, id)
		s.render(w, r, http.StatusOK, "form", v.Heading, v)
	}
}

// serveSubmit handles both create (no id route param) and update.
// Validation runs before any backend write; a failing form is re-rendered
// with the user's input and the first message.
func serveSubmit[T any, R any, F resource.Form](s *Server, spec formSpec[T, R, F]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		id := chi.URLParam(r, "id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		ctrl := spec.controller(s, sess.AccessToken)

		var refs R
		if spec.Refs != nil {
			var err error
			refs, err = spec.Refs(r.Context(), s, sess.AccessToken)
			if s.handleBackendError(w, r, err) {
				return
			}
			if err != nil {
				s.logger.Warn("form references unavailable", zap.String("entity", spec.Noun), zap.Error(err))
			}
		}
		form, err := spec.Parse(r.Context(), r, ctrl.Source, id, refs)
		if s.handleBackendError(w, r, err) {
			return
		}
		if err != nil {
			s.toasts.Error(w, r, backend.Message("loading "+spec.Noun, err))
			http.Redirect(w, r, spec.Base, http.StatusSeeOther)
			return
		}

		item, err := ctrl.Submit(r.Context(), id, form)
		if err != nil {
			if s.handleBackendError(w, r, err) {
				return
			}
			var verr *forms.ValidationError
			status := http.StatusBadGateway
			message := ""
			if errors.As(err, &verr) {
				status = http.StatusUnprocessableEntity
				message = verr.Message
			} else {
				action := "creating " + spec.Noun
				if id != "" {
					action = "updating " + spec.Noun
				}
				message = backend.Message(action, err)
			}
			v := spec.view(form, id)
			s.render(w, r, status, "form", v.Heading, v, inlineError(message))
			return
		}

		action, verb := audit.ActionCreate, "created"
		if id != "" {
			action, verb = audit.ActionUpdate, "updated"
		}
		savedID := spec.Desc.ID(item)
		if savedID == "" {
			savedID = id
		}
		s.record(r, action, spec.Desc.Name, savedID)
		s.stageHighlight(r, sess, spec.Base, savedID)
		s.toasts.Success(w, r, fmt.Sprintf("%s %s successfully", catalog.Humanize(spec.Noun), verb))
		http.Redirect(w, r, spec.Base, http.StatusSeeOther)
	}
}

// fetch loads one entity for a detail page. On failure the response has
// been written and ok is false.
func fetch[T any](s *Server, w http.ResponseWriter, r *http.Request, desc resource.Descriptor[T], back string) (T, bool) {
	sess := currentSession(r)
	src := resource.Remote[T]{Desc: desc, Client: s.backend, Token: sess.AccessToken}
	item, err := src.Get(r.Context(), chi.URLParam(r, "id"))
	if err == nil {
		return item, true
	}
	if !s.handleBackendError(w, r, err) {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			s.handleNotFound(w, r)
		} else {
			s.toasts.Error(w, r, backend.Message("loading "+desc.Name, err))
			http.Redirect(w, r, back, http.StatusSeeOther)
		}
	}
	return item, false
}

// splitSource lists through one source and does everything else through
// another.
type splitSource[T any] struct {
	resource.Source[T]
	lister resource.Source[T]
}

func (s splitSource[T]) List(ctx context.Context, f resource.Filter) (backend.Page[T], error) {
	return s.lister.List(ctx, f)
}

func noParse[T any, R any, F resource.Form](parse func(r *http.Request, refs R) F) func(context.Context, *http.Request, resource.Source[T], string, R) (F, error) {
	return func(_ context.Context, r *http.Request, _ resource.Source[T], _ string, refs R) (F, error) {
		return parse(r, refs), nil
	}
}

// Staging keys: both are read once, shortly after being written.

func (s *Server) stageHighlight(r *http.Request, sess session.Session, base, id string) {
	if err := s.stager.Stage(r.Context(), userID(sess)+":saved:"+base, id); err != nil {
		s.logger.Warn("stage highlight failed", zap.Error(err))
	}
}

func (s *Server) takeHighlight(r *http.Request, sess session.Session, base string) string {
	id, _ := s.stager.Take(r.Context(), userID(sess)+":saved:"+base)
	return id
}

func (s *Server) welcomeToast(r *http.Request, sess session.Session) []session.Toast {
	name, ok := s.stager.Take(r.Context(), userID(sess)+":welcome")
	if !ok {
		return nil
	}
	return []session.Toast{{Kind: session.ToastSuccess, Message: "Welcome back, " + name}}
}
