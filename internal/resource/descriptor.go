package resource

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Filter is the list query: free text, categorical filters and a page window.
type Filter struct {
	Search string
	Params map[string]string
	Limit  int
	Skip   int
}

// ParseFilter reads a filter from page query parameters. Only keys listed in
// filterKeys are honoured; "page" is 1-based and converted to skip.
func ParseFilter(values url.Values, filterKeys []string) Filter {
	f := Filter{
		Search: strings.TrimSpace(values.Get("search")),
		Params: map[string]string{},
		Limit:  DefaultLimit,
	}
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 1 {
			f.Skip = (n - 1) * f.Limit
		}
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(values.Get(key)); v != "" && v != "all" {
			f.Params[key] = v
		}
	}
	return f
}

// Query serialises the filter for the backend.
func (f Filter) Query(serverSearch bool) url.Values {
	q := url.Values{}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(f.Skip))
	if serverSearch && f.Search != "" {
		q.Set("search", f.Search)
	}
	for k, v := range f.Params {
		q.Set(k, v)
	}
	return q
}

// Page is the 1-based page number of the window.
func (f Filter) Page() int {
	if f.Limit <= 0 {
		return 1
	}
	return f.Skip/f.Limit + 1
}

// Descriptor binds an entity type to its backend collection and the
// entity-specific bits of the list and form controllers.
type Descriptor[T any] struct {
	Name     string
	Endpoint string
	// Key is the collection/item key inside the envelope, e.g. "equipment".
	Key          string
	FilterKeys   []string
	ServerSearch bool

	ID func(T) string
	// Matches narrows the current page on free text. Nil disables refine.
	Matches func(item T, q string) bool
	// Normalize recomputes derived fields after decoding.
	Normalize func(item *T)
	// Keep drops items that fail a filter on a derived field.
	Keep func(item T, f Filter) bool
}

func (d Descriptor[T]) itemPath(id string) string {
	return d.Endpoint + "/" + url.PathEscape(id)
}

// Source is the backend surface a controller needs. Remote implements it
// against the REST API; tests substitute fakes.
type Source[T any] interface {
	List(ctx context.Context, f Filter) (backend.Page[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload interface{}) (T, error)
	Update(ctx context.Context, id string, payload interface{}) (T, error)
	Delete(ctx context.Context, id string) error
}

// Remote is a Source bound to one user's token.
type Remote[T any] struct {
	Desc   Descriptor[T]
	Client *backend.Client
	Token  string
}

func (r Remote[T]) List(ctx context.Context, f Filter) (backend.Page[T], error) {
	return backend.List[T](ctx, r.Client, r.Token, r.Desc.Endpoint, r.Desc.Key, f.Query(r.Desc.ServerSearch))
}

func (r Remote[T]) Get(ctx context.Context, id string) (T, error) {
	item, err := backend.Get[T](ctx, r.Client, r.Token, r.Desc.itemPath(id), r.Desc.Key)
	if err == nil && r.Desc.Normalize != nil {
		r.Desc.Normalize(&item)
	}
	return item, err
}

func (r Remote[T]) Create(ctx context.Context, payload interface{}) (T, error) {
	return backend.Create[T](ctx, r.Client, r.Token, r.Desc.Endpoint, r.Desc.Key, payload)
}

func (r Remote[T]) Update(ctx context.Context, id string, payload interface{}) (T, error) {
	return backend.Update[T](ctx, r.Client, r.Token, r.Desc.itemPath(id), r.Desc.Key, payload)
}

func (r Remote[T]) Delete(ctx context.Context, id string) error {
	return r.Client.Delete(ctx, r.Token, r.Desc.itemPath(id))
}

// ContainsFold is the common Matches building block.
func ContainsFold(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
