package resource

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
)

type item struct {
	ID    string
	Name  string
	Kind  string
	Score int
}

var itemDesc = Descriptor[item]{
	Name:       "item",
	Endpoint:   "/api/items",
	Key:        "items",
	FilterKeys: []string{"kind"},
	ID:         func(i item) string { return i.ID },
	Matches:    func(i item, q string) bool { return ContainsFold(q, i.Name) },
	Normalize: func(i *item) {
		if i.Score < 0 {
			i.Score = 0
		}
	},
	Keep: func(i item, f Filter) bool {
		kind := f.Params["kind"]
		return kind == "" || i.Kind == kind
	},
}

type fakeSource struct {
	mu      sync.Mutex
	items   []item
	listErr error
	delErr  error
	// gate, when set, blocks List until the filter's search term is released.
	gate    map[string]chan struct{}
	creates []map[string]interface{}
	updates map[string]map[string]interface{}
	gets    int
}

func (f *fakeSource) List(ctx context.Context, filter Filter) (backend.Page[item], error) {
	if ch, ok := f.gate[filter.Search]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return backend.Page[item]{}, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return backend.Page[item]{}, f.listErr
	}
	out := append([]item(nil), f.items...)
	return backend.Page[item]{Items: out, Pagination: backend.Pagination{Total: len(out), Limit: filter.Limit}}, nil
}

func (f *fakeSource) Get(_ context.Context, id string) (item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return item{}, &backend.APIError{Status: 404, Message: "not found"}
}

func (f *fakeSource) Create(_ context.Context, payload interface{}) (item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, payload.(map[string]interface{}))
	return item{ID: "new"}, nil
}

func (f *fakeSource) Update(_ context.Context, id string, payload interface{}) (item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[string]map[string]interface{}{}
	}
	f.updates[id] = payload.(map[string]interface{})
	return item{ID: id}, nil
}

func (f *fakeSource) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{Status: 404}
}

func seed() *fakeSource {
	return &fakeSource{items: []item{
		{ID: "1", Name: "Arduino Uno", Kind: "board", Score: -3},
		{ID: "2", Name: "Servo Motor", Kind: "actuator"},
		{ID: "3", Name: "Raspberry Pi", Kind: "board"},
	}}
}

func TestLoadAppliesNormalizeKeepAndRefine(t *testing.T) {
	src := seed()
	l := NewList(itemDesc, Source[item](src))
	ctx := context.Background()

	if err := l.Load(ctx, Filter{Limit: 10, Params: map[string]string{"kind": "board"}}); err != nil {
		t.Fatalf("load: %v", err)
	}
	st := l.State()
	if len(st.Items) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(st.Items))
	}
	if st.Items[0].Score != 0 {
		t.Fatalf("expected normalised score, got %d", st.Items[0].Score)
	}

	l.Refine("rasp")
	st = l.State()
	if len(st.Visible) != 1 || st.Visible[0].ID != "3" {
		t.Fatalf("unexpected refine result %+v", st.Visible)
	}
	if len(st.Items) != 2 {
		t.Fatalf("refine must not touch the fetched page")
	}

	l.Refine("")
	if got := len(l.State().Visible); got != 2 {
		t.Fatalf("expected refine cleared, got %d", got)
	}
}

func TestLoadErrorClearsList(t *testing.T) {
	src := seed()
	l := NewList(itemDesc, Source[item](src))
	ctx := context.Background()
	_ = l.Load(ctx, Filter{Limit: 10})

	src.listErr = &backend.APIError{Status: 500}
	if err := l.Load(ctx, Filter{Limit: 10}); err == nil {
		t.Fatalf("expected error")
	}
	st := l.State()
	if len(st.Items) != 0 || len(st.Visible) != 0 || st.Pagination.Total != 0 {
		t.Fatalf("expected cleared list, got %+v", st)
	}
	if st.Empty() {
		t.Fatalf("error state must not render as empty")
	}
}

func TestDeleteRemovesRowAndRefetches(t *testing.T) {
	src := seed()
	l := NewList(itemDesc, Source[item](src))
	ctx := context.Background()
	_ = l.Load(ctx, Filter{Limit: 10})
	before := l.State().Pagination.Total

	if err := l.Delete(ctx, "2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	st := l.State()
	if st.Pagination.Total != before-1 {
		t.Fatalf("expected total %d, got %d", before-1, st.Pagination.Total)
	}
	for _, it := range st.Items {
		if it.ID == "2" {
			t.Fatalf("deleted row still present")
		}
	}
}

func TestDeleteFailureLeavesListIntact(t *testing.T) {
	src := seed()
	l := NewList(itemDesc, Source[item](src))
	ctx := context.Background()
	_ = l.Load(ctx, Filter{Limit: 10})

	src.delErr = &backend.APIError{Status: 403}
	if err := l.Delete(ctx, "2"); err == nil {
		t.Fatalf("expected error")
	}
	if got := len(l.State().Items); got != 3 {
		t.Fatalf("expected 3 rows after failed delete, got %d", got)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	src := seed()
	src.gate = map[string]chan struct{}{"slow": make(chan struct{})}
	l := NewList(itemDesc, Source[item](src))
	ctx := context.Background()

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- l.Load(ctx, Filter{Search: "slow", Limit: 10})
	}()

	// Wait until the slow load has registered its sequence number.
	deadline := time.Now().Add(time.Second)
	for {
		l.mu.Lock()
		started := l.seq == 1
		l.mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("slow load never started")
		}
		time.Sleep(time.Millisecond)
	}

	if err := l.Load(ctx, Filter{Search: "servo", Limit: 10}); err != nil {
		t.Fatalf("fresh load: %v", err)
	}
	close(src.gate["slow"])

	if err := <-slowDone; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for superseded load, got %v", err)
	}
	st := l.State()
	if st.Seq != 2 || st.Query != "servo" {
		t.Fatalf("stale response overwrote state: seq=%d query=%q", st.Seq, st.Query)
	}
	if len(st.Visible) != 1 || st.Visible[0].ID != "2" {
		t.Fatalf("unexpected visible rows %+v", st.Visible)
	}
}

func TestParseFilter(t *testing.T) {
	values := url.Values{}
	values.Set("search", "  servo ")
	values.Set("status", "low_stock")
	values.Set("category", "all")
	values.Set("ignored", "x")
	values.Set("limit", "500")
	values.Set("page", "3")

	f := ParseFilter(values, []string{"status", "category"})
	if f.Search != "servo" || f.Limit != MaxLimit || f.Skip != 2*MaxLimit {
		t.Fatalf("unexpected filter %+v", f)
	}
	if len(f.Params) != 1 || f.Params["status"] != "low_stock" {
		t.Fatalf("unexpected params %+v", f.Params)
	}
	q := f.Query(false)
	if q.Get("search") != "" || q.Get("status") != "low_stock" || q.Get("skip") != "200" {
		t.Fatalf("unexpected query %s", q.Encode())
	}
	if f.Page() != 3 {
		t.Fatalf("expected page 3, got %d", f.Page())
	}
}

type itemForm struct {
	Name string
	Ref  string
	err  error
}

func (f itemForm) Validate() error { return f.err }

func (f itemForm) Payload() map[string]interface{} {
	return map[string]interface{}{"name": f.Name}
}

func TestFormControllerEditWaitsForRefs(t *testing.T) {
	src := seed()
	refsReleased := make(chan struct{})
	c := FormController[item, []string, itemForm]{
		Source: src,
		Refs: func(ctx context.Context) ([]string, error) {
			<-refsReleased
			return []string{"board", "actuator"}, nil
		},
		Blank: func(refs []string) itemForm { return itemForm{} },
		Seed: func(it item, refs []string) itemForm {
			f := itemForm{Name: it.Name}
			for _, r := range refs {
				if r == it.Kind {
					f.Ref = r
				}
			}
			return f
		},
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(refsReleased)
	}()
	form, refs, err := c.Edit(context.Background(), "1")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if len(refs) != 2 || form.Ref != "board" || form.Name != "Arduino Uno" {
		t.Fatalf("unexpected seeded form %+v refs=%v", form, refs)
	}
}

func TestFormControllerEditPropagatesErrors(t *testing.T) {
	c := FormController[item, struct{}, itemForm]{
		Source: seed(),
		Blank:  func(struct{}) itemForm { return itemForm{} },
		Seed:   func(it item, _ struct{}) itemForm { return itemForm{Name: it.Name} },
	}
	if _, _, err := c.Edit(context.Background(), "missing"); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestFormControllerSubmit(t *testing.T) {
	src := seed()
	c := FormController[item, struct{}, itemForm]{Source: src}
	ctx := context.Background()

	invalid := itemForm{Name: "x", err: errors.New("Name must be at least 3 characters")}
	if _, err := c.Submit(ctx, "", invalid); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(src.creates) != 0 {
		t.Fatalf("validation failure must not reach the backend")
	}

	if _, err := c.Submit(ctx, "", itemForm{Name: "Lidar"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(src.creates) != 1 || src.creates[0]["name"] != "Lidar" {
		t.Fatalf("unexpected creates %+v", src.creates)
	}

	if _, err := c.Submit(ctx, "3", itemForm{Name: "Pi 5"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if src.updates["3"]["name"] != "Pi 5" {
		t.Fatalf("unexpected updates %+v", src.updates)
	}
}
