package resource

import (
	"context"
	"errors"
	"sync"

	"github.com/TheRoboticsClubNstRishihood/newtonbotics-admin-pannel-sub000/internal/backend"
)

// ErrStale is returned by Load when a newer Load superseded it. Its result
// was discarded.
var ErrStale = errors.New("superseded by a newer request")

type State[T any] struct {
	Items      []T
	Visible    []T
	Pagination backend.Pagination
	Filter     Filter
	Query      string
	Loading    bool
	Err        error
	Seq        uint64
}

// Empty reports the state in which the empty call-to-action is shown.
func (s State[T]) Empty() bool {
	return !s.Loading && s.Err == nil && len(s.Visible) == 0
}

// ListController fetches one filtered page of a collection at a time. Every
// Load is tagged with a sequence number; starting a new Load cancels the
// previous one and any late response with an older number is dropped.
type ListController[T any] struct {
	desc Descriptor[T]
	src  Source[T]

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	state  State[T]
}

func NewList[T any](desc Descriptor[T], src Source[T]) *ListController[T] {
	return &ListController[T]{desc: desc, src: src}
}

func (l *ListController[T]) Load(ctx context.Context, f Filter) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state.Loading = true
	l.state.Filter = f
	l.state.Query = f.Search
	l.mu.Unlock()
	defer cancel()

	page, err := l.src.List(ctx, f)

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		return ErrStale
	}
	l.cancel = nil
	l.state.Loading = false
	l.state.Seq = seq
	if err != nil {
		l.state.Items = nil
		l.state.Visible = nil
		l.state.Pagination = backend.Pagination{}
		l.state.Err = err
		return err
	}

	items := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		if l.desc.Normalize != nil {
			l.desc.Normalize(&item)
		}
		if l.desc.Keep != nil && !l.desc.Keep(item, f) {
			continue
		}
		items = append(items, item)
	}
	l.state.Items = items
	l.state.Pagination = page.Pagination
	l.state.Err = nil
	l.refine()
	return nil
}

// Refine narrows the already fetched page. It never issues a request.
func (l *ListController[T]) Refine(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.Query = q
	l.refine()
}

func (l *ListController[T]) refine() {
	if l.desc.Matches == nil || l.state.Query == "" {
		l.state.Visible = l.state.Items
		return
	}
	visible := make([]T, 0, len(l.state.Items))
	for _, item := range l.state.Items {
		if l.desc.Matches(item, l.state.Query) {
			visible = append(visible, item)
		}
	}
	l.state.Visible = visible
}

// Delete removes id on the backend, drops the row locally and re-fetches
// the current filter so pagination counts reconcile. On failure the list is
// left untouched.
func (l *ListController[T]) Delete(ctx context.Context, id string) error {
	if err := l.src.Delete(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	kept := l.state.Items[:0:0]
	for _, item := range l.state.Items {
		if l.desc.ID(item) != id {
			kept = append(kept, item)
		}
	}
	l.state.Items = kept
	l.refine()
	f := l.state.Filter
	l.mu.Unlock()

	return l.Load(ctx, f)
}

func (l *ListController[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close cancels an in-flight load, if any.
func (l *ListController[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
