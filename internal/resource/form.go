package resource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Form is an editable form model. Validate returns the first failure only.
type Form interface {
	Validate() error
	Payload() map[string]interface{}
}

// FormController drives create and edit pages for T. R is the reference
// data the form needs (category lists and the like); use struct{} when
// there is none.
type FormController[T any, R any, F Form] struct {
	Source Source[T]
	// Refs loads reference data. Nil means none.
	Refs  func(ctx context.Context) (R, error)
	Blank func(refs R) F
	Seed  func(item T, refs R) F
}

// New returns a blank form plus reference data.
func (c FormController[T, R, F]) New(ctx context.Context) (F, R, error) {
	refs, err := c.refs(ctx)
	if err != nil {
		var zero F
		return zero, refs, err
	}
	return c.Blank(refs), refs, nil
}

// Edit fetches the entity and the reference data in parallel. The form is
// seeded only after both have resolved, so a reference-dependent field is
// never set before its options exist.
func (c FormController[T, R, F]) Edit(ctx context.Context, id string) (F, R, error) {
	var (
		item T
		refs R
		zero F
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		item, err = c.Source.Get(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		refs, err = c.refs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return zero, refs, err
	}
	return c.Seed(item, refs), refs, nil
}

// Submit validates and, only when valid, creates (empty id) or updates.
func (c FormController[T, R, F]) Submit(ctx context.Context, id string, form F) (T, error) {
	var zero T
	if err := form.Validate(); err != nil {
		return zero, err
	}
	payload := form.Payload()
	if id == "" {
		item, err := c.Source.Create(ctx, payload)
		if err != nil {
			return zero, fmt.Errorf("create: %w", err)
		}
		return item, nil
	}
	item, err := c.Source.Update(ctx, id, payload)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", id, err)
	}
	return item, nil
}

func (c FormController[T, R, F]) refs(ctx context.Context) (R, error) {
	if c.Refs == nil {
		var zero R
		return zero, nil
	}
	return c.Refs(ctx)
}
