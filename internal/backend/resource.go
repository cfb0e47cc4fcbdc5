package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Page is one page of a collection.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// List fetches a collection. The backend is inconsistent about where the
// array lives: data.items, data.<key>, or data itself.
func List[T any](ctx context.Context, c *Client, token, path, key string, query url.Values) (Page[T], error) {
	env, err := c.Do(ctx, token, http.MethodGet, path, query, nil)
	if err != nil {
		return Page[T]{}, err
	}
	var page Page[T]
	raw := collection(env, key)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return Page[T]{}, fmt.Errorf("decode %s items: %w", path, err)
		}
	}
	if p, ok := env.Data["pagination"]; ok {
		if err := json.Unmarshal(p, &page.Pagination); err != nil {
			return Page[T]{}, fmt.Errorf("decode %s pagination: %w", path, err)
		}
	} else {
		page.Pagination.Total = len(page.Items)
		page.Pagination.Limit = len(page.Items)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// collection picks the array out of an envelope. Only data itself and the
// named keys are considered, in order.
func collection(env *Envelope, key string) json.RawMessage {
	if len(env.RawData) > 0 && env.RawData[0] == '[' {
		return env.RawData
	}
	for _, k := range []string{"items", key, "results", "docs"} {
		if raw, ok := env.Data[k]; ok && k != "" && len(raw) > 0 && raw[0] == '[' {
			return raw
		}
	}
	return nil
}

// Get fetches a single entity found under data.item, data.<key> or data.
func Get[T any](ctx context.Context, c *Client, token, path, key string) (T, error) {
	env, err := c.Do(ctx, token, http.MethodGet, path, nil, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return single[T](env, path, key)
}

func Create[T any](ctx context.Context, c *Client, token, path, key string, body interface{}) (T, error) {
	env, err := c.Do(ctx, token, http.MethodPost, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return single[T](env, path, key)
}

func Update[T any](ctx context.Context, c *Client, token, path, key string, body interface{}) (T, error) {
	env, err := c.Do(ctx, token, http.MethodPut, path, nil, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return single[T](env, path, key)
}

func (c *Client) Delete(ctx context.Context, token, path string) error {
	_, err := c.Do(ctx, token, http.MethodDelete, path, nil, nil)
	return err
}

func single[T any](env *Envelope, path, key string) (T, error) {
	var out T
	raw := env.RawData
	for _, k := range []string{"item", key} {
		if v, ok := env.Data[k]; ok && k != "" {
			raw = v
			break
		}
	}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s item: %w", path, err)
	}
	return out, nil
}
