package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action types for the routes surface.
const (
	TypeListRoutes = "LIST_GATEWAY_ROUTES"
	TypeGetRoute   = "GET_GATEWAY_ROUTE"
	TypeInvoke     = "QUERY_GATEWAY"
)

// Meta pairs a dispatched action with its eventual resolution. ID is
// fresh per action; StartTime is only set for invocations.
type Meta struct {
	ID        string
	StartTime time.Time
}

// Action is a dispatched gateway call that is still in flight. The
// call runs on its own goroutine; Await blocks until it resolves.
// Concurrent actions are independent and distinguished only by
// Meta.ID.
type Action[T any] struct {
	Type string
	Meta Meta

	done  <-chan struct{}
	value T
	err   error
}

// Await returns the resolved value, the call's error, or ctx.Err()
// when the caller gives up waiting. It may be called more than once.
func (a *Action[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-a.done:
		return a.value, a.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done reports whether the underlying call has resolved.
func (a *Action[T]) Done() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

func newAction[T any](typ string, meta Meta, call func() (T, error)) *Action[T] {
	done := make(chan struct{})
	a := &Action[T]{Type: typ, Meta: meta, done: done}
	go func() {
		a.value, a.err = call()
		close(done)
	}()
	return a
}

func newMeta() Meta {
	return Meta{ID: uuid.NewString()}
}

// ListRoutesAction dispatches a route listing.
func (c *Client) ListRoutesAction(ctx context.Context, filter string) *Action[[]Route] {
	return newAction(TypeListRoutes, newMeta(), func() ([]Route, error) {
		return c.ListRoutes(ctx, filter)
	})
}

// GetRouteAction dispatches a single-route fetch.
func (c *Client) GetRouteAction(ctx context.Context, name string) *Action[*Route] {
	return newAction(TypeGetRoute, newMeta(), func() (*Route, error) {
		return c.GetRoute(ctx, name)
	})
}

// InvokeAction dispatches a route invocation and records the call
// start time in the action meta.
func (c *Client) InvokeAction(ctx context.Context, route Route, data map[string]any) *Action[map[string]any] {
	meta := newMeta()
	meta.StartTime = time.Now()
	return newAction(TypeInvoke, meta, func() (map[string]any, error) {
		return c.Invoke(ctx, route, data)
	})
}
