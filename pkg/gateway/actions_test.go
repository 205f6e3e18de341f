package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActions_UniqueCorrelationIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		act := c.ListRoutesAction(context.Background(), "")
		require.Equal(t, TypeListRoutes, act.Type)
		require.NotEmpty(t, act.Meta.ID)
		require.False(t, seen[act.Meta.ID], "duplicate correlation id %s", act.Meta.ID)
		seen[act.Meta.ID] = true
		_, err := act.Await(context.Background())
		require.NoError(t, err)
	}
}

func TestInvokeAction_RecordsStartTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	before := time.Now()
	act := c.InvokeAction(context.Background(), Route{Name: "chat"}, map[string]any{"prompt": "hi"})
	require.Equal(t, TypeInvoke, act.Type)
	require.False(t, act.Meta.StartTime.IsZero())
	require.False(t, act.Meta.StartTime.Before(before))

	out, err := act.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", out["text"])
}

func TestListRoutesAction_MetaHasNoStartTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()

	act := New(srv.URL).ListRoutesAction(context.Background(), "")
	require.True(t, act.Meta.StartTime.IsZero())
	_, err := act.Await(context.Background())
	require.NoError(t, err)
}

func TestAction_AwaitPropagatesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","code":"upstream_error"}}`))
	}))
	defer srv.Close()

	act := New(srv.URL).GetRouteAction(context.Background(), "chat")
	_, err := act.Await(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)

	// A second Await returns the same resolution.
	_, err2 := act.Await(context.Background())
	require.Equal(t, err, err2)
}

func TestAction_AwaitHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()
	defer close(release)

	act := New(srv.URL).ListRoutesAction(context.Background(), "")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := act.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, act.Done())
}

func TestActions_ConcurrentDispatchesAreIndependent(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"routes":[]}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	acts := make([]*Action[[]Route], 10)
	for i := range acts {
		acts[i] = c.ListRoutesAction(context.Background(), "")
	}
	for _, act := range acts {
		_, err := act.Await(context.Background())
		require.NoError(t, err)
	}
	require.EqualValues(t, len(acts), calls.Load())
}
