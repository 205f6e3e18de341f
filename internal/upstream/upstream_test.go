package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edgefn/model-gateway/internal/routes"
)

func chatRoute(baseURL string) routes.Route {
	return routes.Route{
		Name:      "chat",
		RouteType: "llm/v1/chat",
		Model: routes.Model{
			Provider: "openai",
			Name:     "gpt-4o-mini",
			Config:   routes.ModelConfig{BaseURL: baseURL, APIKeyEnv: "TEST_UPSTREAM_KEY"},
		},
	}
}

func TestInvoke_InjectsModelAndAuth(t *testing.T) {
	t.Setenv("TEST_UPSTREAM_KEY", "sk-test")

	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := &Client{}
	res, err := c.Invoke(context.Background(), chatRoute(srv.URL), map[string]any{"prompt": "hi"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.Status)
	require.Equal(t, "/chat/completions", gotPath)
	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "gpt-4o-mini", gotBody["model"])
	require.Equal(t, "hi", gotBody["prompt"])
	require.GreaterOrEqual(t, res.LatencyMs, int64(0))
}

func TestInvoke_UnsupportedRouteType(t *testing.T) {
	r := chatRoute("http://upstream.invalid")
	r.RouteType = "llm/v1/images"
	_, err := (&Client{}).Invoke(context.Background(), r, nil)
	require.ErrorContains(t, err, "unsupported route type")
}

func TestInvoke_MissingKeyEnv(t *testing.T) {
	t.Setenv("TEST_UPSTREAM_KEY", "")
	_, err := (&Client{}).Invoke(context.Background(), chatRoute("http://upstream.invalid"), nil)
	require.ErrorContains(t, err, "TEST_UPSTREAM_KEY")
}

func TestInvoke_MissingBaseURL(t *testing.T) {
	r := chatRoute("")
	r.Model.Config.APIKeyEnv = ""
	_, err := (&Client{}).Invoke(context.Background(), r, nil)
	require.ErrorContains(t, err, "base_url")
}

func TestInvoke_RelaysUpstreamStatus(t *testing.T) {
	t.Setenv("TEST_UPSTREAM_KEY", "sk-test")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	res, err := (&Client{}).Invoke(context.Background(), chatRoute(srv.URL), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, res.Status)
	require.JSONEq(t, `{"error":"slow down"}`, string(res.Body))
}
