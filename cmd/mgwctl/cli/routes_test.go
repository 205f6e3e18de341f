package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/2.0/gateway/routes/":
			_, _ = w.Write([]byte(`{"routes":[
				{"name":"chat","route_type":"llm/v1/chat","model":{"provider":"openai","name":"gpt-4o-mini"}},
				{"name":"embeddings","route_type":"llm/v1/embeddings","model":{"provider":"cohere","name":"embed-v3"}}
			]}`))
		case "/api/2.0/gateway/routes/chat":
			_, _ = w.Write([]byte(`{"name":"chat","route_type":"llm/v1/chat","model":{"provider":"openai","name":"gpt-4o-mini"}}`))
		case "/api/2.0/gateway/chat/invocations":
			_, _ = w.Write([]byte(`{"text":"pong"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"not found","code":"route_not_found"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoutesList(t *testing.T) {
	srv := fakeGateway(t)
	out, err := runCommand(t, "routes", "list", "--gateway", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "chat")
	require.Contains(t, out, "llm/v1/embeddings")
}

func TestRoutesGet(t *testing.T) {
	srv := fakeGateway(t)
	out, err := runCommand(t, "routes", "get", "chat", "--gateway", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, `"route_type": "llm/v1/chat"`)
}

func TestRoutesGet_NotFound(t *testing.T) {
	srv := fakeGateway(t)
	_, err := runCommand(t, "routes", "get", "nope", "--gateway", srv.URL)
	require.ErrorContains(t, err, "not found")
}

func TestInvoke(t *testing.T) {
	srv := fakeGateway(t)
	out, err := runCommand(t, "invoke", "chat", "--data", `{"prompt":"hi"}`, "--gateway", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, `"text": "pong"`)
}
