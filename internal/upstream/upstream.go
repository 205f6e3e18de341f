// Package upstream forwards route invocations to the provider
// endpoint configured on the route.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/edgefn/model-gateway/internal/routes"
)

// completionPaths maps a route type to the provider path the payload
// is posted to.
var completionPaths = map[string]string{
	"llm/v1/chat":        "/chat/completions",
	"llm/v1/completions": "/completions",
	"llm/v1/embeddings":  "/embeddings",
}

type Client struct {
	HTTP *http.Client
}

type Result struct {
	Status    int
	Header    http.Header
	Body      []byte
	LatencyMs int64
}

// Invoke posts the query payload to the route's upstream model. The
// configured model name is injected into the body; the provider
// response is relayed as-is.
func (c *Client) Invoke(ctx context.Context, route routes.Route, data map[string]any) (*Result, error) {
	start := time.Now()

	path, ok := completionPaths[route.RouteType]
	if !ok {
		return nil, fmt.Errorf("unsupported route type %q", route.RouteType)
	}
	baseURL := strings.TrimSpace(route.Model.Config.BaseURL)
	if baseURL == "" {
		return nil, errors.New("upstream base_url is empty")
	}

	body := make(map[string]any, len(data)+1)
	for k, v := range data {
		body[k] = v
	}
	body["model"] = route.Model.Name

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	// headers: start clean, never forward the caller's Authorization.
	req.Header.Set("Content-Type", "application/json")
	if env := route.Model.Config.APIKeyEnv; env != "" {
		key := strings.TrimSpace(os.Getenv(env))
		if key == "" {
			return nil, fmt.Errorf("upstream key env %s is not set", env)
		}
		req.Header.Set("Authorization", "Bearer "+key)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Result{
		Status:    resp.StatusCode,
		Header:    resp.Header,
		Body:      respBody,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
