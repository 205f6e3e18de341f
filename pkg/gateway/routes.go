package gateway

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const routesBase = "api/2.0/gateway"

// RouteModel identifies the model a route is served by.
type RouteModel struct {
	Provider string `json:"provider"`
	Name     string `json:"name"`
}

// Route is a named, server-configured model-serving endpoint. The
// lifecycle is owned by the gateway; clients only read and invoke it.
type Route struct {
	Name      string     `json:"name"`
	RouteType string     `json:"route_type"`
	Model     RouteModel `json:"model"`
}

// ListRoutes returns the configured routes. A non-empty filter is
// forwarded verbatim and narrows the listing server-side.
func (c *Client) ListRoutes(ctx context.Context, filter string) ([]Route, error) {
	req := request{path: routesBase + "/routes/"}
	if filter != "" {
		req.query = url.Values{"filter": []string{filter}}
	}
	var page struct {
		Routes []Route `json:"routes"`
	}
	if err := c.get(ctx, req, &page); err != nil {
		return nil, err
	}
	return page.Routes, nil
}

// GetRoute fetches a single route by name.
func (c *Client) GetRoute(ctx context.Context, name string) (*Route, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("gateway: route name is empty")
	}
	var route Route
	if err := c.get(ctx, request{path: routesBase + "/routes/" + url.PathEscape(name)}, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// Invoke posts a query payload to a route and returns the gateway
// response. The payload is opaque to the client and is wrapped in the
// wire envelope {"data": payload}.
func (c *Client) Invoke(ctx context.Context, route Route, data map[string]any) (map[string]any, error) {
	name := strings.TrimSpace(route.Name)
	if name == "" {
		return nil, errors.New("gateway: route name is empty")
	}
	req := request{
		path: routesBase + "/" + url.PathEscape(name) + "/invocations",
		body: map[string]any{"data": data},
	}
	var out map[string]any
	if err := c.post(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
