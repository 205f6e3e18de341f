package gwserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edgefn/model-gateway/internal/metrics"
	"github.com/edgefn/model-gateway/internal/ratelimit"
	"github.com/edgefn/model-gateway/internal/requestid"
	"github.com/edgefn/model-gateway/internal/upstream"
)

const maxInvocationBody = 16 << 20 // 16MB

func makeListRoutesHandler(st *state) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mgw.operation", "list_routes")
		filter := strings.TrimSpace(c.Query("filter"))
		if filter != "" {
			c.Set("mgw.filter", filter)
		}
		c.JSON(http.StatusOK, gin.H{"routes": st.Table().List(filter)})
	}
}

func makeGetRouteHandler(st *state) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mgw.operation", "get_route")
		name := strings.TrimSpace(c.Param("name"))
		c.Set("mgw.route", name)
		route, ok := st.Table().Get(name)
		if !ok {
			writeError(c, http.StatusNotFound, "invalid_request_error", "route_not_found", "route not found: "+name)
			return
		}
		c.JSON(http.StatusOK, route)
	}
}

func makeInvokeHandler(st *state, limiter *ratelimit.Limiter, m *metrics.Metrics, uclient *upstream.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mgw.operation", "invoke")
		name := strings.TrimSpace(c.Param("name"))
		c.Set("mgw.route", name)

		route, ok := st.Table().Get(name)
		if !ok {
			writeError(c, http.StatusNotFound, "invalid_request_error", "route_not_found", "route not found: "+name)
			return
		}

		data, err := readInvocationData(c)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid_request_error", "invalid_json", err.Error())
			return
		}

		allowed, err := limiter.Allow(c.Request.Context(), name, route.Limit)
		if err != nil {
			// fail open, but make the outage visible
			log.Printf("rate limit check failed for route %s: %v", name, err)
		}
		if !allowed {
			m.ObserveRateLimited(name)
			writeError(c, http.StatusTooManyRequests, "invalid_request_error", "rate_limit_exceeded",
				"rate limit exceeded for route: "+name)
			return
		}

		res, err := uclient.Invoke(c.Request.Context(), route, data)
		if err != nil {
			writeError(c, http.StatusBadGateway, "server_error", "upstream_error", err.Error())
			return
		}
		m.ObserveInvocation(name, res.Status)
		c.Set("mgw.upstream_status", res.Status)
		c.Set("mgw.latency_ms", res.LatencyMs)

		contentType := res.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(res.Status, contentType, res.Body)
	}
}

// readInvocationData unwraps the {"data": ...} envelope. An empty
// body is a valid empty payload.
func readInvocationData(c *gin.Context) (map[string]any, error) {
	b, err := readAllLimit(c.Request.Body, maxInvocationBody)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return map[string]any{}, nil
	}
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		envelope.Data = map[string]any{}
	}
	return envelope.Data, nil
}

func writeError(c *gin.Context, status int, typ, code, msg string) {
	if rid := strings.TrimSpace(c.GetString(requestid.HeaderKey)); rid != "" {
		msg = msg + " (request id: " + rid + ")"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"message": msg,
			"type":    typ,
			"code":    code,
		},
	})
}

func readAllLimit(rc io.ReadCloser, limit int64) ([]byte, error) {
	defer func() { _ = rc.Close() }()
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, rc, limit+1); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if int64(buf.Len()) > limit {
		return nil, errors.New("request body too large")
	}
	return buf.Bytes(), nil
}
