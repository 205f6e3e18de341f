package gwserver

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgefn/model-gateway/internal/logx"
	"github.com/edgefn/model-gateway/internal/metrics"
	"github.com/edgefn/model-gateway/internal/requestid"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestid.HeaderKey))
		if id == "" {
			id = requestid.Gen()
		}
		c.Header(requestid.HeaderKey, id)
		c.Set(requestid.HeaderKey, id)
		c.Next()
	}
}

func requestLoggerWithColor(l *log.Logger, color bool) gin.HandlerFunc {
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)

		fields := make([]logx.Field, 0, 6)
		if v := c.GetString(requestid.HeaderKey); v != "" {
			fields = append(fields, logx.Field{Key: "request_id", Value: v})
		}
		for _, key := range []string{"mgw.operation", "mgw.route", "mgw.filter", "mgw.upstream_status"} {
			if v, ok := c.Get(key); ok {
				fields = append(fields, logx.Field{Key: strings.TrimPrefix(key, "mgw."), Value: v})
			}
		}
		if v, ok := c.Get("mgw.latency_ms"); ok {
			fields = append(fields, logx.Field{Key: "latency_ms", Value: v})
		} else {
			fields = append(fields, logx.Field{Key: "latency_ms", Value: latency.Milliseconds()})
		}

		l.Println(logx.FormatRequestLineWithColor(time.Now(), status, latency, c.ClientIP(), c.Request.Method, c.Request.URL.Path, fields, color))
	}
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		op := c.GetString("mgw.operation")
		if op == "" {
			op = "other"
		}
		m.ObserveRequest(op, c.Writer.Status(), time.Since(start))
	}
}
