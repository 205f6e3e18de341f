package gwserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edgefn/model-gateway/internal/auth"
	"github.com/edgefn/model-gateway/internal/config"
	"github.com/edgefn/model-gateway/internal/metrics"
	"github.com/edgefn/model-gateway/internal/ratelimit"
	"github.com/edgefn/model-gateway/internal/routes"
	"github.com/edgefn/model-gateway/internal/upstream"
	"github.com/edgefn/model-gateway/internal/version"
)

func NewRouter(
	cfg *config.Config,
	st *state,
	limiter *ratelimit.Limiter,
	m *metrics.Metrics,
	uclient *upstream.Client,
	accessLogger *log.Logger,
	accessColor bool,
) *gin.Engine {
	r := gin.New()
	r.Use(requestIDMiddleware())
	if accessLogger != nil {
		r.Use(requestLoggerWithColor(accessLogger, accessColor))
	}
	r.Use(gin.Recovery())
	if m != nil {
		r.Use(metricsMiddleware(m))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "routes": st.Table().Len(), "started_at": st.StartedAtUnix()})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})
	if m != nil && cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	secured := r.Group("/")
	secured.Use(auth.Middleware(cfg.Auth.APIKey))

	secured.POST("/admin/reload", func(c *gin.Context) {
		tbl, err := routes.Load(cfg.Routes.File)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "server_error", "reload_failed", err.Error())
			return
		}
		st.SetTable(tbl)
		log.Printf("reload ok routes=%d", tbl.Len())
		c.JSON(http.StatusOK, gin.H{"routes": tbl.Len()})
	})

	gw := secured.Group("/api/2.0/gateway")
	gw.GET("/routes/", makeListRoutesHandler(st))
	gw.GET("/routes/:name", makeGetRouteHandler(st))
	gw.POST("/:name/invocations", makeInvokeHandler(st, limiter, m, uclient))

	return r
}
