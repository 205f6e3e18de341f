package gwserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/edgefn/model-gateway/internal/config"
	"github.com/edgefn/model-gateway/internal/metrics"
	"github.com/edgefn/model-gateway/internal/ratelimit"
	"github.com/edgefn/model-gateway/internal/routes"
	"github.com/edgefn/model-gateway/internal/upstream"
)

func TestAdminReload_SwapsRouteTable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	routesFile := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(routesFile, []byte("routes:\n  - name: chat\n"), 0o600))

	cfg := &config.Config{}
	cfg.Auth.APIKey = testAPIKey
	cfg.Routes.File = routesFile

	tbl, err := routes.Load(routesFile)
	require.NoError(t, err)
	st := &state{table: tbl}
	engine := NewRouter(cfg, st, ratelimit.New("", "", 0), metrics.New(), &upstream.Client{}, nil, false)

	require.Equal(t, 1, st.Table().Len())

	require.NoError(t, os.WriteFile(routesFile, []byte("routes:\n  - name: chat\n  - name: embeddings\n"), 0o600))

	req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, st.Table().Len())
	_, ok := st.Table().Get("embeddings")
	require.True(t, ok)
}

func TestReloadTable_KeepsOldTableOnError(t *testing.T) {
	routesFile := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(routesFile, []byte("routes:\n  - name: chat\n"), 0o600))

	cfg := &config.Config{}
	cfg.Routes.File = routesFile

	tbl, err := routes.Load(routesFile)
	require.NoError(t, err)
	st := &state{table: tbl}

	require.NoError(t, os.WriteFile(routesFile, []byte("routes: ["), 0o600))
	require.Error(t, reloadTable(cfg, st))
	require.Equal(t, 1, st.Table().Len(), "old table survives a bad reload")
}
