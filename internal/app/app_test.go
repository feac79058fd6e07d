package app

import (
	"context"
	"hireflow/internal/config"
	"hireflow/internal/formprops"
	"hireflow/internal/service"
	"hireflow/internal/transport/rest"
	"hireflow/internal/transport/ws"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryAndServe(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HIREFLOW_STORAGE", "memory")

	cfg, err := config.Load("")
	require.NoError(t, err)

	ctx := context.Background()
	a, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer a.Close(ctx)

	c := a.Container(cfg, formprops.Default(), service.LogNotifier{}, ws.NewHub())
	require.NotNil(t, c.CallService)
	router := rest.NewRouter(c)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/form-properties?keys=voice", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"voice"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/v1/dashboard/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
