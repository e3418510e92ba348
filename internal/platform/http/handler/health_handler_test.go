package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

func setupRouter(db Pinger) *gin.Engine {
	h := NewHealthHandler(db)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	return r
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		db             Pinger
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{"get healthy", fakePinger{}, http.MethodGet, http.StatusOK, "ok"},
		{"get without store", nil, http.MethodGet, http.StatusOK, "ok"},
		{"get store down", fakePinger{err: errors.New("dial tcp: refused")}, http.MethodGet, http.StatusServiceUnavailable, "unavailable"},
		{"head healthy", fakePinger{}, http.MethodHead, http.StatusOK, ""},
		{"head store down", fakePinger{err: errors.New("down")}, http.MethodHead, http.StatusServiceUnavailable, ""},
		{"options", fakePinger{err: errors.New("down")}, http.MethodOptions, http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.db).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len())
				return
			}
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedBody, resp["status"])
		})
	}
}
