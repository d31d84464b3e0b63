package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAddrAndHumanURL(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", Addr("0.0.0.0", 8080))
	assert.Equal(t, ":9000", Addr("", 9000))
	assert.Equal(t, "http://127.0.0.1:8080", HumanURL("0.0.0.0", 8080))
	assert.Equal(t, "http://127.0.0.1:8080", HumanURL("", 8080))
	assert.Equal(t, "http://api.local:80", HumanURL("api.local", 80))
}

func TestBuildServer(t *testing.T) {
	h := http.NewServeMux()
	srv := BuildServer(":0", h, time.Second, 2*time.Second, 3*time.Second)

	assert.Equal(t, ":0", srv.Addr)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	r := NewRouter(zap.NewNop(), gin.TestMode)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":500,"msg":"internal error","data":{}}`, w.Body.String())
	assert.Equal(t, gin.TestMode, gin.Mode())
}
