package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerStub struct {
	err error
}

func (p *pingerStub) Ping(context.Context) error { return p.err }

func healthRouter(db Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealth(db)
	engine := gin.New()
	engine.GET("/health", h.Live)
	engine.GET("/ready", h.Ready)
	return engine
}

func TestHealth_Live(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(&pingerStub{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_Ready(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(&pingerStub{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "connected")
}

func TestHealth_Ready_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	healthRouter(&pingerStub{err: assert.AnError}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
