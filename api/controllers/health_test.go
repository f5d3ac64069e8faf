package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canvasshub/canvasshub-backend/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}

	rec := serve(HealthReady(cfg, testLogger(), stubPinger{}, stubPinger{}), newRequest(http.MethodGet, "/health/ready", requestOpts{}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dev", rec.Header().Get("X-CanvassHub-Env"))

	rec = serve(HealthReady(cfg, testLogger(), stubPinger{}, stubPinger{err: errors.New("down")}), newRequest(http.MethodGet, "/health/ready", requestOpts{}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(HealthReady(cfg, testLogger(), nil, stubPinger{}), newRequest(http.MethodGet, "/health/ready", requestOpts{}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	rec := serve(HealthLive(cfg), newRequest(http.MethodGet, "/health/live", requestOpts{}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"live"`)
}
