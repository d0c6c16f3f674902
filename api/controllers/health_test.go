package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/catalog-pricing/pkg/config"
)

type stubPinger struct {
	err   error
	calls int
}

func (p *stubPinger) Ping(context.Context) error {
	p.calls++
	return p.err
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Catalog-Env"))
	assert.JSONEq(t, `{"status":"live"}`, rec.Body.String())
}

func TestUp(t *testing.T) {
	rec := httptest.NewRecorder()
	Up().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/up", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReadyAllHealthy(t *testing.T) {
	dbP := &stubPinger{}
	redisP := &stubPinger{}

	rec := httptest.NewRecorder()
	HealthReady(testConfig(), testLogger(), dbP, redisP).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"db":"ok","redis":"ok"}}`, rec.Body.String())
	assert.Equal(t, 1, dbP.calls)
	assert.Equal(t, 1, redisP.calls)
}

func TestHealthReadyRedisDisabled(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthReady(testConfig(), testLogger(), &stubPinger{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"db":"ok","redis":"disabled"}}`, rec.Body.String())
}

func TestHealthReadyDatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	dbP := &stubPinger{err: errors.New("connection refused")}
	HealthReady(testConfig(), testLogger(), dbP, &stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"db":"unavailable","redis":"ok"}}`, rec.Body.String())
}

func TestHealthReadyMissingDatabase(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthReady(testConfig(), testLogger(), nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
