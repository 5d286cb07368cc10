package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestRateLimit(t *testing.T) {
	app, _ := newTestApplication(t)
	app.config.Limiter.Enabled = true
	app.config.Limiter.RPS = 2
	app.config.Limiter.Burst = 4

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusTooManyRequests, res.Code)

	// a different client has its own bucket
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	res = httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	app, _ := newTestApplication(t)
	app.config.Limiter.Enabled = false

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		res := httptest.NewRecorder()

		middleware.ServeHTTP(res, req)

		assert.Equal(t, http.StatusOK, res.Code)
	}
}
