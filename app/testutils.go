package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func itoa(i int) string {
	return strconv.Itoa(i)
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	if len(responseBody) == 0 {
		return res.StatusCode, res.Header, nil
	}

	var envelope envelope
	err = json.Unmarshal(responseBody, &envelope)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, envelope
}

// discardProducer stands in for the message broker so handler tests do not
// need a live RabbitMQ.
type discardProducer struct{}

func (discardProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange) error {
	return nil
}

func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	cfg := &Config{
		Port:        ":0",
		Environment: "test",
		Version:     "test",
	}
	cfg.Limiter.RPS = 2
	cfg.Limiter.Burst = 4

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db, discardProducer{}, cache, logger),
		blogService: blogservice.NewBlogService(db, cache),
	}

	return app, db
}

func (ts *testServer) post(t *testing.T, path string, data any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	res, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(jsonPayload))
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path string) (int, http.Header, envelope) {
	res, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) put(t *testing.T, path string, data any) (int, http.Header, envelope) {
	jsonPayload, err := json.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest(http.MethodPut, ts.URL+path, bytes.NewReader(jsonPayload))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) delete(t *testing.T, path string) (int, http.Header, envelope) {
	req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}
