package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/L0g0rhythm/URL-Refiner/internal/config"
	"github.com/L0g0rhythm/URL-Refiner/internal/refiner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticConfig struct {
	cfg *config.GlobalConfig
}

func (s staticConfig) GetConfig() *config.GlobalConfig { return s.cfg }

func newTestServer(t *testing.T, mutate func(*config.GlobalConfig)) *Server {
	t.Helper()
	cfg := config.NewDefaultGlobalConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return NewServer(cfg.ServerConfig, staticConfig{cfg: cfg}, zerolog.Nop())
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `fetch("/api/process"`)
}

func TestProcess(t *testing.T) {
	urls := `["https://example.com/page?user=admin&session=123","http://test.com?id=abc&user=guest","https://example.com/page?user=admin&session=123","invalid-url"]`

	testCases := []struct {
		name     string
		mutate   func(*config.GlobalConfig)
		body     string
		expected []string
		stats    refiner.Stats
	}{
		{
			name: "defaults when config omitted",
			body: `{"urls":` + urls + `}`,
			expected: []string{
				"https://example.com/page?user=FUZZ&session=FUZZ",
				"http://test.com?id=FUZZ&user=FUZZ",
			},
			stats: refiner.Stats{TotalInput: 4, TotalOutput: 2, DuplicatesRemoved: 2, InvalidDropped: 1, DuplicateDropped: 1},
		},
		{
			name: "request overrides",
			body: `{"urls":` + urls + `,"config":{"mode":"APPEND","value":"_x","exclude_params":["session"]}}`,
			expected: []string{
				"https://example.com/page?user=admin_x&session=123",
				"http://test.com?id=abc_x&user=guest_x",
			},
			stats: refiner.Stats{TotalInput: 4, TotalOutput: 2, DuplicatesRemoved: 2, InvalidDropped: 1, DuplicateDropped: 1},
		},
		{
			name: "configured defaults",
			mutate: func(cfg *config.GlobalConfig) {
				cfg.RefinerConfig.Value = "X"
				cfg.RefinerConfig.IgnorePath = true
			},
			body:     `{"urls":["http://a.com/one?q=1","http://a.com/two?q=2"],"config":{}}`,
			expected: []string{"http://a.com/one?q=X"},
			stats:    refiner.Stats{TotalInput: 2, TotalOutput: 1, DuplicatesRemoved: 1, DuplicateDropped: 1},
		},
		{
			name:     "empty value is kept",
			body:     `{"urls":["http://a.com/?q=1"],"config":{"value":""}}`,
			expected: []string{"http://a.com/?q="},
			stats:    refiner.Stats{TotalInput: 1, TotalOutput: 1},
		},
		{
			name:     "no urls",
			body:     `{"urls":[]}`,
			expected: []string{},
			stats:    refiner.Stats{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, newTestServer(t, tc.mutate), tc.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp ProcessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "success", resp.Status)
			assert.Equal(t, tc.expected, resp.Data)
			assert.Equal(t, tc.stats, resp.Stats)
		})
	}
}

func TestProcess_EmptyDataIsArray(t *testing.T) {
	rec := post(t, newTestServer(t, nil), `{"urls":["nope"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestProcess_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*config.GlobalConfig)
		body    string
		code    int
		message string
	}{
		{"malformed json", nil, `{"urls":`, http.StatusBadRequest, "invalid JSON body"},
		{"empty body", nil, ``, http.StatusBadRequest, "request body is empty"},
		{"wrong type", nil, `{"urls":"http://a.com"}`, http.StatusBadRequest, "invalid JSON body"},
		{"unknown mode", nil, `{"urls":[],"config":{"mode":"prepend"}}`, http.StatusBadRequest, "mode"},
		{
			"body too large",
			func(cfg *config.GlobalConfig) { cfg.ServerConfig.MaxBodyBytes = 16 },
			`{"urls":["http://example.com/?a=1"]}`,
			http.StatusRequestEntityTooLarge,
			"size limit",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, newTestServer(t, tc.mutate), tc.body)
			assert.Equal(t, tc.code, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.Contains(t, resp.Message, tc.message)
		})
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	s := newTestServer(t, func(cfg *config.GlobalConfig) {
		cfg.ServerConfig.ShutdownSecs = 1
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/health", ln.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStart_InvalidAddress(t *testing.T) {
	s := newTestServer(t, func(cfg *config.GlobalConfig) {
		cfg.ServerConfig.Address = "256.0.0.1:http-nope"
	})
	err := s.Start(context.Background())
	assert.Error(t, err)
}
