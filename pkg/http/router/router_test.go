package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lintang-b-s/fmpartitioner/pkg/http/server"
	"github.com/lintang-b-s/fmpartitioner/pkg/http/usecases"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(useRateLimit bool) http.Handler {
	svc := usecases.NewPartitionService(zap.NewNop(), nil, 100)
	return NewAPI(zap.NewNop()).Handler(server.Config{
		UseRateLimit:    useRateLimit,
		MaxRequestBytes: 1 << 20,
	}, svc)
}

func doRequest(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPartitionEndpoint(t *testing.T) {
	h := newTestHandler(false)
	rec := doRequest(h, http.MethodPost, "/api/partition",
		`{"min_cut_ratio": 0.25, "nets": [["a", "c"], ["b", "d"]]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(REQUEST_ID_HEADER))

	var body struct {
		Data struct {
			NumNodes    int      `json:"num_nodes"`
			CutSizes    []int    `json:"cut_sizes"`
			Block0      []string `json:"block0"`
			Block1      []string `json:"block1"`
			BestIndex   int      `json:"best_index"`
			BestCutSize int      `json:"best_cut_size"`
			Moves       []struct {
				Node string `json:"node"`
				Gain int    `json:"gain"`
			} `json:"moves"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body.Data.NumNodes)
	assert.Equal(t, []int{2, 1, 0, 1, 2}, body.Data.CutSizes)
	assert.Equal(t, []string{"b", "d"}, body.Data.Block0)
	assert.Equal(t, []string{"a", "c"}, body.Data.Block1)
	assert.Equal(t, 2, body.Data.BestIndex)
	assert.Equal(t, 0, body.Data.BestCutSize)
	require.Len(t, body.Data.Moves, 4)
	assert.Equal(t, "a", body.Data.Moves[0].Node)
	assert.Equal(t, 1, body.Data.Moves[0].Gain)
}

func TestPartitionEndpointBadRequests(t *testing.T) {
	h := newTestHandler(false)
	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"min_cut_ratio": 0.25, "nets": [`},
		{name: "missing ratio", body: `{"nets": [["a", "b"]]}`},
		{name: "ratio above one", body: `{"min_cut_ratio": 1.5, "nets": [["a", "b"]]}`},
		{name: "no nets", body: `{"min_cut_ratio": 0.4, "nets": []}`},
		{name: "empty net", body: `{"min_cut_ratio": 0.4, "nets": [["a"], []]}`},
		{name: "empty node name", body: `{"min_cut_ratio": 0.4, "nets": [["a", ""]]}`},
		{name: "unknown field", body: `{"min_cut_ratio": 0.4, "nets": [["a"]], "k": 2}`},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, http.MethodPost, "/api/partition", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			var body map[string]map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "BAD_REQUEST", body["error"]["code"])
		})
	}
}

func TestPartitionEndpointTooManyNodes(t *testing.T) {
	svc := usecases.NewPartitionService(zap.NewNop(), nil, 2)
	h := NewAPI(zap.NewNop()).Handler(server.Config{}, svc)
	rec := doRequest(h, http.MethodPost, "/api/partition", `{"min_cut_ratio": 0.4, "nets": [["a", "b", "c"]]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnforceJSON(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/partition", strings.NewReader("min_cut_ratio=0.4"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHeartbeat(t *testing.T) {
	rec := doRequest(newTestHandler(false), http.MethodGet, "/api/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/healthz", nil)
	req.Header.Set(REQUEST_ID_HEADER, "abc-123")
	rec := httptest.NewRecorder()
	newTestHandler(false).ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(REQUEST_ID_HEADER))
}

func TestRateLimit(t *testing.T) {
	viper.Set("RATE_LIMIT_RPS", 0.001)
	viper.Set("RATE_LIMIT_BURST", 2)
	defer func() {
		viper.Set("RATE_LIMIT_RPS", 20)
		viper.Set("RATE_LIMIT_BURST", 40)
	}()

	h := newTestHandler(true)
	body := `{"min_cut_ratio": 0.4, "nets": [["a", "b"]]}`
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/partition", body).Code)
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodPost, "/api/partition", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, http.MethodPost, "/api/partition", body).Code)
}

func TestRecoverPanic(t *testing.T) {
	api := NewAPI(zap.NewNop())
	h := api.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRealIP(t *testing.T) {
	var got string
	h := RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 10.0.0.1")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "10.0.0.7", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-Ip", "192.168.1.2")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "192.168.1.2", got)
}
