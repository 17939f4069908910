package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZelongGuo/dislocation/internal/config"
)

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Evaluator.MaxPairs = 100
	reg := prometheus.NewRegistry()
	return New(cfg, zerolog.Nop(), reg, reg), reg
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEvaluate(t *testing.T) {
	s, reg := newTestServer(t)
	rec := post(t, s, `{
		"patches": [[0, 0, 5000, 10000, 5000, 0, 90, 1, 0, 0]],
		"observations": [[3000, 3000, 0], [0, 0, -5000], [0, 0, 1]]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.U, 3)
	assert.InDelta(t, 0.012714149440236357, float64(resp.U[0][0]), 1e-14)
	assert.InDelta(t, 199106.4163810052, float64(resp.S[0][1]), 1e-4)
	assert.Equal(t, [][]int32{{0}, {100}, {1}}, resp.Flags)
	assert.Equal(t, 3, resp.Summary.Pairs)
	assert.Equal(t, 2, resp.Summary.Flagged)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.evaluations.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.metrics.pairs))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.flagged.WithLabelValues("singular")))

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "disloc_pairs_total 3")

	n, err := testutil.GatherAndCount(reg, "disloc_evaluation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEvaluateUnphysicalPatchReturnsFlags(t *testing.T) {
	s, _ := newTestServer(t)
	rec := post(t, s, `{
		"patches": [[0, 0, -500, -1000, -1000, 0, 45, 1, 1, 1], [0, 0, 5000, 10000, 5000, 0, 90, 1, 0, 0]],
		"observations": [[0, 500, 0]]
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		U       [][]*float64 `json:"u"`
		D       [][]*float64 `json:"d"`
		S       [][]*float64 `json:"s"`
		Flags   [][]int32    `json:"flags"`
		Summary struct {
			Unphysical int `json:"unphysical"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, [][]int32{{10, 0}}, resp.Flags)
	assert.Equal(t, 1, resp.Summary.Unphysical)
	require.Len(t, resp.U, 1)
	assert.Len(t, resp.U[0], 3)
	assert.Len(t, resp.D[0], 9)
	assert.Len(t, resp.S[0], 9)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.evaluations.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.evaluations.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.flagged.WithLabelValues("unphysical")))
}

func TestEvaluateElasticOverride(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"patches": [[0, 0, 5000, 10000, 5000, 0, 90, 1, 0, 0]], "observations": [[3000, 3000, 0]], "mu": 1e10}`
	rec := post(t, s, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// stress scales with μ at fixed ν
	assert.InDelta(t, 199106.4163810052/3, float64(resp.S[0][1]), 1e-4)

	rec = post(t, s, `{"patches": [[0, 0, 5000, 10000, 5000, 0, 90, 1, 0, 0]], "observations": [[0, 0, 0]], "nu": 0.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid elastic constants")
}

func TestEvaluateRejects(t *testing.T) {
	s, _ := newTestServer(t)
	cases := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{"malformed", `{"patches": `, http.StatusBadRequest, "malformed"},
		{"missing observations", `{"patches": [[0,0,1,1,1,0,90,1,0,0]]}`, http.StatusBadRequest, "Observations"},
		{"short patch row", `{"patches": [[0,0,1,1,1,0,90,1,0]], "observations": [[0,0,0]]}`, http.StatusBadRequest, "wrong input shape"},
		{"long station row", `{"patches": [[0,0,1,1,1,0,90,1,0,0]], "observations": [[0,0,0,0]]}`, http.StatusBadRequest, "wrong input shape"},
		{"too many pairs", `{"patches": [[0,0,1,1,1,0,90,1,0,0],[0,0,1,1,1,0,90,1,0,0]], "observations": [` +
			strings.TrimSuffix(strings.Repeat("[0,0,0],", 51), ",") + `]}`, http.StatusRequestEntityTooLarge, "pair limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, s, tc.body)
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.msg)
		})
	}
	assert.Equal(t, 4.0, testutil.ToFloat64(s.metrics.evaluations.WithLabelValues("bad_request")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.evaluations.WithLabelValues("too_large")))
}

func TestRunShutsDown(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.Server.Addr = "127.0.0.1:0"
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
