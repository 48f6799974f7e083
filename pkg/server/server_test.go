package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/chartcsv/pkg/config"
	"github.com/ccollicutt/chartcsv/pkg/csvload"
	"github.com/ccollicutt/chartcsv/pkg/datasets"
	"github.com/ccollicutt/chartcsv/pkg/metrics"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T, overrides map[string]string) (*Server, string) {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, dir, "Ex5/Ex5_ARE_Spot_Prices_cleaned.csv",
		"Year,Average Price (notTas-Snowy)\n2021,48.2\n2020,50.5\n2019,abc\n")
	writeFile(t, dir, "Ex5/Ex5_TV_energy_55inchtv_byScreenType.csv",
		"Screen_Tech,\"Mean(Labelled energy consumption (kWh/year))\"\nLED,221.3\nOLED,294.8\n")
	writeFile(t, dir, "Ex5/Ex5_TV_energy_Allsizes_byScreenType.csv",
		"Screen_Tech,Other\nLED,1\n")
	writeFile(t, dir, "Ex5/Ex5_TV_energy.csv", "brand\n")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	loader := csvload.New(csvload.NewFileFetcher(dir),
		csvload.WithLogger(logger),
		csvload.WithObserver(metrics.New(reg)))

	catalog, err := datasets.NewCatalog(overrides)
	require.NoError(t, err)

	return New(config.DefaultConfig().Server, loader, catalog, logger, reg), dir
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListDatasets(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/datasets")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []datasets.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.Equal(t, datasets.Scatter, list[0].Name)
}

func TestDataset_Line(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/datasets/line")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"date":"2020-01-01T00:00:00Z","price":50.5},
		{"date":"2021-01-01T00:00:00Z","price":48.2}
	]`, rec.Body.String())
}

func TestDataset_Bar(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/datasets/bar")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"screenType":"LED","energyConsumption":221.3},
		{"screenType":"OLED","energyConsumption":294.8}
	]`, rec.Body.String())
}

func TestDataset_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		overrides map[string]string
		status    int
		kind      string
		message   string
	}{
		{
			name:    "missing columns",
			path:    "/api/datasets/donut",
			status:  http.StatusUnprocessableEntity,
			kind:    "missing_columns",
			message: "Mean(Labelled energy consumption (kWh/year))",
		},
		{
			name:    "insufficient data",
			path:    "/api/datasets/scatter",
			status:  http.StatusUnprocessableEntity,
			kind:    "insufficient_data",
			message: "insufficient data",
		},
		{
			name:      "fetch",
			path:      "/api/datasets/line",
			overrides: map[string]string{datasets.Line: "nope.csv"},
			status:    http.StatusBadGateway,
			kind:      "fetch",
			message:   "nope.csv (404 Not Found)",
		},
		{
			name:   "unknown dataset",
			path:   "/api/datasets/pie",
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, tt.overrides)

			rec := get(t, s, tt.path)
			assert.Equal(t, tt.status, rec.Code)

			resp := decodeError(t, rec)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.NotEmpty(t, resp.Error)
			assert.Contains(t, resp.Error, tt.message)
		})
	}
}

func TestDataset_EmptyResult(t *testing.T) {
	s, dir := newTestServer(t, nil)
	writeFile(t, dir, "Ex5/Ex5_ARE_Spot_Prices_cleaned.csv", "Year,Average Price (notTas-Snowy)\nx,y\n")

	rec := get(t, s, "/api/datasets/line")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "empty_result", decodeError(t, rec).Kind)
}

func TestDatasetStats(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s, "/api/datasets/bar/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var cols []struct {
		Name    string `json:"name"`
		Kind    string `json:"kind"`
		Numeric *struct {
			Max float64 `json:"max"`
		} `json:"numeric"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cols))
	require.Len(t, cols, 2)
	assert.Equal(t, "categorical", cols[0].Kind)
	require.NotNil(t, cols[1].Numeric)
	assert.Equal(t, 294.8, cols[1].Numeric.Max)
}

func TestDataset_NonFiniteCellsAreDropped(t *testing.T) {
	s, dir := newTestServer(t, nil)
	writeFile(t, dir, "Ex5/Ex5_TV_energy_Allsizes_byScreenType.csv",
		"Screen_Tech,Mean(Labelled energy consumption (kWh/year))\nLCD,270.1\nLED,inf\nOLED,-Infinity\n")

	rec := get(t, s, "/api/datasets/donut")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"screenType":"LCD","energyConsumption":270.1}]`, rec.Body.String())
}

func TestDatasetStats_NonFiniteCells(t *testing.T) {
	s, dir := newTestServer(t, nil)
	writeFile(t, dir, "Ex5/Ex5_ARE_Spot_Prices_cleaned.csv",
		"Year,Average Price (notTas-Snowy)\n2020,50.5\n2021,NaN\n")

	rec := get(t, s, "/api/datasets/line")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"date":"2020-01-01T00:00:00Z","price":50.5}]`, rec.Body.String())

	rec = get(t, s, "/api/datasets/line/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var cols []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cols))
	require.Len(t, cols, 2)
	assert.Equal(t, "numeric", cols[0].Kind)
	assert.Equal(t, "categorical", cols[1].Kind)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)

	get(t, s, "/api/datasets/line")
	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chartcsv_loads_total")
	assert.True(t, strings.Contains(rec.Body.String(), `reason="filtered"`))
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, nil)
	s.cfg.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
