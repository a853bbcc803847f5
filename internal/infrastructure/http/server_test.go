package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrops-br/product-catalog-api/internal/app/dto"
	"github.com/mrops-br/product-catalog-api/internal/app/mapper"
	"github.com/mrops-br/product-catalog-api/internal/app/service"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/product-catalog-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		OTLP:    config.OTLPConfig{ServiceName: "products-api-test", Environment: "test"},
		Metrics: config.MetricsConfig{DurationMilliseconds: true},
	}

	telem, err := telemetry.NewNoOpTelemetry(&cfg.OTLP, nil)
	require.NoError(t, err)

	tracer := telem.TracerProvider.Tracer("test")
	meter := telem.MeterProvider.Meter("test")

	repo := memory.NewProductRepository(tracer, telem.Logger)
	svc := service.NewProductService(repo, mapper.New(), tracer, meter, telem.Logger)
	srv := NewServer(cfg, handler.NewProductHandler(svc, telem.Logger), telem)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = telem.Shutdown(context.Background())
	})
	return ts
}

func send(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestServer_ProductLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// create
	resp := send(t, http.MethodPost, ts.URL+"/products", `{"name":"Widget","description":"A widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.CreatedProductResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	productURL := ts.URL + "/products/" + created.ID.String()

	// read
	resp = send(t, http.MethodGet, productURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var info dto.InfoProductDto
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, created.ID, info.ID)
	assert.Equal(t, "Widget", info.Name)
	assert.Equal(t, "A widget", info.Description)
	assert.Equal(t, "9.99", info.Price.String())

	// update
	resp = send(t, http.MethodPut, productURL, `{"name":"NewName","description":"NewDesc","price":"1.00"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = send(t, http.MethodGet, productURL, "")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "NewName", info.Name)
	assert.Equal(t, "1", info.Price.String())

	// list
	resp = send(t, http.MethodGet, ts.URL+"/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []dto.InfoProductDto
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// delete twice
	resp = send(t, http.MethodDelete, productURL, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = send(t, http.MethodDelete, productURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = send(t, http.MethodGet, productURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_EmptyList(t *testing.T) {
	ts := newTestServer(t)

	resp := send(t, http.MethodGet, ts.URL+"/products", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp := send(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	send(t, http.MethodGet, ts.URL+"/products", "")

	resp = send(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "products_operations")
	assert.Contains(t, string(body), "products_stored")
}

func TestServer_RequestDurationUsesRoutePattern(t *testing.T) {
	ts := newTestServer(t)

	id := "3ecb77f7-0114-47a7-ada7-3ec685d202a7"
	resp := send(t, http.MethodGet, ts.URL+"/products/"+id, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = send(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var durationSeries []string
	for _, line := range strings.Split(string(body), "\n") {
		if strings.HasPrefix(line, "http_server_request_duration_seconds_count{") {
			durationSeries = append(durationSeries, line)
		}
	}
	require.NotEmpty(t, durationSeries)

	var tagged bool
	for _, line := range durationSeries {
		assert.NotContains(t, line, id)
		if strings.Contains(line, `http_route="/products/{id}"`) {
			tagged = true
		}
	}
	assert.True(t, tagged, "no duration series labelled with the route pattern: %v", durationSeries)
}
