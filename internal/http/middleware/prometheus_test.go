package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convertapi/internal/apperr"
)

func newTestMiddleware(t *testing.T) (*PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	// fresh registry per test avoids duplicate registration
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)
	return m, reg
}

func TestPrometheusMiddleware(t *testing.T) {
	m, _ := newTestMiddleware(t)

	app := fiber.New()
	app.Use(m.Handler())

	app.Get("/formats", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Delete("/files/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/merge-pdfs", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})
	app.Post("/split-pdf", func(c *fiber.Ctx) error {
		return apperr.New(apperr.KindContent, "test", "not a pdf")
	})
	app.Get("/panic-ish", func(c *fiber.Ctx) error {
		return errors.New("plain")
	})

	for _, r := range []struct{ method, path string }{
		{"GET", "/formats"},
		{"DELETE", "/files/123"},
		{"DELETE", "/files/456"},
		{"POST", "/merge-pdfs"},
		{"POST", "/split-pdf"},
		{"GET", "/panic-ish"},
	} {
		_, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/formats", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("DELETE", "/files/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/merge-pdfs", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("POST", "/split-pdf", "422")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/panic-ish", "500")))

	assert.Equal(t, 5, testutil.CollectAndCount(m.requestDuration))
}

func TestPrometheusMiddleware_ExcludeMetrics(t *testing.T) {
	m, reg := newTestMiddleware(t)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}

func TestPrometheusMiddleware_ObserveConversion(t *testing.T) {
	m, _ := newTestMiddleware(t)

	m.ObserveConversion("docx", "converted")
	m.ObserveConversion("docx", "converted")
	m.ObserveConversion("rtf", "passthrough")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.conversions.WithLabelValues("docx", "converted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conversions.WithLabelValues("rtf", "passthrough")))
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}

func TestPrometheusMiddleware_LabelsSurviveBufferReuse(t *testing.T) {
	m, reg := newTestMiddleware(t)

	app := fiber.New()
	app.Use(m.Handler())
	app.Delete("/files/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/upload", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	for _, r := range []struct{ method, path string }{
		{"DELETE", "/files/1"},
		{"DELETE", "/files/2"},
		{"POST", "/upload"},
		{"POST", "/upload"},
	} {
		_, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
		require.NoError(t, err)
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)

	seen := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			seen[labels["method"]+" "+labels["path"]] += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"DELETE /files/:id": 2,
		"POST /upload":      2,
	}, seen)
}
