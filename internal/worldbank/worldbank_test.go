package worldbank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huangsam/marketscope/internal/resilience"
	"github.com/huangsam/marketscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := resilience.NewClientWithHTTP(srv.Client(), resilience.RetryConfig{MaxAttempts: 1})
	return NewClient(hc, srv.URL+"/")
}

func ptr(v float64) *float64 { return &v }

func indicatorPage(value string) string {
	return fmt.Sprintf(`[{"page":1,"pages":1,"per_page":1,"total":1},[{"indicator":{"id":"X"},"value":%s,"date":"2024"}]]`, value)
}

func TestGetIndicatorSeries(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		want    *float64
		wantErr bool
	}{
		{"latest value", indicatorPage("1234.5"), http.StatusOK, ptr(1234.5), false},
		{"null value", indicatorPage("null"), http.StatusOK, nil, false},
		{"empty rows", `[{"page":1},[]]`, http.StatusOK, nil, false},
		{"error payload", `[{"message":[{"id":"120","value":"Invalid value"}]}]`, http.StatusOK, nil, false},
		{"null rows", `[{"page":0},null]`, http.StatusOK, nil, false},
		{"server error", `oops`, http.StatusNotFound, nil, true},
		{"malformed body", `{"not":"an array"}`, http.StatusOK, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotQuery string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := client.GetIndicatorSeries(context.Background(), "TR", schema.ImportsIndicator)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "/country/TR/indicator/NE.IMP.GNFS.CD", gotPath)
			assert.Equal(t, "format=json&per_page=1", gotQuery)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetMacroData(t *testing.T) {
	t.Run("all parts", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/country/TR/indicator/" + schema.GDPIndicator:
				_, _ = w.Write([]byte(indicatorPage("1.1e12")))
			case "/country/TR/indicator/" + schema.PopulationIndicator:
				_, _ = w.Write([]byte(indicatorPage("85000000")))
			case "/country/TR":
				_, _ = w.Write([]byte(`[{"page":1},[{"id":"TUR","latitude":"39.7153","longitude":"32.3606"}]]`))
			default:
				http.NotFound(w, r)
			}
		})

		data, err := client.GetMacroData(context.Background(), "TR")
		require.NoError(t, err)
		require.NotNil(t, data.GDP)
		assert.InDelta(t, 1.1e12, *data.GDP, 1)
		require.NotNil(t, data.Population)
		assert.InDelta(t, 85e6, *data.Population, 1)
		require.NotNil(t, data.Lat)
		assert.InDelta(t, 39.7153, *data.Lat, 1e-9)
		require.NotNil(t, data.Lng)
		assert.InDelta(t, 32.3606, *data.Lng, 1e-9)
	})

	t.Run("partial failure keeps the rest", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/country/TR/indicator/"+schema.GDPIndicator {
				_, _ = w.Write([]byte(indicatorPage("500")))
				return
			}
			http.Error(w, "bad", http.StatusBadRequest)
		})

		data, err := client.GetMacroData(context.Background(), "TR")
		require.NoError(t, err)
		require.NotNil(t, data.GDP)
		assert.Nil(t, data.Population)
		assert.Nil(t, data.Lat)
		assert.Nil(t, data.Lng)
	})

	t.Run("blank coordinates are absent", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/country/XK" {
				_, _ = w.Write([]byte(`[{"page":1},[{"latitude":"","longitude":"n/a"}]]`))
				return
			}
			_, _ = w.Write([]byte(indicatorPage("null")))
		})

		data, err := client.GetMacroData(context.Background(), "XK")
		require.NoError(t, err)
		assert.Nil(t, data.Lat)
		assert.Nil(t, data.Lng)
		assert.Nil(t, data.GDP)
	})

	t.Run("every part failed", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad", http.StatusBadRequest)
		})

		_, err := client.GetMacroData(context.Background(), "TR")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoData))
	})
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(nil, "")
	assert.Equal(t, "https://api.worldbank.org/v2", c.baseURL)
}

func TestParseCoordinate(t *testing.T) {
	assert.Nil(t, parseCoordinate(""))
	assert.Nil(t, parseCoordinate("abc"))
	require.NotNil(t, parseCoordinate(" -12.5 "))
	assert.Equal(t, -12.5, *parseCoordinate("-12.5"))
}
