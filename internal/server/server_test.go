package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksearch/internal/backend"
	"stocksearch/internal/domain"
	"stocksearch/internal/logging"
	"stocksearch/internal/market"
	"stocksearch/internal/trie"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	dir, err := market.Load("", 0, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(New(dir, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestSuggestions(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "AA", want: []string{"AA", "AAPL", "AAL", "AAON", "AAT"}},
		{query: "ms", want: []string{"MS", "MSFT", "MSCI"}},
		{query: "QQQQ", want: []string{}},
		{query: "A1", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, srv.URL+"/api/suggestions/"+tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var got []string
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStock(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/stock/aapl")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec, err := domain.ParseDetailRecord(body)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", rec.Symbol())
	assert.Equal(t, "Apple Inc.", rec.Get("name").String())
	assert.Equal(t, "$189.84", rec.Get("price").String())

	resp, body = get(t, srv.URL+"/api/stock/ZZZZ")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Stock not found"}`, string(body))
}

func TestLegacyRoutes(t *testing.T) {
	srv := newTestServer(t)

	t.Run("search", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/search?prefix=msf")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[["MSFT",3090000000000]]`, string(body))

		resp, body = get(t, srv.URL+"/search")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, string(body))

		resp, _ = get(t, srv.URL+"/search?prefix=A.B")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("companyinfo", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/companyinfo?ticker=MSFT")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var info map[string]string
		require.NoError(t, json.Unmarshal(body, &info))
		assert.Equal(t, "Microsoft Corporation", info["Name"])
		assert.Equal(t, "35.96%", info["Profit Margin"])
		assert.Equal(t, market.NotAvailable, info["EBITDA"])

		resp, body = get(t, srv.URL+"/companyinfo")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Ticker symbol required"}`, string(body))

		resp, body = get(t, srv.URL+"/companyinfo?ticker=NOPE")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Company not found"}`, string(body))
	})

	t.Run("dividends", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/dividends?ticker=AAPL")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[["2024-02-09",0.24],["2024-05-10",0.25]]`, string(body))

		_, body = get(t, srv.URL+"/dividends?ticker=NOPE")
		assert.JSONEq(t, `[]`, string(body))

		resp, _ = get(t, srv.URL+"/dividends")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("graphs", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/graphs?ticker=MSFT")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[
			[2022, 198270000000, 97840000000, 65150000000, 7500000000, 72740000000, 9.65, null, null, null],
			[2023, 211920000000, 105140000000, 59480000000, 9610000000, 72360000000, 9.68, null, null, null]
		]`, string(body))

		_, body = get(t, srv.URL+"/graphs?ticker=NOPE")
		assert.JSONEq(t, `[]`, string(body))

		resp, body = get(t, srv.URL+"/graphs")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Ticker symbol required"}`, string(body))
	})

	t.Run("stockprice", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/stockprice?ticker=MSFT")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{
			"dates": ["2024-01", "2024-02"],
			"prices": [397.58, 413.64],
			"volume": [528399000, 460436000],
			"high": [415.32, 420.82],
			"low": [366.5, 397.22],
			"open": [373.86, 401.83]
		}`, string(body))

		resp, body = get(t, srv.URL+"/stockprice?ticker=NOPE")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Stock not found"}`, string(body))

		resp, body = get(t, srv.URL+"/stockprice")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Ticker symbol required"}`, string(body))
	})
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := get(t, srv.URL+"/healthz")
	assert.True(t, logging.ValidRequestID(resp.Header.Get(logging.RequestIDHeader)))

	id := logging.NewRequestID()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(logging.RequestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(logging.RequestIDHeader))
}

type panicDirectory struct{}

func (panicDirectory) Search(string) ([]trie.Match, error) { panic("boom") }
func (panicDirectory) Suggest(string) ([]string, error) { panic("boom") }
func (panicDirectory) Lookup(string) (domain.Company, error) { panic("boom") }

func TestRecoversFromPanics(t *testing.T) {
	srv := httptest.NewServer(New(panicDirectory{}).Handler())
	defer srv.Close()

	resp, body := get(t, srv.URL+"/api/stock/AAPL")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"internal error"}`, string(body))
}

func TestClientAgainstServer(t *testing.T) {
	srv := newTestServer(t)
	client, err := backend.NewClient(srv.URL)
	require.NoError(t, err)

	suggestions, err := client.Suggest(context.Background(), "AM")
	require.NoError(t, err)
	assert.Equal(t, []string{"AMZN", "AMD"}, suggestions)

	rec, err := client.Resolve(context.Background(), "AMZN")
	require.NoError(t, err)
	assert.Equal(t, "AMZN", rec.Symbol())

	_, err = client.Resolve(context.Background(), "NOPE")
	assert.ErrorIs(t, err, backend.ErrStatus)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	dir, err := market.Load("", 0, zerolog.Nop())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(dir).Serve(ctx, ln) }()

	resp, _ := get(t, "http://"+ln.Addr().String()+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLatencyHonoursCancellation(t *testing.T) {
	srv := newTestServer(t, WithLatency(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/suggestions/AA", nil)
	require.NoError(t, err)

	_, err = http.DefaultClient.Do(req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
