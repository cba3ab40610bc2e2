//go:build e2e && unix

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"
)

// FakeBackend serves canned suggestions and records with per-key delays so
// tests can force responses to arrive out of order
type FakeBackend struct {
	mu          sync.Mutex
	suggestions map[string][]string
	records     map[string]map[string]any
	delays      map[string]time.Duration
	requests    []string
	srv         *httptest.Server
}

// BackendOption configures a FakeBackend
type BackendOption func(*FakeBackend)

// WithSuggestions sets the list returned for a fragment
func WithSuggestions(fragment string, list ...string) BackendOption {
	return func(b *FakeBackend) { b.suggestions[fragment] = list }
}

// WithRecord sets the record returned for an identifier
func WithRecord(symbol, name string) BackendOption {
	return func(b *FakeBackend) {
		b.records[symbol] = map[string]any{
			"symbol":  symbol,
			"name":    name,
			"price":   "$100.00",
			"metrics": map[string]string{"Market Cap": "1.0t"},
		}
	}
}

// WithDelay holds the answer for a fragment or identifier
func WithDelay(key string, d time.Duration) BackendOption {
	return func(b *FakeBackend) { b.delays[key] = d }
}

// NewFakeBackend starts a backend; Close must be called
func NewFakeBackend(opts ...BackendOption) *FakeBackend {
	b := &FakeBackend{
		suggestions: map[string][]string{},
		records:     map[string]map[string]any{},
		delays:      map[string]time.Duration{},
	}
	for _, opt := range opts {
		opt(b)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/suggestions/{query}", func(w http.ResponseWriter, r *http.Request) {
		q := r.PathValue("query")
		b.wait(r.Context(), "suggest:"+q, q)
		list, ok := b.lookupSuggestions(q)
		if !ok {
			list = []string{}
		}
		writeJSON(w, http.StatusOK, list)
	})
	mux.HandleFunc("GET /api/stock/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		sym := r.PathValue("symbol")
		b.wait(r.Context(), "stock:"+sym, sym)
		rec, ok := b.lookupRecord(sym)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Stock not found"})
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})
	b.srv = httptest.NewServer(mux)
	return b
}

// URL is the backend base URL
func (b *FakeBackend) URL() string { return b.srv.URL }

// Close stops the server
func (b *FakeBackend) Close() { b.srv.Close() }

// Requests lists the requests seen so far as "suggest:AA" or "stock:AAPL"
func (b *FakeBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *FakeBackend) wait(ctx context.Context, request, key string) {
	b.mu.Lock()
	b.requests = append(b.requests, request)
	d := b.delays[key]
	b.mu.Unlock()

	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

func (b *FakeBackend) lookupSuggestions(q string) ([]string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list, ok := b.suggestions[q]
	return list, ok
}

func (b *FakeBackend) lookupRecord(sym string) (map[string]any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.records[sym]
	return rec, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var servingRe = regexp.MustCompile(`on (http://\S+)`)

// StartServe runs the bundled backend and returns its URL
func (tf *TUITestFramework) StartServe(args ...string) (string, func(), error) {
	tf.t.Helper()
	cmd := exec.Command(binPath, append([]string{"serve", "--listen", "127.0.0.1:0"}, args...)...)
	cmd.Env = tf.env()
	cmd.Dir = tf.Workspace()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", nil, err
	}
	if err := cmd.Start(); err != nil {
		return "", nil, err
	}
	stop := func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}

	found := make(chan string, 1)
	go func() {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			if m := servingRe.FindStringSubmatch(sc.Text()); m != nil {
				found <- m[1]
				break
			}
		}
		// keep draining so the server never blocks on stdout
		for sc.Scan() {
		}
	}()

	select {
	case url := <-found:
		return url, stop, nil
	case <-time.After(10 * time.Second):
		stop()
		return "", nil, fmt.Errorf("serve did not report its address")
	}
}

// Run executes a one-shot command with the driver's environment
func (tf *TUITestFramework) Run(args ...string) (string, error) {
	tf.t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = append(tf.env(), "STOCKSEARCH_LOG_LEVEL=error")
	cmd.Dir = tf.Workspace()
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
