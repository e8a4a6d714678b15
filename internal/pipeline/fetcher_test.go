package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trustlens/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	cfg := model.DefaultConfig().HTTP
	cfg.RespectRobots = false
	cfg.RequestsPerSecond = 1000
	return cfg
}

func TestFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><body>OK</body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.HTML != "<html><body>OK</body></html>" {
		t.Errorf("Unexpected HTML: %s", result.HTML)
	}
	if result.Domain != "127.0.0.1" {
		t.Errorf("Expected test server host as domain, got %q", result.Domain)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", result.StatusCode)
	}
}

func TestFetcher_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig(), nil)
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
}

func TestFetcher_BodySizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 5000))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 1000

	fetcher := NewFetcher(cfg, nil)
	result, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.HTML) != 1000 {
		t.Errorf("Expected body truncated to 1000 bytes, got %d", len(result.HTML))
	}
}

func TestFetcher_RobotsDisallowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html>page</html>")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.RespectRobots = true

	fetcher := NewFetcher(cfg, nil)

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/private/page"); !errors.Is(err, ErrRobotsDisallowed) {
		t.Errorf("Expected ErrRobotsDisallowed, got %v", err)
	}

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/public/page"); err != nil {
		t.Errorf("Expected allowed path to fetch, got %v", err)
	}
}

func TestFetcher_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = fmt.Fprint(w, "ok page content")
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.UserAgent = "trustlens-test/1.0"

	fetcher := NewFetcher(cfg, nil)
	if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if gotUA != "trustlens-test/1.0" {
		t.Errorf("Expected configured User-Agent, got %q", gotUA)
	}
}
