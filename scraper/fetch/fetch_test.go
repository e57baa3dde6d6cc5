package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPFetcherReturnsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("request should carry a browser user agent")
		}
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer ts.Close()

	f := NewHTTP(5 * time.Second)
	body, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "<html><body>ok</body></html>" {
		t.Errorf("body: got %q", body)
	}
}

func TestHTTPFetcherRejectsNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	f := NewHTTP(5 * time.Second)
	if _, err := f.Fetch(context.Background(), ts.URL); err == nil {
		t.Error("non-2xx status must be an error")
	}
}

func TestHTTPFetcherHonoursTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	f := NewHTTP(50 * time.Millisecond)
	if _, err := f.Fetch(context.Background(), ts.URL); err == nil {
		t.Error("slow upstream must trip the fixed timeout")
	}
}

func TestHTTPFetcherContextCancellation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTP(5 * time.Second)
	if _, err := f.Fetch(ctx, ts.URL); err == nil {
		t.Error("cancelled context must abort the fetch")
	}
}
