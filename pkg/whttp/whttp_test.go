package whttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch_TitleAndHeaders(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><head><title>  Night\nOps  </title></head><body>hi</body></html>"))
	}))
	defer srv.Close()

	res, err := Fetch(NewClient(Options{Timeout: 5 * time.Second}), srv.URL, "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.Title != "NightOps" {
		t.Fatalf("expected trimmed title, got %q", res.Title)
	}
	if gotUA != DefaultUserAgent {
		t.Fatalf("expected default user agent, got %q", gotUA)
	}
	if res.IsJSON {
		t.Fatalf("HTML body must not be flagged as JSON")
	}
}

func TestFetch_JSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"urls": ["https://a.com/app.js"]}`))
	}))
	defer srv.Close()

	res, err := Fetch(NewClient(Options{}), srv.URL, "scanner/2.0")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !res.IsJSON {
		t.Fatalf("expected JSON body detection")
	}
	if res.Title != "" {
		t.Fatalf("expected no title for JSON body, got %q", res.Title)
	}
}

func TestFetch_NonOKStatusReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("not found"))
	}))
	defer srv.Close()

	res, err := Fetch(NewClient(Options{}), srv.URL, "")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.StatusCode != 404 || res.Body != "not found" {
		t.Fatalf("expected body passthrough on 404, got %d %q", res.StatusCode, res.Body)
	}
}
