package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetTranslatesStatusCodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("payload"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/challenge":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("<html>Just a moment... cloudflare</html>"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := HTTPClient(5 * time.Second)
	ctx := context.Background()

	body, _, err := Get(ctx, client, server.URL+"/ok", "test-agent", nil)
	if err != nil || string(body) != "payload" {
		t.Fatalf("ok request: body=%q err=%v", body, err)
	}

	if _, _, err := Get(ctx, client, server.URL+"/missing", "", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := Get(ctx, client, server.URL+"/challenge", "", nil); !errors.Is(err, ErrChallenge) {
		t.Fatalf("expected ErrChallenge, got %v", err)
	}
	if _, _, err := Get(ctx, client, server.URL+"/boom", "", nil); err == nil {
		t.Fatal("expected error for 500")
	}
}

func TestGetSendsHeaders(t *testing.T) {
	var gotAgent, gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
	}))
	defer server.Close()

	_, _, err := Get(context.Background(), HTTPClient(0), server.URL, "agent/1.0", map[string]string{"Cookie": "cf_clearance=x"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAgent != "agent/1.0" || gotCookie != "cf_clearance=x" {
		t.Fatalf("headers not sent: agent=%q cookie=%q", gotAgent, gotCookie)
	}
}

func TestParseRawHeaders(t *testing.T) {
	raw := "# saved from browser\nUser-Agent: Mozilla/5.0\nCookie: cf_clearance=abc; other=1\n\nbroken line\n"
	headers := ParseRawHeaders(raw)
	if headers["User-Agent"] != "Mozilla/5.0" {
		t.Fatalf("User-Agent = %q", headers["User-Agent"])
	}
	if headers["Cookie"] != "cf_clearance=abc; other=1" {
		t.Fatalf("Cookie = %q", headers["Cookie"])
	}
	if len(headers) != 2 {
		t.Fatalf("unexpected headers: %v", headers)
	}
}

func TestValidDownload(t *testing.T) {
	if ValidDownload(make([]byte, 10)) {
		t.Fatal("tiny payloads are not valid downloads")
	}
	if !ValidDownload(make([]byte, 200)) {
		t.Fatal("expected 200 bytes to be valid")
	}
}
