package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPLoader_Load(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div id="infos">15/03/2024 14:32:10</div></body></html>`))
	}))
	defer srv.Close()

	loader := NewHTTPLoader(5 * time.Second)
	page, err := loader.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("expected default user agent, got %q", gotUA)
	}
	if got := InnerText(page.Find("#infos")); got != "15/03/2024 14:32:10" {
		t.Errorf("unexpected infos text %q", got)
	}
}

func TestHTTPLoader_DecodesLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Código" in ISO-8859-1
		_, _ = w.Write([]byte("<html><body><span class=\"RCod\">C\xf3digo: 1</span></body></html>"))
	}))
	defer srv.Close()

	page, err := NewHTTPLoader(5*time.Second).Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := InnerText(page.Find(".RCod")); got != "Código: 1" {
		t.Errorf("expected decoded text, got %q", got)
	}
}

func TestHTTPLoader_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPLoader(5*time.Second).Load(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestHTTPLoader_InvalidURL(t *testing.T) {
	if _, err := NewHTTPLoader(time.Second).Load(context.Background(), "://bad"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}
