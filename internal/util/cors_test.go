package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithCORS(t *testing.T) {
	tests := []struct {
		name        string
		opts        CORSOptions
		method      string
		origin      string
		preflight   bool
		wantOrigin  string
		wantHandler bool
		wantVary    bool
	}{
		{name: "any origin", method: http.MethodGet, origin: "https://a.test", wantOrigin: "*", wantHandler: true},
		{name: "no origin header", method: http.MethodGet, wantHandler: true},
		{name: "listed origin", opts: CORSOptions{AllowedOrigins: []string{"https://app.test/"}}, method: http.MethodGet, origin: "https://app.test", wantOrigin: "https://app.test", wantHandler: true, wantVary: true},
		{name: "unlisted origin", opts: CORSOptions{AllowedOrigins: []string{"https://app.test"}}, method: http.MethodGet, origin: "https://evil.test", wantHandler: true, wantVary: true},
		{name: "preflight", method: http.MethodOptions, origin: "https://a.test", preflight: true, wantOrigin: "*"},
		{name: "plain options reaches mux", method: http.MethodOptions, origin: "https://a.test", wantOrigin: "*", wantHandler: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := WithCORS(tc.opts, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(tc.method, "/api/decks", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if called != tc.wantHandler {
				t.Fatalf("handler called = %v, want %v", called, tc.wantHandler)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("Allow-Origin = %q, want %q", got, tc.wantOrigin)
			}
			if got := rec.Header().Get("Vary") == "Origin"; got != tc.wantVary {
				t.Fatalf("Vary Origin = %v, want %v", got, tc.wantVary)
			}
			if tc.preflight {
				if rec.Code != http.StatusNoContent {
					t.Fatalf("preflight status = %d", rec.Code)
				}
				if rec.Header().Get("Access-Control-Max-Age") != "600" {
					t.Fatalf("Max-Age = %q", rec.Header().Get("Access-Control-Max-Age"))
				}
			}
		})
	}
}

func TestWithRequestLogRecordsStatus(t *testing.T) {
	h := WithRequestID(WithRequestLog("test", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
}
