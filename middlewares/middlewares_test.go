package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func assertStatus(t testing.TB, got, want int) {
	t.Helper()

	if got != want {
		t.Errorf("did not get correct status, got %d but want %d", got, want)
	}
}

func TestValidateBearerToken(t *testing.T) {
	handler := ValidateBearerToken("s3cret")(okHandler)

	cases := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"valid token", http.MethodGet, "Bearer s3cret", http.StatusOK},
		{"missing header", http.MethodGet, "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodGet, "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", http.MethodGet, "Bearer nope", http.StatusUnauthorized},
		{"preflight passes", http.MethodOptions, "", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/posts", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			assertStatus(t, res.Code, tc.want)
		})
	}
}

func TestCorsMiddleware(t *testing.T) {
	handler := CorsMiddleware(&CorsConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	})(okHandler)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		assertStatus(t, res.Code, http.StatusOK)
		if got := res.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("got allow origin %q", got)
		}
		if got := res.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
			t.Errorf("got allow methods %q", got)
		}
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.Header.Set("Origin", "http://evil.example")
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		if got := res.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no allow origin, got %q", got)
		}
	})
}

func TestLoadCorsConfig(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	cfg := LoadCorsConfig()
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }
	handler := rl.Limit(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/posts", nil)
		req.RemoteAddr = ip + ":1234"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		return res.Code
	}

	assertStatus(t, send("10.0.0.1"), http.StatusOK)
	assertStatus(t, send("10.0.0.1"), http.StatusOK)
	assertStatus(t, send("10.0.0.1"), http.StatusTooManyRequests)
	assertStatus(t, send("10.0.0.2"), http.StatusOK)

	now = now.Add(time.Minute)
	assertStatus(t, send("10.0.0.1"), http.StatusOK)

	now = now.Add(2 * time.Minute)
	rl.evictExpired()
	if len(rl.clients) != 0 {
		t.Errorf("expected expired windows to be evicted, %d left", len(rl.clients))
	}
}

func TestRespondJSON(t *testing.T) {
	res := httptest.NewRecorder()
	RespondJSON(res, map[string]string{"status": "ok"}, http.StatusCreated)

	assertStatus(t, res.Code, http.StatusCreated)
	if got := res.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("got content type %q", got)
	}
	if got := res.Body.String(); got != "{\"status\":\"ok\"}\n" {
		t.Errorf("got body %q", got)
	}
}
