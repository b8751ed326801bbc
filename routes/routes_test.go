package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"posts-app/controllers"
	"posts-app/db"
	"posts-app/middlewares"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	conn, err := db.Open(context.Background(), db.Config{DBURL: ":memory:", Driver: "sqlite3"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })
	if err := db.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return SetupRoutes(Config{
		BearerToken: "s3cret",
		Cors: &middlewares.CorsConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		RateLimiter: middlewares.NewRateLimiter(100, time.Minute),
	}, &controllers.PostsHandler{DB: conn})
}

func TestSetupRoutes(t *testing.T) {
	handler := newTestHandler(t)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		origin string
		want   int
	}{
		{"health needs no token", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"root needs no token", http.MethodGet, "/", "", "", http.StatusOK},
		{"posts require the token", http.MethodGet, "/posts", "", "", http.StatusUnauthorized},
		{"posts with the token", http.MethodGet, "/posts", "s3cret", "", http.StatusOK},
		{"preflight on an item", http.MethodOptions, "/posts/1", "", "http://localhost:3000", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			if res.Code != tc.want {
				t.Errorf("got status %d, want %d", res.Code, tc.want)
			}
		})
	}
}
