package controllers

import (
	"database/sql"
	"log"
	"net/http"
	"posts-app/middlewares"
	"time"

	"github.com/gorilla/mux"
)

// rootHandler handles requests to the root path
func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte("Welcome to the posts API!")); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

func healthHandler(conn *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		if err := conn.PingContext(r.Context()); err != nil {
			log.Printf("health check: database unreachable: %v", err)
			status["status"] = "database unreachable"
			middlewares.RespondJSON(w, status, http.StatusServiceUnavailable)
			return
		}
		middlewares.RespondJSON(w, status, http.StatusOK)
	}
}

// SetupRootRoute registers the welcome and health check routes.
func SetupRootRoute(router *mux.Router, conn *sql.DB) {
	router.HandleFunc("/", rootHandler).Methods("GET")
	router.HandleFunc("/healthz", healthHandler(conn)).Methods("GET")
}
