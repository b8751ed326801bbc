package routes

import (
	"net/http"
	"posts-app/controllers"
	"posts-app/middlewares"

	"github.com/gorilla/mux"
)

// Config holds what the API router needs beyond the posts handler.
type Config struct {
	// BearerToken enables the API key check when non-empty.
	BearerToken string
	Cors        *middlewares.CorsConfig
	RateLimiter *middlewares.RateLimiter
}

// SetupRoutes sets up the application routes and middlewares.
func SetupRoutes(config Config, posts *controllers.PostsHandler) http.Handler {
	router := mux.NewRouter()
	controllers.SetupRootRoute(router, posts.DB)

	protectedRouter := router.PathPrefix("/").Subrouter()
	if config.BearerToken != "" {
		protectedRouter.Use(middlewares.ValidateBearerToken(config.BearerToken))
	}

	posts.SetupPostRoutes(protectedRouter)

	// Global middlewares wrap the router itself so they also see requests
	// that match no route, such as CORS preflights.
	var handler http.Handler = router
	if config.RateLimiter != nil {
		handler = config.RateLimiter.Limit(handler)
	}
	if config.Cors != nil {
		handler = middlewares.CorsMiddleware(config.Cors)(handler)
	}
	return middlewares.LoggingMiddleware(handler)
}
