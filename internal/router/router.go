package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/studyspot/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Location *apiHandler.LocationHandler
	Session  *apiHandler.SessionHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/signup", handlers.Auth.Signup)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Public map/browsing routes
	r.GET("/api/v1/locations", handlers.Location.List)
	r.GET("/api/v1/locations/{id}/reports", handlers.Location.Reports)
	r.GET("/api/v1/statuses", handlers.Location.Statuses)

	// Session-bound prompt flow
	r.GET("/api/v1/session", authMiddleware(handlers.Session.Snapshot))
	r.POST("/api/v1/session/location", authMiddleware(handlers.Session.UpdateLocation))
	r.POST("/api/v1/session/report", authMiddleware(handlers.Session.SubmitReport))

	return r
}
