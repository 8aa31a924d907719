package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/synvoy/backend/internal/config"
	"github.com/synvoy/backend/internal/handler"
	"github.com/synvoy/backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication and account-lifecycle routes.
// The credential endpoints under /v1/auth are rate limited; token-redeeming
// endpoints stay public because the opaque token is the credential.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, acct *handler.AccountHandler,
	rl config.RateLimitConfig, rdb *redis.Client, jwtSecret string) {

	g := e.Group("/v1/auth")
	g.Use(middleware.NewTokenBucket(rl, rdb))
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/verify", a.Verify)
	e.POST("/v1/account/cancel-deletion", acct.CancelDeletion)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.POST("/auth/verify/request", a.RequestVerification)
	auth.DELETE("/account", acct.Delete)
}

// RegisterAPI registers the protected application routes: connections,
// messaging and trip planning. All of them require a valid access token.
func RegisterAPI(e *echo.Echo, cn *handler.ConnectionHandler, m *handler.MessageHandler,
	t *handler.TripHandler, jwtSecret string) {

	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))

	api.POST("/connections", cn.Request)
	api.GET("/connections", cn.List)
	api.PATCH("/connections/:id", cn.Respond)
	api.DELETE("/connections/:id", cn.Remove)

	api.POST("/messages", m.Send)
	api.GET("/messages/:peer_id", m.Conversation)
	api.POST("/messages/:peer_id/read", m.MarkRead)

	api.POST("/trips", t.Create)
	api.GET("/trips", t.List)
	api.GET("/trips/:id", t.Get)
	api.PUT("/trips/:id", t.Update)
	api.DELETE("/trips/:id", t.Delete)
	api.POST("/trips/:id/participants", t.AddParticipant)
	api.DELETE("/trips/:id/participants/:user_id", t.RemoveParticipant)
	api.POST("/trips/:id/destinations", t.AddDestination)
	api.GET("/trips/:id/destinations", t.ListDestinations)
	api.DELETE("/trips/:id/destinations/:dest_id", t.DeleteDestination)
}

// RegisterContact registers the public contact-form relay.
func RegisterContact(e *echo.Echo, ct *handler.ContactHandler) {
	e.POST("/v1/contact", ct.Submit)
}
