package api

import (
	"github.com/gin-gonic/gin"

	"github.com/castelan/accountd/src/accountd/guard"
)

// RegisterRoutes configures all API routes on the given router.
// Every request first passes through guard.Authenticate, which resolves the
// caller's principal without rejecting anyone; access decisions happen per
// route through the registry.
func (a *API) RegisterRoutes(router *gin.Engine) {
	router.Use(guard.Authenticate(a.tokens))

	// Root endpoint - API discovery
	router.GET("/", a.handleRoot)

	// Account lifecycle (public)
	router.POST("/signup", a.Accounts.HandleSignup)
	router.POST("/login", a.Accounts.HandleLogin)

	v1 := router.Group("/v1")
	{
		v1.GET("/health", a.handleHealth)
		v1.GET("/version", a.handleVersion)

		// Current account (any authenticated caller)
		me := v1.Group("/me")
		me.Use(guard.AuthRequired())
		{
			me.GET("", a.Accounts.HandleMe)
		}

		// Administrative account listings
		users := v1.Group("/users")
		{
			users.GET("/stats", a.registry.Enforce("users.stats", "users"), a.Accounts.HandleUserStats)
			users.GET("", a.registry.Enforce("users.list", "users"), a.Accounts.HandleListUsers)
			users.GET("/:id", a.registry.Enforce("users.get", "users"), a.Accounts.HandleGetUser)
		}
	}
}
