package handlers

import "github.com/gin-gonic/gin"

// RegisterPublic registers the routes that need no authentication.
func RegisterPublic(r gin.IRoutes, uh *UserHandler, ah *AuthHandler) {
	r.POST("/users/", uh.Create)
	r.GET("/users/", uh.List)
	r.POST("/auth/token", ah.Token)
}

// RegisterProtected registers the routes that run behind the bearer
// middleware; r is expected to carry it already.
func RegisterProtected(r gin.IRoutes, uh *UserHandler, ah *AuthHandler, th *TodoHandler) {
	r.PUT("/users/:id", uh.Update)
	r.DELETE("/users/:id", uh.Delete)
	r.POST("/auth/refresh_token", ah.Refresh)

	r.POST("/todos", th.Create)
	r.GET("/todos/", th.List)
	r.PATCH("/todos/:id", th.Update)
	r.DELETE("/todos/:id", th.Delete)
}
