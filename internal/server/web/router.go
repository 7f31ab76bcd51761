package web

import "github.com/gin-gonic/gin"

// Router assembles the gin engine. Login endpoints accept an optional bearer
// token (to keep per-connection state across re-login); everything else
// under /api requires one.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.healthz)

	api := r.Group("/api")
	{
		api.POST("/login", h.login)
		api.POST("/signup", h.signup)
		api.POST("/admin/login", h.adminLogin)
		api.POST("/google", h.googleLogin)
	}

	authed := r.Group("/api", h.sessionRequired)
	{
		authed.POST("/logout", h.logout)
		authed.GET("/feed", h.feed)
		authed.POST("/messages", h.post)

		admin := authed.Group("/admin")
		{
			admin.GET("/users", h.adminUsers)
			admin.POST("/users/:name/status", h.setUserStatus)
			admin.DELETE("/users/:name", h.deleteUser)
			admin.DELETE("/messages", h.clearMessages)
			admin.GET("/settings", h.getSettings)
			admin.PUT("/settings", h.putSettings)
			admin.GET("/stats", h.stats)
		}
	}

	return r
}
