package routes

import (
	"github.com/gin-gonic/gin"

	"cineforo/controllers"
	"cineforo/services"
	"cineforo/websocket"
)

// SetupDebateRoutes registers the debate read endpoints (public), the
// mutating endpoints (authenticated), and the live feed.
func SetupDebateRoutes(router *gin.Engine, authed *gin.RouterGroup, dc *controllers.DebateController, hub *websocket.Hub, verifier services.TokenVerifier) {
	router.GET("/debates", dc.GetDebates)
	router.GET("/debates/:id", dc.GetDebate)
	router.GET("/debates/:id/messages", dc.GetDebateMessages)

	// The feed authenticates through a query-parameter token, so it
	// sits outside the header-based auth group.
	router.GET("/debates/:id/live", hub.SessionFeedHandler(verifier, dc.Debates))

	authed.POST("/debates/:id/message", dc.PostDebateMessage)
	authed.POST("/debates/:id/messages/:messageId/like", dc.ToggleMessageLike)
}

// SetupDebateAdminRoutes registers the administrative debate endpoints.
func SetupDebateAdminRoutes(admin *gin.RouterGroup, dc *controllers.DebateController) {
	admin.POST("/debates/reset", dc.ResetDebates)
	admin.PUT("/debates/:id/status", dc.UpdateDebateStatus)
}
