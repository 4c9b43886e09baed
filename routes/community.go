package routes

import (
	"github.com/gin-gonic/gin"

	"cineforo/controllers"
)

// SetupCommunityRoutes registers the community dashboard endpoints.
func SetupCommunityRoutes(authed *gin.RouterGroup, lc *controllers.LeaderboardController) {
	authed.GET("/community/leaderboard", lc.GetLeaderboard)
}
