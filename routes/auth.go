package routes

import (
	"github.com/gin-gonic/gin"

	"cineforo/controllers"
)

// SetupAuthRoutes registers the public identity endpoints.
func SetupAuthRoutes(router *gin.Engine, ac *controllers.AuthController) {
	router.POST("/signup", ac.SignUp)
	router.POST("/login", ac.Login)
	router.POST("/verifyToken", ac.VerifyToken)
}

// SetupProfileRoutes registers the authenticated profile endpoints.
func SetupProfileRoutes(authed *gin.RouterGroup, ac *controllers.AuthController) {
	authed.GET("/user/profile", ac.GetProfile)
}
