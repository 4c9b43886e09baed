package routes

import (
	"github.com/gin-gonic/gin"

	"cineforo/controllers"
)

// SetupMovieRoutes registers the catalog endpoints. Browsing is public;
// liking requires an identity.
func SetupMovieRoutes(router *gin.Engine, authed *gin.RouterGroup, mc *controllers.MovieController) {
	router.GET("/movies", mc.ListMovies)
	router.GET("/movies/:id", mc.GetMovie)

	authed.POST("/movies/:id/like", mc.ToggleMovieLike)
}
