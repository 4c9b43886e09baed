package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cineforo/middlewares"
	"cineforo/models"
)

// MovieController serves the short-film catalog from MongoDB.
type MovieController struct {
	DB *mongo.Database
}

func (mc *MovieController) collection() *mongo.Collection {
	return mc.DB.Collection("movies")
}

// ListMovies handles GET /movies.
func (mc *MovieController) ListMovies(c *gin.Context) {
	ctx := c.Request.Context()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := mc.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch catalog"})
		return
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode catalog"})
		return
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	c.JSON(http.StatusOK, gin.H{"movies": movies})
}

// GetMovie handles GET /movies/:id.
func (mc *MovieController) GetMovie(c *gin.Context) {
	var movie models.Movie
	err := mc.collection().FindOne(c.Request.Context(), bson.M{"_id": c.Param("id")}).Decode(&movie)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch movie"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movie": movie})
}

// ToggleMovieLike handles POST /movies/:id/like with the same
// at-most-one-like-per-identity contract as message likes. The two
// guarded updates are each atomic, so concurrent toggles by the same
// identity cannot double-count.
func (mc *MovieController) ToggleMovieLike(c *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity"})
		return
	}

	ctx := c.Request.Context()
	movieID := c.Param("id")
	coll := mc.collection()

	// Unlike path: only matches when the identity is in likedBy.
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": movieID, "likedBy": identity.ID},
		bson.M{"$pull": bson.M{"likedBy": identity.ID}, "$inc": bson.M{"likeCount": -1}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}

	liked := false
	if res.ModifiedCount == 0 {
		// Like path: only matches when the identity is absent.
		res, err = coll.UpdateOne(ctx,
			bson.M{"_id": movieID, "likedBy": bson.M{"$ne": identity.ID}},
			bson.M{"$addToSet": bson.M{"likedBy": identity.ID}, "$inc": bson.M{"likeCount": 1}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
			return
		}
		if res.MatchedCount == 0 {
			// Either the movie is missing or a concurrent request got
			// the like in first.
			switch findErr := coll.FindOne(ctx, bson.M{"_id": movieID}).Err(); findErr {
			case nil:
			case mongo.ErrNoDocuments:
				c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
				return
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
				return
			}
		}
		liked = true
	}

	var movie struct {
		LikeCount int64 `bson:"likeCount"`
	}
	if err := coll.FindOne(ctx, bson.M{"_id": movieID}).Decode(&movie); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch like count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"liked":   liked,
		"likes":   movie.LikeCount,
	})
}
