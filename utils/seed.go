package utils

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cineforo/models"
)

// SeedMovieCatalog upserts the sample short films so a fresh database
// serves a non-empty catalog. Existing like state is preserved because
// the upsert only sets catalog fields.
func SeedMovieCatalog(db *mongo.Database) {
	movies := []models.Movie{
		{
			ID:          "1",
			Title:       "Voces del Barrio",
			Director:    "María González",
			Duration:    18,
			Genre:       "Documental",
			Description: "Un recorrido por las historias de resistencia y esperanza en una comunidad urbana.",
			Thumbnail:   "https://images.unsplash.com/photo-1630853480548-d1b4a1ecd193?w=400&h=600&fit=crop",
			Rating:      4.7,
			Views:       2840,
			Tags:        []string{"comunidad", "urbano", "social"},
			ReleaseYear: 2024,
			SocialTheme: "Desigualdad social",
			VideoURL:    "https://example.com/video1.mp4",
		},
		{
			ID:          "2",
			Title:       "El Último Guardián",
			Director:    "Carlos Mendoza",
			Duration:    22,
			Genre:       "Ficción",
			Description: "La historia de un anciano que protege los saberes ancestrales de su pueblo.",
			Thumbnail:   "https://images.unsplash.com/photo-1758244016382-c0807cf00fbf?w=400&h=600&fit=crop",
			Rating:      4.9,
			Views:       3200,
			Tags:        []string{"ancestral", "tradición", "cultura"},
			ReleaseYear: 2023,
			SocialTheme: "Preservación cultural",
			VideoURL:    "https://example.com/video2.mp4",
		},
	}

	collection := db.Collection("movies")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, movie := range movies {
		update := bson.M{"$set": bson.M{
			"title":       movie.Title,
			"director":    movie.Director,
			"duration":    movie.Duration,
			"genre":       movie.Genre,
			"description": movie.Description,
			"thumbnail":   movie.Thumbnail,
			"rating":      movie.Rating,
			"views":       movie.Views,
			"tags":        movie.Tags,
			"releaseYear": movie.ReleaseYear,
			"socialTheme": movie.SocialTheme,
			"videoUrl":    movie.VideoURL,
		}}
		opts := options.Update().SetUpsert(true)
		if _, err := collection.UpdateOne(ctx, bson.M{"_id": movie.ID}, update, opts); err != nil {
			log.Printf("Failed to seed movie %q: %v", movie.Title, err)
		}
	}
}
