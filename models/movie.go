package models

// Movie is a catalog entry for a short film or documentary.
type Movie struct {
	ID          string   `bson:"_id" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Director    string   `bson:"director" json:"director"`
	Duration    int      `bson:"duration" json:"duration"` // minutes
	Genre       string   `bson:"genre" json:"genre"`
	Description string   `bson:"description" json:"description"`
	Thumbnail   string   `bson:"thumbnail" json:"thumbnail"`
	Rating      float64  `bson:"rating" json:"rating"`
	Views       int64    `bson:"views" json:"views"`
	LikeCount   int64    `bson:"likeCount" json:"likes"`
	LikedBy     []string `bson:"likedBy" json:"-"`
	Tags        []string `bson:"tags" json:"tags"`
	ReleaseYear int      `bson:"releaseYear" json:"releaseYear"`
	SocialTheme string   `bson:"socialTheme" json:"socialTheme"`
	VideoURL    string   `bson:"videoUrl" json:"videoUrl"`
}
