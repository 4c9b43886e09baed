package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"cineforo/services"
)

// Debater is one leaderboard entry, ranked by debate engagement.
type Debater struct {
	ID       string `json:"id"`
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Messages int    `json:"messages"`
	Likes    int    `json:"likes"`
	Score    int    `json:"score"`
}

// LeaderboardController ranks the default debate's participants.
type LeaderboardController struct {
	Debates *services.DebateService
}

// GetLeaderboard handles GET /community/leaderboard. Score is likes
// received weighted over messages posted; ties break by name so the
// ordering is stable across polls.
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	messages, err := lc.Debates.ListMessages(c.Request.Context(), services.DefaultSessionID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": "Failed to fetch leaderboard data"})
		return
	}

	byAuthor := make(map[string]*Debater)
	for _, msg := range messages {
		entry, ok := byAuthor[msg.Author.ID]
		if !ok {
			entry = &Debater{ID: msg.Author.ID, Name: msg.Author.Name}
			byAuthor[msg.Author.ID] = entry
		}
		entry.Messages++
		entry.Likes += msg.LikeCount
	}

	debaters := make([]Debater, 0, len(byAuthor))
	for _, entry := range byAuthor {
		entry.Score = entry.Likes*5 + entry.Messages
		debaters = append(debaters, *entry)
	}

	sort.Slice(debaters, func(i, j int) bool {
		if debaters[i].Score != debaters[j].Score {
			return debaters[i].Score > debaters[j].Score
		}
		return debaters[i].Name < debaters[j].Name
	})
	for i := range debaters {
		debaters[i].Rank = i + 1
	}

	c.JSON(http.StatusOK, gin.H{"debaters": debaters})
}
