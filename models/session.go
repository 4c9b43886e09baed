package models

import "time"

// SessionStatus is the lifecycle state of a debate session.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "scheduled"
	StatusLive      SessionStatus = "live"
	StatusEnded     SessionStatus = "ended"
)

// Valid reports whether s is one of the known lifecycle states.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusEnded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle may move from s to next.
// Transitions only run forward: scheduled -> live -> ended.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case StatusScheduled:
		return next == StatusLive || next == StatusEnded
	case StatusLive:
		return next == StatusEnded
	}
	return false
}

// DebateSession is a single debate/chat context tied to one film.
// ParticipantCount is derived from the distinct message authors and is
// never settable by a client.
type DebateSession struct {
	ID               string        `bson:"_id" json:"id"`
	Topic            string        `bson:"topic" json:"topic"`
	ModeratorName    string        `bson:"moderator" json:"moderator"`
	MovieTitle       string        `bson:"movieTitle" json:"movieTitle"`
	MediaReference   string        `bson:"movieThumbnail" json:"movieThumbnail"`
	StartTime        time.Time     `bson:"startTime" json:"startTime"`
	Status           SessionStatus `bson:"status" json:"status"`
	ParticipantCount int           `bson:"participants" json:"participants"`
}
