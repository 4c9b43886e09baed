package models

import "time"

// Author identifies the writer of a message. ID is the stable identity
// key used for participant counting and like uniqueness; Name is
// cosmetic only.
type Author struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Message is one entry in a session's append-only chat log. Messages
// are immutable after creation except for the like fields, which change
// only through the like toggle.
type Message struct {
	ID        int64     `bson:"id" json:"id"`
	SessionID string    `bson:"sessionId" json:"sessionId"`
	Author    Author    `bson:"user" json:"user"`
	Body      string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"timestamp" json:"timestamp"`
	LikeCount int       `bson:"likes" json:"likes"`
	LikedBy   []string  `bson:"likedBy" json:"likedBy"`
}

// Clone returns a deep copy so callers can hand messages out without
// sharing the likedBy slice with the service's internal state.
func (m Message) Clone() Message {
	out := m
	out.LikedBy = make([]string, len(m.LikedBy))
	copy(out.LikedBy, m.LikedBy)
	return out
}

// LikedByContains reports whether identityID has liked the message.
func (m Message) LikedByContains(identityID string) bool {
	for _, id := range m.LikedBy {
		if id == identityID {
			return true
		}
	}
	return false
}
