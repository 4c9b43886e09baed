package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"cineforo/models"
	"cineforo/store"
)

var (
	// ErrNotFound means the session or message id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means the request was rejected before any state changed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStoreUnavailable means the backing store failed; prior state is intact.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DefaultSessionID is the well-known debate session every client lands on.
const DefaultSessionID = "1"

// DefaultSessionTemplate returns the canonical metadata for the default
// debate. Reset restores a session to this shape.
func DefaultSessionTemplate(now time.Time) models.DebateSession {
	return models.DebateSession{
		ID:             DefaultSessionID,
		Topic:          "¿Cómo podemos contribuir a la conservación de la biodiversidad y los ecosistemas naturales?",
		ModeratorName:  "Fabian Tirado",
		MovieTitle:     "National Geographic",
		MediaReference: "https://www.youtube.com/watch?v=ovK4Ik3HIJI",
		StartTime:      now,
		Status:         models.StatusLive,
	}
}

func sessionKey(sessionID string) string { return "debate:" + sessionID }

// sessionRecord is the persisted image of one session. Metadata and
// message log travel as a single value so each write is atomic at the
// store level and a crash can never surface a half-written session.
type sessionRecord struct {
	Session  models.DebateSession `json:"session"`
	Messages []models.Message     `json:"messages"`
}

// sessionState is the in-memory image of one session plus its message
// log. Its mutex serializes every mutating operation on the session;
// operations on different sessions run in parallel.
type sessionState struct {
	mu       sync.Mutex
	loaded   bool
	exists   bool
	session  models.DebateSession
	messages []models.Message
}

// DebateService owns the session registry, the per-session append-only
// message log, and the per-message like ledger. All state changes are
// written through to the injected KV store before they become visible;
// a failed write leaves both memory and store untouched.
type DebateService struct {
	kv  store.KV
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// NewDebateService creates a service on top of the given store.
func NewDebateService(kv store.KV) *DebateService {
	return &DebateService{
		kv:       kv,
		now:      time.Now,
		sessions: make(map[string]*sessionState),
	}
}

// state returns the tracked state for a session id, allocating the slot
// on first use. Loading from the store happens lazily under the
// session's own lock so cross-session calls never serialize on I/O.
func (s *DebateService) state(sessionID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	return st
}

// notFoundLocked evicts the slot cached for a session that turned out
// not to exist and returns ErrNotFound, so probing random ids cannot
// grow the registry. Caller holds st.mu; st.mu is never acquired under
// s.mu, so taking s.mu here cannot deadlock.
func (s *DebateService) notFoundLocked(sessionID string, st *sessionState) error {
	s.mu.Lock()
	if s.sessions[sessionID] == st {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	return fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
}

// loadLocked hydrates a session from the store. The default session is
// created on first access; the registry never silently creates any
// other session. Caller must hold st.mu.
func (s *DebateService) loadLocked(ctx context.Context, st *sessionState, sessionID string) error {
	if st.loaded {
		return nil
	}

	raw, found, err := s.kv.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return fmt.Errorf("%w: load session %s: %v", ErrStoreUnavailable, sessionID, err)
	}

	if found {
		var record sessionRecord
		if err := json.Unmarshal(raw, &record); err != nil {
			return fmt.Errorf("decode session %s: %w", sessionID, err)
		}

		record.Session.ParticipantCount = countParticipants(record.Messages)
		st.session = record.Session
		st.messages = record.Messages
		st.exists = true
		st.loaded = true
		return nil
	}

	if sessionID != DefaultSessionID {
		st.loaded = true
		st.exists = false
		return nil
	}

	session := DefaultSessionTemplate(s.now())
	if err := s.persistLocked(ctx, sessionID, session, nil); err != nil {
		return err
	}
	st.session = session
	st.messages = nil
	st.exists = true
	st.loaded = true
	return nil
}

// persistLocked writes the session and its message log to the store as
// one value. Callers only commit to memory after it succeeds, so a
// failed write changes neither memory nor store.
func (s *DebateService) persistLocked(ctx context.Context, sessionID string, session models.DebateSession, messages []models.Message) error {
	if messages == nil {
		messages = []models.Message{}
	}
	data, err := json.Marshal(sessionRecord{Session: session, Messages: messages})
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sessionID, err)
	}
	if err := s.kv.Set(ctx, sessionKey(sessionID), data); err != nil {
		return fmt.Errorf("%w: persist session %s: %v", ErrStoreUnavailable, sessionID, err)
	}
	return nil
}

func countParticipants(messages []models.Message) int {
	authors := make(map[string]struct{}, len(messages))
	for _, m := range messages {
		authors[m.Author.ID] = struct{}{}
	}
	return len(authors)
}

// GetOrCreateDefault returns the well-known default session, creating
// it with canonical metadata on first access. Idempotent.
func (s *DebateService) GetOrCreateDefault(ctx context.Context) (models.DebateSession, error) {
	st := s.state(DefaultSessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, DefaultSessionID); err != nil {
		return models.DebateSession{}, err
	}
	return st.session, nil
}

// GetSession returns a session by id, or ErrNotFound.
func (s *DebateService) GetSession(ctx context.Context, sessionID string) (models.DebateSession, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return models.DebateSession{}, err
	}
	if !st.exists {
		return models.DebateSession{}, s.notFoundLocked(sessionID, st)
	}
	return st.session, nil
}

// ListMessages returns the session's messages in strict append order.
func (s *DebateService) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return nil, err
	}
	if !st.exists {
		return nil, s.notFoundLocked(sessionID, st)
	}

	out := make([]models.Message, len(st.messages))
	for i, m := range st.messages {
		out[i] = m.Clone()
	}
	return out, nil
}

// GetMessage returns a single message by its session-scoped id.
func (s *DebateService) GetMessage(ctx context.Context, sessionID string, messageID int64) (models.Message, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return models.Message{}, err
	}
	if !st.exists {
		return models.Message{}, s.notFoundLocked(sessionID, st)
	}
	for _, m := range st.messages {
		if m.ID == messageID {
			return m.Clone(), nil
		}
	}
	return models.Message{}, fmt.Errorf("%w: message %d", ErrNotFound, messageID)
}

// AppendMessage adds a message to the end of the session's log. Ids are
// monotonic per session starting at 1; insertion order is the display
// order. This is the only operation that can grow the participant count.
func (s *DebateService) AppendMessage(ctx context.Context, sessionID, authorID, authorName, body string) (models.Message, error) {
	if strings.TrimSpace(body) == "" {
		return models.Message{}, fmt.Errorf("%w: message body is empty", ErrInvalidInput)
	}
	if authorID == "" {
		return models.Message{}, fmt.Errorf("%w: missing author identity", ErrInvalidInput)
	}

	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return models.Message{}, err
	}
	if !st.exists {
		return models.Message{}, s.notFoundLocked(sessionID, st)
	}

	msg := models.Message{
		ID:        int64(len(st.messages)) + 1,
		SessionID: sessionID,
		Author:    models.Author{ID: authorID, Name: authorName},
		Body:      body,
		CreatedAt: s.now(),
		LikeCount: 0,
		LikedBy:   []string{},
	}

	candidate := make([]models.Message, len(st.messages)+1)
	copy(candidate, st.messages)
	candidate[len(candidate)-1] = msg

	session := st.session
	session.ParticipantCount = countParticipants(candidate)

	if err := s.persistLocked(ctx, sessionID, session, candidate); err != nil {
		return models.Message{}, err
	}

	st.messages = candidate
	st.session = session
	return msg.Clone(), nil
}

// ToggleLike flips identityID's like on a message. At most one like per
// identity per message; an even number of toggles is a no-op overall.
func (s *DebateService) ToggleLike(ctx context.Context, sessionID string, messageID int64, identityID string) (models.Message, error) {
	if identityID == "" {
		return models.Message{}, fmt.Errorf("%w: missing identity", ErrInvalidInput)
	}

	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return models.Message{}, err
	}
	if !st.exists {
		return models.Message{}, s.notFoundLocked(sessionID, st)
	}

	idx := -1
	for i, m := range st.messages {
		if m.ID == messageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Message{}, fmt.Errorf("%w: message %d", ErrNotFound, messageID)
	}

	updated := st.messages[idx].Clone()
	if updated.LikedByContains(identityID) {
		kept := updated.LikedBy[:0]
		for _, id := range updated.LikedBy {
			if id != identityID {
				kept = append(kept, id)
			}
		}
		updated.LikedBy = kept
	} else {
		updated.LikedBy = append(updated.LikedBy, identityID)
	}
	updated.LikeCount = len(updated.LikedBy)

	candidate := make([]models.Message, len(st.messages))
	copy(candidate, st.messages)
	candidate[idx] = updated

	if err := s.persistLocked(ctx, sessionID, st.session, candidate); err != nil {
		return models.Message{}, err
	}

	st.messages = candidate
	return updated.Clone(), nil
}

// ResetSession clears the message log and restores the session metadata
// to its canonical value. Administrative operation.
func (s *DebateService) ResetSession(ctx context.Context, sessionID string) (models.DebateSession, error) {
	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return models.DebateSession{}, err
	}
	if !st.exists {
		return models.DebateSession{}, s.notFoundLocked(sessionID, st)
	}

	session := st.session
	if sessionID == DefaultSessionID {
		template := DefaultSessionTemplate(s.now())
		template.StartTime = st.session.StartTime // set once at creation
		session = template
	}
	session.Status = models.StatusLive
	session.ParticipantCount = 0

	if err := s.persistLocked(ctx, sessionID, session, nil); err != nil {
		return models.DebateSession{}, err
	}

	st.session = session
	st.messages = nil
	return session, nil
}

// UpdateStatus advances the session lifecycle. Backward transitions are
// rejected with ErrInvalidInput. Administrative operation.
func (s *DebateService) UpdateStatus(ctx context.Context, sessionID string, next models.SessionStatus) (models.DebateSession, error) {
	if !next.Valid() {
		return models.DebateSession{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, next)
	}

	st := s.state(sessionID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := s.loadLocked(ctx, st, sessionID); err != nil {
		return models.DebateSession{}, err
	}
	if !st.exists {
		return models.DebateSession{}, s.notFoundLocked(sessionID, st)
	}
	if !st.session.Status.CanTransitionTo(next) {
		return models.DebateSession{}, fmt.Errorf("%w: cannot transition %s from %s to %s", ErrInvalidInput, sessionID, st.session.Status, next)
	}

	session := st.session
	session.Status = next

	if err := s.persistLocked(ctx, sessionID, session, st.messages); err != nil {
		return models.DebateSession{}, err
	}

	st.session = session
	return session, nil
}
