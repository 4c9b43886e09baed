package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cineforo/internal/ratelimit"
	"cineforo/middlewares"
	"cineforo/models"
	"cineforo/services"
	"cineforo/websocket"
)

// DebateController exposes the debate session, message log, and like
// endpoints over HTTP. Limiter is optional; when nil, posting is
// unthrottled.
type DebateController struct {
	Debates *services.DebateService
	Hub     *websocket.Hub
	Limiter ratelimit.Limiter
}

// allowAction consults the rate limiter for one identity action. A
// limiter failure is reported as allowed so Redis trouble does not
// take message posting down with it.
func (dc *DebateController) allowAction(c *gin.Context, action, identityID string) bool {
	if dc.Limiter == nil {
		return true
	}
	ok, err := dc.Limiter.Allow(c.Request.Context(), action+":"+identityID)
	if err != nil {
		log.Printf("Rate limiter error: %v", err)
		return true
	}
	return ok
}

// statusFromError maps service errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// GetDebates handles GET /debates. The default session is created on
// first access, so the list is never empty.
func (dc *DebateController) GetDebates(c *gin.Context) {
	session, err := dc.Debates.GetOrCreateDefault(c.Request.Context())
	if err != nil {
		log.Printf("Get debates error: %v", err)
		c.JSON(statusFromError(err), gin.H{"error": "Failed to fetch debates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"debates": []models.DebateSession{session}})
}

// GetDebate handles GET /debates/:id.
func (dc *DebateController) GetDebate(c *gin.Context) {
	session, err := dc.Debates.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": "Debate not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"debate": session})
}

// GetDebateMessages handles GET /debates/:id/messages, returning the
// log in strict append order.
func (dc *DebateController) GetDebateMessages(c *gin.Context) {
	messages, err := dc.Debates.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": "Failed to fetch debate messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostDebateMessage handles POST /debates/:id/message.
func (dc *DebateController) PostDebateMessage(c *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity"})
		return
	}

	if !dc.allowAction(c, "message", identity.ID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down"})
		return
	}

	var request struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	msg, err := dc.Debates.AppendMessage(c.Request.Context(), c.Param("id"), identity.ID, identity.DisplayName, request.Message)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if event, evErr := websocket.NewEvent(websocket.EventMessageAppended, msg); evErr == nil {
		dc.Hub.Broadcast(msg.SessionID, event)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Message sent",
		"messageData": msg,
	})
}

// ToggleMessageLike handles POST /debates/:id/messages/:messageId/like.
// One call likes, the next call by the same identity unlikes.
func (dc *DebateController) ToggleMessageLike(c *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity"})
		return
	}

	messageID, err := strconv.ParseInt(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	sessionID := c.Param("id")
	msg, err := dc.Debates.ToggleLike(c.Request.Context(), sessionID, messageID, identity.ID)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if event, evErr := websocket.NewEvent(websocket.EventLikeUpdated, msg); evErr == nil {
		dc.Hub.Broadcast(sessionID, event)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Like updated",
		"messageData": msg,
	})
}

// ResetDebates handles POST /debates/reset. Administrative: restores
// the default session to its canonical state with an empty log.
func (dc *DebateController) ResetDebates(c *gin.Context) {
	session, err := dc.Debates.ResetSession(c.Request.Context(), services.DefaultSessionID)
	if err != nil {
		log.Printf("Reset debates error: %v", err)
		c.JSON(statusFromError(err), gin.H{"error": "Failed to reset debates"})
		return
	}

	if event, evErr := websocket.NewEvent(websocket.EventSessionReset, session); evErr == nil {
		dc.Hub.Broadcast(session.ID, event)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Debates reset",
		"debate":  session,
	})
}

// UpdateDebateStatus handles PUT /debates/:id/status. Administrative:
// advances the lifecycle; backward transitions are rejected.
func (dc *DebateController) UpdateDebateStatus(c *gin.Context) {
	var request struct {
		Status models.SessionStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	sessionID := c.Param("id")
	session, err := dc.Debates.UpdateStatus(c.Request.Context(), sessionID, request.Status)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	if event, evErr := websocket.NewEvent(websocket.EventStatusChanged, session); evErr == nil {
		dc.Hub.Broadcast(sessionID, event)
	}

	c.JSON(http.StatusOK, gin.H{"debate": session})
}
