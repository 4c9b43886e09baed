package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"cineforo/middlewares"
	"cineforo/models"
	"cineforo/services"
	"cineforo/store"
	"cineforo/websocket"
)

const testAdminToken = "test-admin-token"

func newTestEnv(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := services.NewMockAuthService("test-secret", time.Hour)
	if _, err := auth.SignUp("alice@example.com", "password123", "Alice"); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	token, _, err := auth.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	debates := services.NewDebateService(store.NewMemory())
	dc := &DebateController{Debates: debates, Hub: websocket.NewHub()}

	router := gin.New()
	router.GET("/debates", dc.GetDebates)
	router.GET("/debates/:id/messages", dc.GetDebateMessages)

	authed := router.Group("/")
	authed.Use(middlewares.AuthMiddleware(auth))
	authed.POST("/debates/:id/message", dc.PostDebateMessage)
	authed.POST("/debates/:id/messages/:messageId/like", dc.ToggleMessageLike)

	admin := router.Group("/")
	admin.Use(middlewares.AdminMiddleware(testAdminToken))
	admin.POST("/debates/reset", dc.ResetDebates)

	return router, token
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetDebatesCreatesDefault(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(router, http.MethodGet, "/debates", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Debates []models.DebateSession `json:"debates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(resp.Debates) != 1 {
		t.Fatalf("Expected one debate, got %d", len(resp.Debates))
	}
	if resp.Debates[0].ID != services.DefaultSessionID {
		t.Errorf("Expected default session, got %q", resp.Debates[0].ID)
	}
	if resp.Debates[0].Status != models.StatusLive {
		t.Errorf("Expected live status, got %q", resp.Debates[0].Status)
	}
}

func TestPostMessageRequiresIdentity(t *testing.T) {
	router, _ := newTestEnv(t)

	w := doJSON(router, http.MethodPost, "/debates/1/message", "", gin.H{"message": "hi"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/debates/1/messages/1/like", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}

func TestPostMessageFlow(t *testing.T) {
	router, token := newTestEnv(t)

	// Default session is created lazily on first access.
	doJSON(router, http.MethodGet, "/debates", "", nil)

	w := doJSON(router, http.MethodPost, "/debates/1/message", token, gin.H{"message": "Hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		MessageData models.Message `json:"messageData"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.MessageData.ID != 1 || resp.MessageData.Body != "Hello" {
		t.Errorf("Unexpected message: %+v", resp.MessageData)
	}
	if resp.MessageData.Author.Name != "Alice" {
		t.Errorf("Expected author display name, got %q", resp.MessageData.Author.Name)
	}

	// Blank bodies are rejected and never stored.
	w = doJSON(router, http.MethodPost, "/debates/1/message", token, gin.H{"message": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank body, got %d", w.Code)
	}

	// Unknown session.
	w = doJSON(router, http.MethodPost, "/debates/999/message", token, gin.H{"message": "hi"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}

	w = doJSON(router, http.MethodGet, "/debates/1/messages", "", nil)
	var list struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(list.Messages) != 1 {
		t.Errorf("Expected exactly the accepted message, got %d", len(list.Messages))
	}
}

func TestToggleLikeEndpoint(t *testing.T) {
	router, token := newTestEnv(t)

	w := doJSON(router, http.MethodPost, "/debates/1/message", token, gin.H{"message": "like me"})
	if w.Code != http.StatusOK {
		t.Fatalf("Seeding message failed: %d", w.Code)
	}

	var resp struct {
		MessageData models.Message `json:"messageData"`
	}

	path := fmt.Sprintf("/debates/1/messages/%d/like", 1)
	w = doJSON(router, http.MethodPost, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.MessageData.LikeCount != 1 {
		t.Errorf("Expected 1 like, got %d", resp.MessageData.LikeCount)
	}

	w = doJSON(router, http.MethodPost, path, token, nil)
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.MessageData.LikeCount != 0 {
		t.Errorf("Expected toggle back to 0 likes, got %d", resp.MessageData.LikeCount)
	}

	w = doJSON(router, http.MethodPost, "/debates/1/messages/abc/like", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric message id, got %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/debates/1/messages/42/like", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown message, got %d", w.Code)
	}
}

func TestResetEndpoint(t *testing.T) {
	router, token := newTestEnv(t)

	doJSON(router, http.MethodPost, "/debates/1/message", token, gin.H{"message": "soon gone"})

	w := doJSON(router, http.MethodPost, "/debates/reset", "", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 without admin token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/debates/reset", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with admin token, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Debate models.DebateSession `json:"debate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Debate.ParticipantCount != 0 {
		t.Errorf("Expected 0 participants after reset, got %d", resp.Debate.ParticipantCount)
	}

	w = doJSON(router, http.MethodGet, "/debates/1/messages", "", nil)
	var list struct {
		Messages []models.Message `json:"messages"`
	}
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Messages) != 0 {
		t.Errorf("Expected empty log after reset, got %d messages", len(list.Messages))
	}
}
