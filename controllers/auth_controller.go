package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cineforo/middlewares"
	"cineforo/services"
	"cineforo/structs"
)

// AuthController exposes the identity provider over HTTP. Exactly one
// of Mock or Cognito is set, matching the configured provider; Verifier
// always points at the active one.
type AuthController struct {
	Mock     *services.MockAuthService
	Cognito  *services.CognitoVerifier
	Verifier services.TokenVerifier
}

// SignUp handles POST /signup.
func (ac *AuthController) SignUp(c *gin.Context) {
	var request structs.SignUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	if ac.Mock != nil {
		user, err := ac.Mock.SignUp(request.Email, request.Password, request.Name)
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Sign-up successful",
			"user": gin.H{
				"id":    user.ID,
				"email": user.Email,
				"name":  user.DisplayName,
			},
		})
		return
	}

	if err := ac.Cognito.SignUp(c.Request.Context(), request.Email, request.Password, request.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sign-up successful"})
}

// Login handles POST /login and returns an access token.
func (ac *AuthController) Login(c *gin.Context) {
	var request structs.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": "Check email and password format"})
		return
	}

	if ac.Mock != nil {
		token, user, err := ac.Mock.Login(request.Email, request.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":     "Sign-in successful",
			"accessToken": token,
			"user": gin.H{
				"id":    user.ID,
				"email": user.Email,
				"name":  user.DisplayName,
			},
		})
		return
	}

	token, err := ac.Cognito.Login(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to sign in", "message": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sign-in successful", "accessToken": token})
}

// VerifyToken handles POST /verifyToken.
func (ac *AuthController) VerifyToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token format"})
		return
	}

	identity, err := ac.Verifier.Verify(c.Request.Context(), parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token is valid", "id": identity.ID, "name": identity.DisplayName})
}

// GetProfile handles GET /user/profile for an authenticated caller.
func (ac *AuthController) GetProfile(c *gin.Context) {
	identity, ok := middlewares.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing identity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": identity.ID, "name": identity.DisplayName})
}
