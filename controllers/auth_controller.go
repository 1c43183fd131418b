package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"allai/models"
	"allai/services"
)

// ContextEmailKey is where RequireAuth stores the verified token subject.
const ContextEmailKey = "email"

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (a *AuthController) SignUp(c *gin.Context) {
	var request models.SignUpRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	resp, err := a.auth.SignUp(c.Request.Context(), request.Name, request.Email, request.Password)
	if err != nil {
		writeAuthError(c, "signup", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *AuthController) SignIn(c *gin.Context) {
	var request models.SignInRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	resp, err := a.auth.SignIn(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		writeAuthError(c, "signin", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *AuthController) Me(c *gin.Context) {
	email := c.GetString(ContextEmailKey)
	user, err := a.auth.CurrentUser(c.Request.Context(), email)
	if errors.Is(err, services.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err != nil {
		log.Printf("Error loading user %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func writeAuthError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		log.Printf("Error during %s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}
