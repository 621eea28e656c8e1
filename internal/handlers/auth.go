package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"gearshed/internal/auth"
	"gearshed/internal/database"
	emailService "gearshed/internal/email"
	"gearshed/internal/logger"
	"gearshed/internal/middleware"
	"gearshed/internal/models"

	"github.com/gin-gonic/gin"
)

type userResponse struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

func handleRegister(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	jwtManager := c.MustGet("jwt").(*auth.JWTManager)

	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	_, err := database.GetUserByEmail(c.Request.Context(), db, req.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		respondError(c, err, "User not found")
		return
	}

	user, err := database.CreateUser(c.Request.Context(), db, req.Email, req.Password)
	if err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		respondError(c, err, "User not found")
		return
	}

	token, err := jwtManager.Generate(user)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	logger.Info("User registered", "user_id", user.ID, "email", user.Email)

	if svc, ok := c.MustGet("email_service").(*emailService.Service); ok {
		svc.SendWelcomeEmailAsync(user)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userResponse{ID: user.ID, Email: user.Email},
		"token":   token,
	})
}

func handleLogin(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	jwtManager := c.MustGet("jwt").(*auth.JWTManager)

	var req models.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := database.AuthenticateUser(c.Request.Context(), db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			logger.Warn("Failed login attempt", "email", req.Email, "ip", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err, "User not found")
		return
	}

	token, err := jwtManager.Generate(user)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse{ID: user.ID, Email: user.Email},
		"token":   token,
	})
}

func handleMe(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	identity := middleware.MustIdentity(c)

	user, err := database.GetUserByID(c.Request.Context(), db, identity.UserID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
