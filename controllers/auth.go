// controllers/auth.go
package controllers

import (
	"net/http"
	"time"

	"beautystudio-backend/config"
	"beautystudio-backend/models"
	"beautystudio-backend/supabase"
	"beautystudio-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthController handles login, logout and session echo. The fallback
// credential pair reproduces the original console's hard-coded login; it is
// deliberately isolated here and compared through bcrypt so the plaintext
// never sticks around after startup.
type AuthController struct {
	db               *supabase.Client
	fallbackUsername string
	fallbackHash     string
}

func NewAuthController(db *supabase.Client, cfg *config.Config) *AuthController {
	ctl := &AuthController{db: db, fallbackUsername: cfg.FallbackUsername}
	if cfg.FallbackUsername != "" && cfg.FallbackPassword != "" {
		hash, err := utils.HashPassword(cfg.FallbackPassword)
		if err == nil {
			ctl.fallbackHash = hash
			config.Logger.Warn().
				Str("username", cfg.FallbackUsername).
				Msg("insecure fallback credential enabled; this is not an auth system")
		}
	}
	return ctl
}

func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Insecure fallback: a single local credential pair accepted without
	// consulting the remote store.
	if a.fallbackHash != "" && input.Username == a.fallbackUsername &&
		utils.CheckPasswordHash(input.Password, a.fallbackHash) {
		a.issueSession(c, models.Session{
			ID:        "temp-user-id",
			Username:  a.fallbackUsername,
			LoginTime: time.Now(),
		})
		return
	}

	var users []models.User
	err := a.db.Rpc(c.Request.Context(), "get_user_by_credentials", map[string]interface{}{
		"username_input": input.Username,
		"password_input": input.Password,
	}, &users)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadGateway, "Could not reach the login service")
		return
	}
	if len(users) == 0 {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	a.issueSession(c, models.Session{
		ID:        users[0].ID.String(),
		Username:  users[0].Username,
		LoginTime: time.Now(),
	})
}

func (a *AuthController) issueSession(c *gin.Context, session models.Session) {
	token, err := utils.GenerateToken(session)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       session.ID,
			"username": session.Username,
		},
	})
}

func (a *AuthController) Me(c *gin.Context) {
	session, ok := utils.SessionFromContext(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        session.ID,
			"username":  session.Username,
			"loginTime": session.LoginTime,
		},
	})
}

func (a *AuthController) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
