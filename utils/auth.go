// utils/auth.go
package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"beautystudio-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionContextKey = "session"

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a session as a JWT. The token expires exactly 24 hours
// after the session's login time, matching models.SessionLifetime.
func GenerateToken(session models.Session) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       session.ID,
		"username":  session.Username,
		"loginTime": session.LoginTime.Unix(),
		"iat":       session.LoginTime.Unix(),
		"exp":       session.LoginTime.Add(models.SessionLifetime).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ParseSession validates a token and reconstructs the session record.
func ParseSession(tokenString string) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return models.Session{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Session{}, errors.New("invalid token claims")
	}
	session := models.Session{}
	if sub, ok := claims["sub"].(string); ok {
		session.ID = sub
	}
	if username, ok := claims["username"].(string); ok {
		session.Username = username
	}
	if loginTime, ok := claims["loginTime"].(float64); ok {
		session.LoginTime = time.Unix(int64(loginTime), 0)
	}
	return session, nil
}

// Auth middleware. Accepts the token from the Authorization header or the
// session cookie; an absent or expired session clears the cookie and stops
// the request.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization required"})
			return
		}

		session, err := ParseSession(tokenString)
		if err != nil || session.Expired(time.Now()) {
			ClearSessionCookie(c)
			c.AbortWithStatusJSON(401, gin.H{"error": "Session expired or invalid"})
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFromContext returns the session stored by AuthMiddleware.
func SessionFromContext(c *gin.Context) (models.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return models.Session{}, false
	}
	session, ok := value.(models.Session)
	return session, ok
}

// SetSessionCookie mirrors the session lifetime on the cookie.
func SetSessionCookie(c *gin.Context, token string) {
	maxAge := int(models.SessionLifetime.Seconds())
	c.SetCookie("token", token, maxAge, "/", "", true, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", true, true)
}
