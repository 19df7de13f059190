package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bcit-connector/pkg/helpers"
	"github.com/oksasatya/bcit-connector/pkg/response"
)

const (
	// TokenHeader carries the session token issued by register and login.
	TokenHeader = "x-auth-token"
	ctxUserID   = "userID"

	msgNoToken      = "No token, authorization denied."
	msgInvalidToken = "Token is not valid."
)

// Auth verifies the session token and sets userID in the Gin context.
// It never touches the store; a valid token for a deleted account passes.
func Auth(jwt *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Message(c, http.StatusUnauthorized, msgNoToken)
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			if logger != nil {
				kind := "malformed"
				if errors.Is(err, helpers.ErrTokenExpired) {
					kind = "expired"
				}
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(ctxRequestID),
					"kind":       kind,
				}).Debug("token rejected")
			}
			response.Message(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		c.Set(ctxUserID, claims.User.ID)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(TokenHeader)); t != "" {
		return t
	}
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// UserID returns the id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
