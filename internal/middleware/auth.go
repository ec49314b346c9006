package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/studio-scheduler/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextStudioID = "studioID"
	ContextUserRole = "userRole"
)

type claims struct {
	userID   uint
	studioID uint
	role     string
}

// parseBearer validates the Authorization header. The returned code is the
// error_code written back on failure.
func parseBearer(header, secret string) (*claims, string) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "invalid_authorization_header"
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, "invalid_token"
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "invalid_token_claims"
	}

	userID, ok1 := mc["sub"].(float64)
	studioID, ok2 := mc["studioId"].(float64)
	role, _ := mc["role"].(string)
	if !ok1 || !ok2 {
		return nil, "invalid_token_payload"
	}

	return &claims{userID: uint(userID), studioID: uint(studioID), role: role}, ""
}

func (cl *claims) apply(c *gin.Context) {
	c.Set(ContextUserID, cl.userID)
	c.Set(ContextStudioID, cl.studioID)
	c.Set(ContextUserRole, cl.role)
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error_code": "missing_authorization_header",
				"message":    "authorization header is required",
			})
			return
		}

		cl, code := parseBearer(authHeader, cfg.JWT.Secret)
		if cl == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error_code": code,
				"message":    "invalid bearer token",
			})
			return
		}

		cl.apply(c)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present and
// lets anonymous requests through. A malformed token is still rejected.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		cl, code := parseBearer(authHeader, cfg.JWT.Secret)
		if cl == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error_code": code,
				"message":    "invalid bearer token",
			})
			return
		}

		cl.apply(c)
		c.Next()
	}
}

// UserID returns the authenticated user, or nil for anonymous requests.
func UserID(c *gin.Context) *uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}

func StudioID(c *gin.Context) uint {
	return c.MustGet(ContextStudioID).(uint)
}
