package utils

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"cafelist/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookie   = "admin_token"
	RequestIDHeader = "X-Request-ID"
	APIKeyHeader    = "X-API-Key"
)

// AdminMiddleware admits requests carrying a valid admin session, from
// the session cookie or an "Authorization: Bearer" header. Others are
// redirected to loginPath.
func AdminMiddleware(tokens *Tokens, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(SessionCookie)
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		role, userID, err := tokens.ValidateSession(tokenString)
		if err != nil || role != string(model.RoleAdmin) {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// APIKeyMiddleware requires key in the X-API-Key header or the api-key
// query parameter. An empty key disables the check.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		got := c.GetHeader(APIKeyHeader)
		if got == "" {
			got = c.Query("api-key")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}

// RequestLogger tags each request with an id and logs it once finished.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
