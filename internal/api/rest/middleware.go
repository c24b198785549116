package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kvasnikov/sentinel/internal/logger"
)

const (
	// userKey is the gin context key holding the authenticated user id.
	userKey = "authenticated_user_id"
	// sensorKey is the gin context key holding the authenticated sensor id.
	sensorKey = "authenticated_sensor_id"
)

// requireUser authenticates the request with user Basic credentials.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		username, secret, ok := c.Request.BasicAuth()
		if !ok {
			challenge(c)
			return
		}

		user, err := s.auth.AuthenticateUser(c.Request.Context(), username, secret)
		if err != nil {
			challenge(c)
			return
		}

		c.Set(userKey, user.ID)
		c.Next()
	}
}

// requireSensor authenticates the request with sensor Basic credentials.
// The login is the sensor's own id, which scopes the request to that sensor.
func (s *Server) requireSensor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, secret, ok := c.Request.BasicAuth()
		if !ok {
			challenge(c)
			return
		}

		sens, err := s.auth.AuthenticateSensor(c.Request.Context(), id, secret)
		if err != nil {
			challenge(c)
			return
		}

		c.Set(sensorKey, sens.ID)
		c.Next()
	}
}

// authenticatedUserID returns the user id stored by requireUser.
func authenticatedUserID(c *gin.Context) uint {
	return c.GetUint(userKey)
}

// authenticatedSensorID returns the sensor id stored by requireSensor.
func authenticatedSensorID(c *gin.Context) string {
	return c.GetString(sensorKey)
}

// requestLogger attaches a named logger to the request context and logs each
// completed request with its status and duration.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logger.WithName(c.Request.Context(), "http")
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.InfoKV(ctx, "Request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// challenge rejects the request with a Basic auth challenge.
func challenge(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="sentinel"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "incorrect username or password"})
}
