package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	"github.com/kvasnikov/sentinel/internal/logger"
)

// writeError maps domain errors onto HTTP statuses.
// Not-found is produced before not-owned by the guard, so the mapping here
// never has to arbitrate between the two.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sensor.ErrBadCredentials):
		challenge(c)
	case errors.Is(err, sensor.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": sensor.ErrUserNotFound.Error()})
	case errors.Is(err, sensor.ErrSensorNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": sensor.ErrSensorNotFound.Error()})
	case errors.Is(err, sensor.ErrNotOwned):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": sensor.ErrNotOwned.Error()})
	case errors.Is(err, sensor.ErrInvalidLimit):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": sensor.ErrInvalidLimit.Error()})
	default:
		logger.ErrorKV(c.Request.Context(), "Request failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
