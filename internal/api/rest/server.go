package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kvasnikov/sentinel/internal/domain/sensor"
	"github.com/kvasnikov/sentinel/internal/service/query"
)

// Authenticator abstracts the credential directory the transport depends on.
type Authenticator interface {
	AuthenticateUser(ctx context.Context, username, secret string) (*sensor.User, error)
	AuthenticateSensor(ctx context.Context, id, secret string) (*sensor.Sensor, error)
}

// Engine abstracts the status engine operations exposed over HTTP.
type Engine interface {
	Ingest(ctx context.Context, sensorID string, isTriggered bool) (*sensor.Record, error)
	Reset(ctx context.Context, userID uint, sensorID string) (*sensor.Sensor, error)
}

// Query abstracts the read views exposed over HTTP.
type Query interface {
	CurrentUser(ctx context.Context, userID uint) (*query.UserView, error)
	OwnedSensors(ctx context.Context, userID uint) ([]query.SensorSummary, error)
	SensorDetail(ctx context.Context, userID uint, sensorID string, recordsLimit int) (*query.SensorDetail, error)
}

// Server wires the business services into gin handlers.
type Server struct {
	// auth resolves Basic credentials to principals.
	auth Authenticator
	// engine applies trigger events and resets.
	engine Engine
	// query serves the user-facing read views.
	query Query
}

// NewServer builds the HTTP handler set over the provided services.
func NewServer(auth Authenticator, engine Engine, q Query) *Server {
	return &Server{
		auth:   auth,
		engine: engine,
		query:  q,
	}
}

// currentUser handles GET /me.
func (s *Server) currentUser(c *gin.Context) {
	view, err := s.query.CurrentUser(c.Request.Context(), authenticatedUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// listSensors handles GET /sensors.
func (s *Server) listSensors(c *gin.Context) {
	summaries, err := s.query.OwnedSensors(c.Request.Context(), authenticatedUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// sensorDetail handles GET /sensors/:sensor_id.
func (s *Server) sensorDetail(c *gin.Context) {
	limit, ok := recordsLimit(c)
	if !ok {
		return
	}

	detail, err := s.query.SensorDetail(
		c.Request.Context(),
		authenticatedUserID(c),
		c.Param("sensor_id"),
		limit,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// resetSensor handles PUT /sensors/:sensor_id/reset.
func (s *Server) resetSensor(c *gin.Context) {
	_, err := s.engine.Reset(c.Request.Context(), authenticatedUserID(c), c.Param("sensor_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Sensor status reset successfully"})
}

// ingestRequest is the payload of POST /record. IsTriggered is a pointer so
// an explicit false passes required-field validation.
type ingestRequest struct {
	IsTriggered *bool `json:"is_triggered" binding:"required"`
}

// ingestRecord handles POST /record for the authenticated sensor.
func (s *Server) ingestRecord(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_triggered is required"})
		return
	}

	_, err := s.engine.Ingest(c.Request.Context(), authenticatedSensorID(c), *req.IsTriggered)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Record created"})
}

// recordsLimit parses the optional records_limit query parameter.
// Absent means "use the configured default" (reported as zero); present
// values must be positive integers.
func recordsLimit(c *gin.Context) (int, bool) {
	raw := c.Query("records_limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(c, sensor.ErrInvalidLimit)
		return 0, false
	}

	return limit, true
}
