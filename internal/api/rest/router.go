package rest

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router assembles the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	// User-facing read and reset operations.
	users := r.Group("/", s.requireUser())
	users.GET("/me", s.currentUser)
	users.GET("/sensors", s.listSensors)
	users.GET("/sensors/:sensor_id", s.sensorDetail)
	users.PUT("/sensors/:sensor_id/reset", s.resetSensor)

	// Sensor-facing ingestion.
	sensors := r.Group("/", s.requireSensor())
	sensors.POST("/record", s.ingestRecord)

	return r
}
