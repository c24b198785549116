// Package sensor contains core domain types for sensor monitoring.
//
// It defines the persisted entities (User, Sensor, Record), the Status
// escalation levels with the pure Apply transition function, and the
// sentinel errors shared by all layers.
package sensor
