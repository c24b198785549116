// Package engine implements the sensor status engine: it applies trigger
// observations to the CALM/WARNING/ALERT state machine, persists transitions
// and record appends in a defined order, and serializes concurrent
// read-modify-write cycles per sensor.
package engine
