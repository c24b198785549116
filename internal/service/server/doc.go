// Package server wires the repositories, services and HTTP transport
// together and runs the sentinel-server process with graceful shutdown.
package server
