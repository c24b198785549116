// Package relay implements the serial-to-cloud forwarder: it reads
// line-oriented output from a motion sensor device and pushes each
// observation to the sentinel server as the sensor principal. The relay is
// stateless and performs no retries; physical sensors re-report detections.
package relay
