// Package directory is the persistence adapter for the user and sensor
// directory: credential lookups, ownership queries and the guarded status
// write used by the status engine.
package directory
