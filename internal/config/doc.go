// Package config loads, validates and saves the YAML settings shared by the
// sentinel binaries. Environment variables (DATABASE_URL, SENTINEL_*) overlay
// the file so deployments can keep credentials out of the settings file.
package config
