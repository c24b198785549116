// Package rest exposes the monitoring operations over HTTP with Basic
// authentication: profile and sensor reads plus reset for users, record
// ingestion for sensors. Handlers stay thin; all decisions live in the
// services behind the Authenticator, Engine and Query interfaces.
package rest
