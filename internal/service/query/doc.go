// Package query builds the read views served to users: the current profile,
// the owned-sensor listing and the sensor detail with recent records.
package query
