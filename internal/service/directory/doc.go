// Package directory authenticates presented credential pairs against the
// user and sensor directory. Users log in with their chosen name, sensors
// with their own id; the two credential tables are disjoint.
package directory
