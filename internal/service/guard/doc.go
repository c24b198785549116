// Package guard enforces sensor ownership. Not-found always wins over
// not-owned so probing requests cannot distinguish other users' sensors
// from sensors that do not exist.
package guard
