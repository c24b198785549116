// Package record is the persistence adapter for the append-only trigger
// event log, queryable newest-first with a bounded limit.
package record
