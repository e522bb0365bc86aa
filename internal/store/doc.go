// Package store owns the in-memory record state of one recording session:
// exactly one Meta record, exactly one Summary record, and a
// capacity-bounded circular buffer of Event records.
//
// The store is designed for a single logical writer. It performs no
// locking of its own; concurrent producers and consumers must serialize
// through one owner (see package recorder).
package store
