// Package session implements the in-memory visit store.
//
// The store holds at most one Session. It has no read or write path to any storage medium and no
// serialization of its own: a visit's data exists only between Begin and Clear.
package session
