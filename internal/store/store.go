// Package store contains the PostgreSQL persistence layer for blueprints,
// run history, and document chunks, plus the in-memory table of live run
// state. All SQL stores operate on a shared pgxpool.Pool injected at
// construction.
package store

import "errors"

// ErrNotFound is returned by lookups whose row does not exist.
var ErrNotFound = errors.New("not found")
