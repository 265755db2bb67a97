// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism (PostgreSQL,
// Redis, or the in-memory store used for local runs and tests) from the
// request handling logic.
package store
