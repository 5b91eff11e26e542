// Package sqlite provides the durable SQLite-backed product store.
// The schema lives in embedded migrations under migrations/.
package sqlite
