// Package sqlite provides a SQLite-backed roll history store.
package sqlite
