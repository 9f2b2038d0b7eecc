// Package storage defines persistence contracts for roll history and usage
// statistics.
package storage
