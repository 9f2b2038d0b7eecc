// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// OTelShutdown bounds the final span flush when a binary exits.
const OTelShutdown = 5 * time.Second

// Storage caps a single history store call made on behalf of a roll.
const Storage = 2 * time.Second
