// Package id generates opaque identifiers for stored records.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// encoding is base32hex, whose alphabet sorts in byte order, so ids compare
// like the UUIDs they encode.
var encoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// NewID returns a UUIDv7 encoded as 26 lowercase base32hex characters. Ids
// from one process sort by creation time.
func NewID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return strings.ToLower(encoding.EncodeToString(u[:])), nil
}
