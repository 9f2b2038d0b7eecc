package domain

import "time"

// serviceCallTimeout caps a single dice service call from an MCP handler.
const serviceCallTimeout = 5 * time.Second
