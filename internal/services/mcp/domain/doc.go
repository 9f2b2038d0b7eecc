// Package domain translates MCP tool calls and resource reads into dice
// service operations.
//
// Handlers stay thin: they normalize MCP input, call the dice service, and
// shape its results into JSON payloads that MCP clients can render. Notation
// errors come back as tool results flagged IsError so the model can read the
// localized message and correct its input.
package domain
