// Package service wires protocol transport to the dice MCP handlers.
//
// It is the transport adapter layer: the package knows how to run MCP over
// stdio or streamable HTTP and delegates meaning to the handlers in the MCP
// domain package.
package service
