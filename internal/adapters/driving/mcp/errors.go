// Package mcp provides an MCP (Model Context Protocol) server adapter for f5lake.
// It lets AI assistants parse access-log lines and inspect batch history.
package mcp

import "errors"

// ErrMissingParseService is returned when the parse service is not provided.
var ErrMissingParseService = errors.New("mcp: parse service is required")
