// Package mcp provides an MCP (Model Context Protocol) server adapter for actionsync.
// It lets AI assistants refresh the action item section, push items to the
// tracker and inspect the document's anchors.
package mcp

import "errors"

// ErrMissingActionService is returned when the action item service is not provided.
var ErrMissingActionService = errors.New("mcp: action item service is required")
