// Package mcp provides an MCP (Model Context Protocol) server adapter for o365.
// It enables AI assistants like Claude to read mail, calendars, chats and files
// on the signed-in user's behalf.
package mcp

import "errors"

// Validation errors returned when a required service is not provided.
var (
	ErrMissingMailService     = errors.New("mcp: mail service is required")
	ErrMissingChatService     = errors.New("mcp: chat service is required")
	ErrMissingCalendarService = errors.New("mcp: calendar service is required")
	ErrMissingDriveService    = errors.New("mcp: drive service is required")
)
