package mcp

import (
	"github.com/trinoor/o365-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Mail provides mailbox access.
	Mail driving.MailService

	// Chat provides Teams chat access.
	Chat driving.ChatService

	// Calendar provides calendar and event access.
	Calendar driving.CalendarService

	// Drive provides OneDrive and SharePoint file access.
	Drive driving.FilesService

	// Contacts resolves people from contacts and calendar history.
	Contacts driving.ContactsService

	// Recordings finds meeting recordings and transcripts.
	Recordings driving.RecordingsService

	// Settings backs the config resource.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Mail == nil {
		return ErrMissingMailService
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Calendar == nil {
		return ErrMissingCalendarService
	}
	if p.Drive == nil {
		return ErrMissingDriveService
	}
	// Contacts, Recordings and Settings are optional; the matching tools
	// and resources are simply not registered when they are absent.
	return nil
}
