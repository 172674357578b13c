package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/trinoor/o365-cli/internal/core/domain"
)

// ListContactsInput is the input schema for the list_contacts tool.
type ListContactsInput struct{}

// ListContactsOutput is the output schema for the list_contacts tool.
type ListContactsOutput struct {
	People []PersonOutput `json:"people"`
	Count  int            `json:"count"`
}

// PersonOutput is one person in a contacts listing.
type PersonOutput struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Source string `json:"source,omitempty"`
}

// handleListContacts handles the list_contacts tool invocation.
func (s *Server) handleListContacts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListContactsInput,
) (*mcp.CallToolResult, ListContactsOutput, error) {
	people, err := s.ports.Contacts.People(ctx)
	if err != nil {
		return nil, ListContactsOutput{}, err
	}

	return nil, ListContactsOutput{
		People: personOutputs(people),
		Count:  len(people),
	}, nil
}

// SearchContactsInput is the input schema for the search_contacts tool.
type SearchContactsInput struct {
	Query string `json:"query" jsonschema:"a name or email fragment to look up"`
}

// SearchContactsOutput is the output schema for the search_contacts tool.
type SearchContactsOutput struct {
	People []PersonOutput `json:"people"`
	Count  int            `json:"count"`
}

// handleSearchContacts handles the search_contacts tool invocation.
func (s *Server) handleSearchContacts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchContactsInput,
) (*mcp.CallToolResult, SearchContactsOutput, error) {
	people, err := s.ports.Contacts.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchContactsOutput{}, err
	}

	return nil, SearchContactsOutput{
		People: personOutputs(people),
		Count:  len(people),
	}, nil
}

func personOutputs(people []domain.Person) []PersonOutput {
	out := make([]PersonOutput, len(people))
	for i, p := range people {
		out[i] = PersonOutput{Name: p.Name, Email: p.Email, Source: p.Source}
	}
	return out
}
