package graph

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/trinoor/o365-cli/internal/core/ports/driven"
)

// managerTokenSource adapts a TokenManager to oauth2.TokenSource so
// the standard oauth2 transport can attach credentials. Refresh
// decisions stay inside the manager; this only hands over whatever
// token the manager considers current.
type managerTokenSource struct {
	tokens driven.TokenManager
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	access, err := s.tokens.AccessToken(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

// TokenSource exposes a manager-backed oauth2.TokenSource for callers
// composing their own HTTP clients.
func TokenSource(tokens driven.TokenManager) oauth2.TokenSource {
	return &managerTokenSource{tokens: tokens}
}
