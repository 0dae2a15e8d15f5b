package search

import (
	"context"
	"strings"

	"pingchat/internal/dbmysql"
	"pingchat/internal/user"
)

// Service looks up directory records by email or display name prefix.
type Service interface {
	SearchUsers(ctx context.Context, term string) ([]*dbmysql.User, error)
}

type searchService struct {
	users user.UserRepository
}

func NewService(users user.UserRepository) Service {
	return &searchService{users: users}
}

// SearchUsers returns the union of the email and display-name prefix
// matches, deduplicated by uid with first occurrence kept. An empty
// term returns an empty result without querying. No relevance ranking:
// order is whatever the two queries returned.
func (s *searchService) SearchUsers(ctx context.Context, term string) ([]*dbmysql.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*dbmysql.User{}, nil
	}

	matches, err := s.users.FindByEmailOrName(ctx, term)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(matches))
	results := make([]*dbmysql.User, 0, len(matches))
	for _, m := range matches {
		if seen[m.UID] {
			continue
		}
		seen[m.UID] = true
		results = append(results, m)
	}

	return results, nil
}
