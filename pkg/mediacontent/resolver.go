package mediacontent

import (
	"context"
	"errors"
	"fmt"
)

// resolveCategory maps a caller-supplied token to a canonical category
// restricted to one content kind. Id tokens are looked up directly; a hit for
// the wrong kind is a mismatch, not a miss. An id token with no match falls
// back to a name lookup so legacy clients that send display names where ids
// belong still resolve. Read-only: resolution has no side effects.
func (s *service) resolveCategory(ctx context.Context, token CategoryToken, kind ContentKind) (*Category, error) {
	if token.Kind == TokenID {
		category, err := s.repository.GetCategoryByID(ctx, token.ID)
		switch {
		case err == nil:
			if category.Kind != kind {
				return nil, fmt.Errorf("%w: category %s belongs to %s, not %s",
					ErrCategoryMismatch, category.ID, category.Kind, kind)
			}
			return category, nil
		case errors.Is(err, ErrCategoryNotFound):
			// Fall through to the name lookup with the raw token.
			token = CategoryToken{Kind: TokenName, Name: token.ID.String()}
		default:
			return nil, err
		}
	}

	category, err := s.repository.GetCategoryByName(ctx, kind, token.Name)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, fmt.Errorf("%w: no %s category matches %q", ErrCategoryNotFound, kind, token.Name)
		}
		return nil, err
	}
	return category, nil
}
