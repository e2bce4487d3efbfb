package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
)

// ReactionService lets visitors react once per page.
type ReactionService struct {
	DB    *gorm.DB
	Pages PageLookup
}

// React records kind from sessionID on pageID.
//
// Errors: ErrInvalidReaction for unknown kinds, ErrPageNotFound for unknown
// pages, ErrDuplicateReaction when sessionID already reacted.
func (s *ReactionService) React(ctx context.Context, sessionID, pageID, kind string) (*domain.Reaction, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !domain.ValidReactionKind(kind) {
		return nil, ErrInvalidReaction
	}
	if s.Pages != nil {
		if _, err := s.Pages.Page(ctx, pageID); err != nil {
			return nil, err
		}
	}
	r, err := repo.CreateReaction(ctx, s.DB, pageID, sessionID, kind)
	if err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrDuplicateReaction
		}
		return nil, err
	}
	return r, nil
}

// Summary returns the count of every reaction kind on pageID, zero-filled.
func (s *ReactionService) Summary(ctx context.Context, pageID string) (map[string]int64, error) {
	if s.Pages != nil {
		if _, err := s.Pages.Page(ctx, pageID); err != nil {
			return nil, err
		}
	}
	counts, err := repo.CountReactionsByKind(ctx, s.DB, pageID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(domain.ReactionKinds))
	for _, k := range domain.ReactionKinds {
		out[k] = counts[k]
	}
	return out, nil
}
