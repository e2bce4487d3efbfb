package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// CreateReaction inserts a reaction; duplicates per (page, user) fail on the
// unique index and can be detected with IsDuplicate.
func CreateReaction(ctx context.Context, db *gorm.DB, pageID, userID, kind string) (*domain.Reaction, error) {
	r := &domain.Reaction{
		ID:        uuid.NewString(),
		PageID:    pageID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// CountReactionsByKind returns kind → count for pageID.
func CountReactionsByKind(ctx context.Context, db *gorm.DB, pageID string) (map[string]int64, error) {
	var rows []struct {
		Kind  string
		Total int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("kind, COUNT(*) AS total").
		Where("page_id = ?", pageID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Kind] = r.Total
	}
	return out, nil
}
