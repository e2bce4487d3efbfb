package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// CommentsStats returns (count, latest updated_at) for pageID. Used to build
// weak ETags for comment listings.
func CommentsStats(ctx context.Context, db *gorm.DB, pageID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Comment{}).Where("page_id = ?", pageID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
