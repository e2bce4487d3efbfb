// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for page comments.
//
// All functions are context-aware and accept a *gorm.DB handle, so they work
// inside transactions as well. No business rules live here: ownership and
// validation are enforced by services.CommentService.
//
// Error semantics:
//   - Missing rows surface as ErrNotFound (alias of gorm.ErrRecordNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateComment inserts a comment on pageID written by sessionID.
func CreateComment(ctx context.Context, db *gorm.DB, pageID, sessionID, author, body string) (*domain.Comment, error) {
	now := time.Now().UTC()
	c := &domain.Comment{
		ID:        uuid.NewString(),
		PageID:    pageID,
		SessionID: sessionID,
		Author:    author,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountComments returns the number of live comments on pageID.
func CountComments(ctx context.Context, db *gorm.DB, pageID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("page_id = ?", pageID).
		Count(&total).Error
	return total, err
}

// ListCommentsPage returns comments on pageID oldest first.
func ListCommentsPage(ctx context.Context, db *gorm.DB, pageID string, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetComment fetches a comment by id within pageID.
func GetComment(ctx context.Context, db *gorm.DB, pageID, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := db.WithContext(ctx).
		Where("id = ? AND page_id = ?", id, pageID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment soft-deletes a comment. It returns ErrNotFound when nothing
// was deleted.
func DeleteComment(ctx context.Context, db *gorm.DB, pageID, id string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND page_id = ?", id, pageID).
		Delete(&domain.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
