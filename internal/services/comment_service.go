// Package services – CommentService
//
// CommentService manages guest-book comments on published exit pages. It
// sanitizes input, checks that the page exists, and enforces delete rights:
// a comment can be removed by its writer or by the page owner.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/repo"
	"github.com/tbourn/go-exitpage-backend/internal/utils"
)

// AnonymousAuthor is stored when a commenter leaves no name.
const AnonymousAuthor = "Anonymous"

// PageLookup resolves a page id to its published draft, returning
// ErrPageNotFound when there is none. DraftService implements it.
type PageLookup interface {
	Page(ctx context.Context, pageID string) (*domain.ExitPageDraft, error)
}

// CommentService implements the page comment use-cases.
type CommentService struct {
	DB    *gorm.DB
	Pages PageLookup

	// MaxBodyRunes rejects longer bodies with ErrTooLong; defaults to
	// MaxFieldRunes.
	MaxBodyRunes int
	// MaxPageSize caps list requests; 0 means 100.
	MaxPageSize int
}

func (s *CommentService) maxBody() int {
	if s.MaxBodyRunes > 0 && s.MaxBodyRunes < MaxFieldRunes {
		return s.MaxBodyRunes
	}
	return MaxFieldRunes
}

func (s *CommentService) requirePage(ctx context.Context, pageID string) error {
	if s.Pages == nil {
		return nil
	}
	if _, err := s.Pages.Page(ctx, pageID); err != nil {
		return err
	}
	return nil
}

// Create adds a comment by sessionID on pageID.
func (s *CommentService) Create(ctx context.Context, sessionID, pageID, author, body string) (*domain.Comment, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("page.id", pageID),
			attribute.String("session.id", sessionID),
		),
	)
	defer span.End()

	stripped := strings.TrimSpace(angleStripper.Replace(body))
	if stripped == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(stripped) > s.maxBody() {
		return nil, ErrTooLong
	}
	body = Sanitize(stripped)

	author = Sanitize(author)
	if author == "" {
		author = AnonymousAuthor
	}

	if err := s.requirePage(ctx, pageID); err != nil {
		return nil, err
	}
	return repo.CreateComment(ctx, s.DB, pageID, sessionID, author, body)
}

// ListPage returns comments on pageID, oldest first, with the total count.
func (s *CommentService) ListPage(ctx context.Context, pageID string, page, pageSize int) ([]domain.Comment, int64, error) {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("page.id", pageID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	maxSize := s.MaxPageSize
	if maxSize <= 0 {
		maxSize = 100
	}
	_, pageSize, offset := utils.Paginate(page, pageSize, maxSize)

	if err := s.requirePage(ctx, pageID); err != nil {
		return nil, 0, err
	}

	total, err := repo.CountComments(ctx, s.DB, pageID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Comment{}, 0, nil
	}
	items, err := repo.ListCommentsPage(ctx, s.DB, pageID, offset, pageSize)
	return items, total, err
}

// Stats returns (count, latest update) for ETag generation.
func (s *CommentService) Stats(ctx context.Context, pageID string) (int64, *time.Time, error) {
	return repo.CommentsStats(ctx, s.DB, pageID)
}

// Delete removes commentID from pageID on behalf of sessionID.
//
// Errors:
//   - ErrCommentNotFound when the comment does not exist on the page.
//   - ErrForbiddenComment when sessionID is neither the writer nor the page
//     owner.
func (s *CommentService) Delete(ctx context.Context, sessionID, pageID, commentID string) error {
	tr := otel.Tracer("services/CommentService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("page.id", pageID),
			attribute.String("comment.id", commentID),
		),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := repo.GetComment(ctx, tx, pageID, commentID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if c.SessionID != sessionID && pageID != sessionID {
			return ErrForbiddenComment
		}
		if err := repo.DeleteComment(ctx, tx, pageID, commentID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		return nil
	})
}
