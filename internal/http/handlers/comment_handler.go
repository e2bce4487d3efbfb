// Comment HTTP handlers.
//
// This file exposes the guest book of a published page:
//   - GET    /pages/{id}/comments               (list, paginated, ETag support)
//   - POST   /pages/{id}/comments               (add)
//   - DELETE /pages/{id}/comments/{commentId}   (remove; writer or page owner)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/services"
	"github.com/tbourn/go-exitpage-backend/internal/utils"
)

// CreateCommentRequest is the JSON payload for adding a comment.
type CreateCommentRequest struct {
	// Author defaults to "Anonymous".
	Author string `json:"author" example:"Sam"`
	Body   string `json:"body" binding:"required" example:"Good luck out there!"`
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment *domain.Comment `json:"comment"`
}

// ListCommentsResponse is a page of comments with pagination metadata.
type ListCommentsResponse struct {
	Comments   []domain.Comment `json:"comments"`
	Pagination Pagination       `json:"pagination"`
}

func commentError(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrPageNotFound):
		fail(c, http.StatusNotFound, ErrCodePageNotFound, "page not found")
	case errors.Is(err, services.ErrEmptyComment):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "comment body required")
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeCommentTooLong, err.Error())
	case errors.Is(err, services.ErrCommentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "comment not found")
	case errors.Is(err, services.ErrForbiddenComment):
		fail(c, http.StatusForbidden, ErrCodeForbidden, "only the writer or the page owner can delete a comment")
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, "comment storage failed")
	}
}

// ListComments godoc
// @ID          listComments
// @Summary     List comments on a page
// @Description Returns comments oldest first. Sends a weak ETag; a matching
// @Description If-None-Match yields 304.
// @Tags        Comments
// @Produce     json
// @Param       id         path   string  true  "Page id"
// @Param       page       query  int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListCommentsResponse
// @Success     304  "Not modified"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad page id"
// @Failure     404  {object}  handlers.ErrorResponse  "Page not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pages/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	ctx := c.Request.Context()
	pageID, good := pageParam(c)
	if !good {
		return
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.comments.Stats(ctx, pageID); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"comments:%s:%d:%d"`, pageID, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	page, pageSize, _ := utils.Paginate(
		utils.AtoiDefault(c.Query("page"), 1),
		utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize),
		100,
	)
	items, total, err := h.comments.ListPage(ctx, pageID, page, pageSize)
	if err != nil {
		commentError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListCommentsResponse{
		Comments:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a page
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string                         false "Session identifier"
// @Param       id            path    string                         true  "Page id"
// @Param       body          body    handlers.CreateCommentRequest  true  "Comment"
// @Success     201  {object}  handlers.CommentResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Page not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pages/{id}/comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	pageID, good := pageParam(c)
	if !good {
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "comment body required")
		return
	}
	cm, err := h.comments.Create(c.Request.Context(), sessionID(c), pageID, req.Author, req.Body)
	if err != nil {
		commentError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, CommentResponse{Comment: cm})
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Description Allowed for the session that wrote the comment and for the page owner.
// @Tags        Comments
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Param       id            path    string  true  "Page id"
// @Param       commentId     path    string  true  "Comment id (UUID)"  format(uuid)
// @Success     204  "Deleted"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse  "Not allowed"
// @Failure     404  {object}  handlers.ErrorResponse  "Comment not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pages/{id}/comments/{commentId} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) {
	pageID, good := pageParam(c)
	if !good {
		return
	}
	commentID := c.Param("commentId")
	if _, err := uuid.Parse(commentID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "comment id must be a UUID")
		return
	}
	if err := h.comments.Delete(c.Request.Context(), sessionID(c), pageID, commentID); err != nil {
		commentError(c, err, ErrCodeInternal)
		return
	}
	noContent(c)
}
