// Reaction HTTP handlers.
//
//   - GET  /pages/{id}/reactions   (counts per kind)
//   - POST /pages/{id}/reactions   (react once per session)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/services"
)

// ReactRequest is the JSON payload for reacting to a page.
type ReactRequest struct {
	// heart | laugh | cry | angry | clap | salute
	Kind string `json:"kind" binding:"required" example:"heart"`
}

// ReactionResponse wraps a stored reaction.
type ReactionResponse struct {
	Reaction *domain.Reaction `json:"reaction"`
}

// ReactionSummaryResponse maps every kind to its count.
type ReactionSummaryResponse struct {
	Counts map[string]int64 `json:"counts"`
}

func reactionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidReaction):
		fail(c, http.StatusBadRequest, ErrCodeInvalidReaction, "unknown reaction kind")
	case errors.Is(err, services.ErrDuplicateReaction):
		fail(c, http.StatusConflict, ErrCodeAlreadyReacted, "already reacted to this page")
	case errors.Is(err, services.ErrPageNotFound):
		fail(c, http.StatusNotFound, ErrCodePageNotFound, "page not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "reaction storage failed")
	}
}

// React godoc
// @ID          react
// @Summary     React to a page
// @Tags        Reactions
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string                 false "Session identifier"
// @Param       id            path    string                 true  "Page id"
// @Param       body          body    handlers.ReactRequest  true  "Reaction"
// @Success     201  {object}  handlers.ReactionResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid kind"
// @Failure     404  {object}  handlers.ErrorResponse  "Page not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Already reacted"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pages/{id}/reactions [post]
func (h *Handlers) React(c *gin.Context) {
	pageID, good := pageParam(c)
	if !good {
		return
	}
	var req ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidReaction, "kind required")
		return
	}
	r, err := h.reactions.React(c.Request.Context(), sessionID(c), pageID, req.Kind)
	if err != nil {
		reactionError(c, err)
		return
	}
	ok(c, http.StatusCreated, ReactionResponse{Reaction: r})
}

// ReactionSummary godoc
// @ID          reactionSummary
// @Summary     Reaction counts
// @Tags        Reactions
// @Produce     json
// @Param       id  path  string  true  "Page id"
// @Success     200  {object}  handlers.ReactionSummaryResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Page not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /pages/{id}/reactions [get]
func (h *Handlers) ReactionSummary(c *gin.Context) {
	pageID, good := pageParam(c)
	if !good {
		return
	}
	counts, err := h.reactions.Summary(c.Request.Context(), pageID)
	if err != nil {
		reactionError(c, err)
		return
	}
	ok(c, http.StatusOK, ReactionSummaryResponse{Counts: counts})
}
