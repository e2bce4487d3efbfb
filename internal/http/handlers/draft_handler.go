// Draft HTTP handlers.
//
// This file exposes the session's exit page draft and its published view:
//   - GET    /draft           (load)
//   - PUT    /draft           (replace)
//   - PATCH  /draft           (merge-patch)
//   - DELETE /draft           (clear)
//   - POST   /draft/publish   (stamp publish time)
//   - GET    /pages/{id}      (published page of session {id})
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/http/middleware"
	"github.com/tbourn/go-exitpage-backend/internal/services"
)

// DraftResponse wraps a stored draft.
type DraftResponse struct {
	Draft *domain.ExitPageDraft `json:"draft"`
}

// PageResponse is the public view of a published page. Author contact is
// withheld.
type PageResponse struct {
	ID   string               `json:"id" example:"tab-3f9c"`
	Page domain.ExitPageDraft `json:"page"`
}

// draftError maps DraftService errors onto the envelope.
func draftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		fail(c, http.StatusNotFound, ErrCodeDraftNotFound, "no draft for this session")
	case errors.Is(err, services.ErrPageNotFound):
		fail(c, http.StatusNotFound, ErrCodePageNotFound, "page not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeStorageFailed, "draft storage failed")
	}
}

func bindPatch(c *gin.Context) (domain.DraftPatch, bool) {
	var p domain.DraftPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid draft body")
		return p, false
	}
	return services.SanitizePatch(p), true
}

// GetDraft godoc
// @ID          getDraft
// @Summary     Load the draft
// @Description Returns the exit page draft owned by the calling session.
// @Tags        Draft
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     200  {object}  handlers.DraftResponse
// @Failure     404  {object}  handlers.ErrorResponse  "No draft"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /draft [get]
func (h *Handlers) GetDraft(c *gin.Context) {
	d, err := h.drafts.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		draftError(c, err)
		return
	}
	if d == nil {
		draftError(c, services.ErrDraftNotFound)
		return
	}
	ok(c, http.StatusOK, DraftResponse{Draft: d})
}

// PutDraft godoc
// @ID          putDraft
// @Summary     Replace the draft
// @Description Overwrites the draft with the given fields. created_at and the
// @Description current wizard step are kept.
// @Tags        Draft
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string             false "Session identifier"
// @Param       body          body    domain.DraftPatch  true  "Draft fields"
// @Success     200  {object}  handlers.DraftResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /draft [put]
func (h *Handlers) PutDraft(c *gin.Context) {
	p, good := bindPatch(c)
	if !good {
		return
	}
	d, err := h.drafts.Replace(c.Request.Context(), sessionID(c), p)
	if err != nil {
		draftError(c, err)
		return
	}
	ok(c, http.StatusOK, DraftResponse{Draft: d})
}

// PatchDraft godoc
// @ID          patchDraft
// @Summary     Merge-patch the draft
// @Description Applies the present fields onto the stored draft (creating it when
// @Description absent). For audio_url and sound_effect_id an empty string clears the value.
// @Tags        Draft
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string             false "Session identifier"
// @Param       body          body    domain.DraftPatch  true  "Fields to change"
// @Success     200  {object}  handlers.DraftResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /draft [patch]
func (h *Handlers) PatchDraft(c *gin.Context) {
	p, good := bindPatch(c)
	if !good {
		return
	}
	d, err := h.drafts.Patch(c.Request.Context(), sessionID(c), p)
	if err != nil {
		draftError(c, err)
		return
	}
	ok(c, http.StatusOK, DraftResponse{Draft: d})
}

// DeleteDraft godoc
// @ID          deleteDraft
// @Summary     Clear the draft
// @Tags        Draft
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     204  "Cleared"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /draft [delete]
func (h *Handlers) DeleteDraft(c *gin.Context) {
	if err := h.drafts.Clear(c.Request.Context(), sessionID(c)); err != nil {
		draftError(c, err)
		return
	}
	noContent(c)
}

// PublishDraft godoc
// @ID          publishDraft
// @Summary     Publish the draft
// @Description Stamps published_at; the page becomes visible at /pages/{session id}.
// @Tags        Draft
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     200  {object}  handlers.DraftResponse
// @Failure     404  {object}  handlers.ErrorResponse  "No draft"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /draft/publish [post]
func (h *Handlers) PublishDraft(c *gin.Context) {
	d, err := h.drafts.Publish(c.Request.Context(), sessionID(c))
	if err != nil {
		draftError(c, err)
		return
	}
	ok(c, http.StatusOK, DraftResponse{Draft: d})
}

// GetPage godoc
// @ID          getPage
// @Summary     View a published page
// @Tags        Pages
// @Produce     json
// @Param       id   path  string  true  "Page id (owner session id)"
// @Success     200  {object}  handlers.PageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad page id"
// @Failure     404  {object}  handlers.ErrorResponse  "Not published"
// @Router      /pages/{id} [get]
func (h *Handlers) GetPage(c *gin.Context) {
	pageID, good := pageParam(c)
	if !good {
		return
	}
	d, err := h.drafts.Page(c.Request.Context(), pageID)
	if err != nil {
		draftError(c, err)
		return
	}
	page := *d
	page.AuthorContact = ""
	ok(c, http.StatusOK, PageResponse{ID: pageID, Page: page})
}

// pageParam validates the :id path segment, which is a session id.
func pageParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !middleware.ValidSessionID(id) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid page id")
		return "", false
	}
	return id, true
}
