// Wizard HTTP handlers.
//
//   - GET   /wizard              (state)
//   - PATCH /wizard              (update fields)
//   - POST  /wizard/next         (validate step and advance)
//   - POST  /wizard/back         (go back one step)
//   - POST  /wizard/regenerate   (generate a new message)
//
// An incomplete step answers 422 with the missing field names.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/services"
)

// WizardResponse is the wizard state after an operation. Generation is set
// when the call produced a message.
type WizardResponse struct {
	services.WizardState
}

func wizardError(c *gin.Context, err error) {
	var se *services.StepError
	switch {
	case errors.As(err, &se):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, StepErrorResponse{
			ErrorResponse: ErrorResponse{
				RequestID: c.Writer.Header().Get("X-Request-ID"),
				Code:      ErrCodeStepIncomplete,
				Message:   se.Error(),
			},
			Step:    se.Step,
			Missing: se.Missing,
		})
	case errors.Is(err, services.ErrInvalidRequest):
		fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidRequest, err.Error())
	default:
		draftError(c, err)
	}
}

func (h *Handlers) wizardReply(c *gin.Context, st services.WizardState, err error) {
	if err != nil {
		wizardError(c, err)
		return
	}
	ok(c, http.StatusOK, WizardResponse{WizardState: st})
}

// GetWizard godoc
// @ID          getWizard
// @Summary     Wizard state
// @Description Returns the draft, the current step and the fields it still needs.
// @Tags        Wizard
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     200  {object}  handlers.WizardResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /wizard [get]
func (h *Handlers) GetWizard(c *gin.Context) {
	st, err := h.wizard.State(c.Request.Context(), sessionID(c))
	h.wizardReply(c, st, err)
}

// PatchWizard godoc
// @ID          patchWizard
// @Summary     Update wizard fields
// @Tags        Wizard
// @Accept      json
// @Produce     json
// @Param       X-Session-ID  header  string             false "Session identifier"
// @Param       body          body    domain.DraftPatch  true  "Fields to change"
// @Success     200  {object}  handlers.WizardResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /wizard [patch]
func (h *Handlers) PatchWizard(c *gin.Context) {
	p, good := bindPatch(c)
	if !good {
		return
	}
	st, err := h.wizard.Update(c.Request.Context(), sessionID(c), p)
	h.wizardReply(c, st, err)
}

// NextStep godoc
// @ID          wizardNext
// @Summary     Advance the wizard
// @Description Validates the current step and moves to the next. Entering the
// @Description message step with an empty message generates one.
// @Tags        Wizard
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     200  {object}  handlers.WizardResponse
// @Failure     422  {object}  handlers.StepErrorResponse  "Step incomplete"
// @Failure     500  {object}  handlers.ErrorResponse      "Storage error"
// @Router      /wizard/next [post]
func (h *Handlers) NextStep(c *gin.Context) {
	st, err := h.wizard.Next(c.Request.Context(), sessionID(c))
	h.wizardReply(c, st, err)
}

// PrevStep godoc
// @ID          wizardBack
// @Summary     Go back one step
// @Tags        Wizard
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     200  {object}  handlers.WizardResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /wizard/back [post]
func (h *Handlers) PrevStep(c *gin.Context) {
	st, err := h.wizard.Back(c.Request.Context(), sessionID(c))
	h.wizardReply(c, st, err)
}

// Regenerate godoc
// @ID          wizardRegenerate
// @Summary     Regenerate the message
// @Description Runs the generator again and replaces the draft message.
// @Tags        Wizard
// @Produce     json
// @Param       X-Session-ID  header  string  false "Session identifier"
// @Success     200  {object}  handlers.WizardResponse
// @Failure     422  {object}  handlers.ErrorResponse  "Name or mood missing"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage error"
// @Router      /wizard/regenerate [post]
func (h *Handlers) Regenerate(c *gin.Context) {
	st, err := h.wizard.Regenerate(c.Request.Context(), sessionID(c))
	h.wizardReply(c, st, err)
}
