// Farewell HTTP handlers.
//
//   - POST /farewells   (generate a farewell message)
//
// Generation never fails on backend outages: the service degrades to a
// template and reports Outcome "fallback". Only invalid input is an error.
//
// Idempotency:
// With an Idempotency-Key header, the first successful result for
// (session, route, key) is recorded and replayed verbatim for later requests,
// marked with `Idempotency-Replayed: true`.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
	"github.com/tbourn/go-exitpage-backend/internal/http/middleware"
	"github.com/tbourn/go-exitpage-backend/internal/services"
)

// GenerateFarewellRequest is the JSON payload for POST /farewells.
type GenerateFarewellRequest struct {
	RequesterName    string `json:"requester_name" binding:"required" example:"Alex"`
	RequesterContact string `json:"requester_contact" example:"alex@example.com"`
	Mood             string `json:"mood" binding:"required" example:"heartfelt"`
	RelationshipType string `json:"relationship_type" example:"job"`
	ContextText      string `json:"context_text" example:"Leaving after 5 years"`
	PageTitle        string `json:"page_title" example:"So long"`
}

func (r GenerateFarewellRequest) toService() services.GenerationRequest {
	return services.GenerationRequest{
		RequesterName:    r.RequesterName,
		RequesterContact: r.RequesterContact,
		Mood:             domain.Mood(r.Mood),
		RelationshipType: r.RelationshipType,
		ContextText:      r.ContextText,
		PageTitle:        r.PageTitle,
	}
}

// FarewellResponse is the generation result.
type FarewellResponse struct {
	Message string `json:"message" example:"Alex, thank you for five wonderful years."`
	// generated | cached | fallback
	Outcome  string `json:"outcome" example:"generated"`
	Attempts int    `json:"attempts" example:"1"`
	// Degraded is true when the message came from the local templates.
	Degraded bool `json:"degraded" example:"false"`
}

func farewellResponse(r services.Result) FarewellResponse {
	return FarewellResponse{
		Message:  r.Message,
		Outcome:  string(r.Outcome),
		Attempts: r.Attempts,
		Degraded: r.Degraded(),
	}
}

// GenerateFarewell godoc
// @ID          generateFarewell
// @Summary     Generate a farewell message
// @Description Generates a farewell for the given mood and context. Falls back to a
// @Description mood template when the remote generator is unavailable.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Farewells
// @Accept      json
// @Produce     json
//
// @Param       X-Session-ID     header  string  false "Session identifier"  example(tab-3f9c)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.GenerateFarewellRequest  true  "Generation input"
//
// @Success     200  {object}  handlers.FarewellResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /farewells [post]
func (h *Handlers) GenerateFarewell(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	var req GenerateFarewellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidRequest, "requester_name and mood are required")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := c.FullPath()
	if idemKey != "" && h.idem != nil {
		if rec, err := h.idem.Get(ctx, sid, scope, idemKey, time.Now().UTC()); err == nil && rec != nil {
			var prev FarewellResponse
			if json.Unmarshal([]byte(rec.Result), &prev) == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, rec.Status, prev)
				return
			}
			middleware.LoggerFrom(c).Warn().Msg("discarding unreadable idempotent result")
		}
	}

	res, err := h.farewells.Generate(ctx, sid, req.toService())
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, "generation failed")
		return
	}
	resp := farewellResponse(res)

	// Degraded results are not recorded so a retry can reach the backend.
	if idemKey != "" && h.idem != nil && !resp.Degraded {
		if b, err := json.Marshal(resp); err == nil {
			if err := h.idem.Create(ctx, sid, scope, idemKey, string(b), http.StatusOK, h.idemTTL); err != nil {
				middleware.LoggerFrom(c).Debug().Err(err).Msg("idempotent result not recorded")
			}
		}
	}

	ok(c, http.StatusOK, resp)
}
