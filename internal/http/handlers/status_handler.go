// Status HTTP handlers.
//
//   - GET  /status         (availability of the remote generator)
//   - POST /status/probe   (force a health probe)
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-exitpage-backend/internal/domain"
)

// StatusResponse reports the last known availability of the generator.
type StatusResponse struct {
	// unknown | connected | error
	Status string `json:"status" example:"connected"`
	// loading | connected | error
	Connection      string     `json:"connection" example:"connected"`
	LikelyAvailable bool       `json:"likely_available" example:"true"`
	LastCheckedAt   *time.Time `json:"last_checked_at,omitempty"`
	LastSuccessAt   *time.Time `json:"last_success_at,omitempty"`
	ErrorDetail     string     `json:"error_detail,omitempty" example:"status 503"`
}

func statusResponse(rec domain.AvailabilityRecord, likely bool) StatusResponse {
	resp := StatusResponse{
		Status:          string(rec.Status),
		Connection:      rec.Status.ConnectionLabel(),
		LikelyAvailable: likely,
		LastSuccessAt:   rec.LastSuccessAt,
		ErrorDetail:     rec.ErrorDetail,
	}
	if !rec.LastCheckedAt.IsZero() {
		t := rec.LastCheckedAt
		resp.LastCheckedAt = &t
	}
	return resp
}

// GetStatus godoc
// @ID          getStatus
// @Summary     Generator availability
// @Description Returns the most recent availability record of the remote generator,
// @Description including one mirrored by another instance sharing the store, and
// @Description whether generation will be attempted.
// @Tags        Status
// @Produce     json
// @Success     200  {object}  handlers.StatusResponse
// @Router      /status [get]
func (h *Handlers) GetStatus(c *gin.Context) {
	ok(c, http.StatusOK, statusResponse(h.status.Current(c.Request.Context())))
}

// ProbeStatus godoc
// @ID          probeStatus
// @Summary     Probe the generator
// @Description Runs a health check against the remote generator now (up to two
// @Description attempts, 5 s each) and returns the updated record.
// @Tags        Status
// @Produce     json
// @Success     200  {object}  handlers.StatusResponse
// @Failure     429  {object}  handlers.ErrorResponse  "Rate limited"
// @Router      /status/probe [post]
func (h *Handlers) ProbeStatus(c *gin.Context) {
	rec := h.status.Probe(c.Request.Context())
	ok(c, http.StatusOK, statusResponse(rec, h.status.IsLikelyAvailable()))
}
