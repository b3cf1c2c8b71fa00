package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointo/config"
	bookingRepo "appointo/database/repository/booking"
	serviceRepo "appointo/database/repository/service"
	staffRepo "appointo/database/repository/staff"
	tenantRepo "appointo/database/repository/tenant"
	"appointo/models"
	"appointo/services/booking"
	"appointo/utils"
)

// DecisionCache is the fast replay path for accepted booking decisions,
// keyed per tenant and requestId. A miss is reported as an error.
type DecisionCache interface {
	GetDecision(ctx context.Context, key string) ([]byte, error)
	SetDecision(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// BookingHandler exposes the booking engine over HTTP.
type BookingHandler struct {
	Engine booking.Engine
	Cache  DecisionCache
	Logger *zap.Logger
}

// NewBookingHandler wires the engine and the decision replay cache.
func NewBookingHandler(engine booking.Engine, cache DecisionCache, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Cache: cache, Logger: logger}
}

// RequestBooking handles POST /bookings: the booking request entry point.
func (h *BookingHandler) RequestBooking(c *gin.Context) {
	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	input.TenantID = c.Param("tenantID")

	ctx := c.Request.Context()
	cacheKey := decisionCacheKey(input.TenantID, input.RequestID)

	// Fast replay path for retried requests; the unique requestId index in
	// Mongo remains the source of truth when the cache has expired.
	if h.Cache != nil {
		if data, err := h.Cache.GetDecision(ctx, cacheKey); err == nil {
			var cached models.BookingDecision
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.Replayed = true
				c.JSON(decisionStatus(&cached), cached)
				return
			}
		}
	}

	decision, err := h.Engine.RequestBooking(ctx, input)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	// Only accepted decisions are replayable: a booking row now exists and the
	// outcome will not change. Timeouts, conflicts and rejections must go back
	// through the engine so a later retry can succeed once the store recovers
	// or the conflicting slot frees up.
	if h.Cache != nil && decision.Kind == models.DecisionAccepted && !decision.Replayed {
		if data, err := json.Marshal(decision); err == nil {
			ttl := time.Duration(config.AppConfig.DecisionCacheTTLMin) * time.Minute
			if ttl <= 0 {
				ttl = 10 * time.Minute
			}
			cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := h.Cache.SetDecision(cctx, cacheKey, data, ttl); err != nil {
				h.Logger.Warn("failed to cache booking decision", zap.Error(err))
			}
			cancel()
		}
	}

	c.JSON(decisionStatus(decision), decision)
}

// GetBooking handles GET /bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Engine.GetBooking(c.Request.Context(), c.Param("tenantID"), c.Param("id"))
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Approve handles POST /bookings/:id/approve (provider action).
func (h *BookingHandler) Approve(c *gin.Context) {
	h.transition(c, models.StatusApproved, booking.ActorProvider)
}

// Reject handles POST /bookings/:id/reject (provider action).
func (h *BookingHandler) Reject(c *gin.Context) {
	h.transition(c, models.StatusRejected, booking.ActorProvider)
}

// Confirm handles POST /bookings/:id/confirm (client action).
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, models.StatusConfirmed, booking.ActorClient)
}

// Cancel handles POST /bookings/:id/cancel. The cancelling side comes from
// the body and decides which terminal state applies.
func (h *BookingHandler) Cancel(c *gin.Context) {
	var input struct {
		Actor string `json:"actor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	switch booking.Actor(input.Actor) {
	case booking.ActorClient:
		h.transition(c, models.StatusCancelledByClient, booking.ActorClient)
	case booking.ActorProvider:
		h.transition(c, models.StatusCancelledByProvider, booking.ActorProvider)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "actor must be client or provider"})
	}
}

// Reschedule handles POST /bookings/:id/reschedule.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var input struct {
		StartsAt  time.Time `json:"startsAt" binding:"required"`
		RequestID string    `json:"requestId" binding:"required"`
		Actor     string    `json:"actor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	actor := booking.Actor(input.Actor)
	if actor != booking.ActorClient && actor != booking.ActorProvider {
		c.JSON(http.StatusBadRequest, gin.H{"error": "actor must be client or provider"})
		return
	}

	decision, err := h.Engine.Reschedule(c.Request.Context(), c.Param("tenantID"), c.Param("id"), input.StartsAt, input.RequestID, actor)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(decisionStatus(decision), decision)
}

func (h *BookingHandler) transition(c *gin.Context, to models.BookingStatus, actor booking.Actor) {
	b, err := h.Engine.Transition(c.Request.Context(), c.Param("tenantID"), c.Param("id"), to, actor)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func decisionCacheKey(tenantID, requestID string) string {
	return "decision:" + tenantID + ":" + requestID
}

// decisionStatus maps decision variants onto transport-level responses.
func decisionStatus(d *models.BookingDecision) int {
	switch d.Kind {
	case models.DecisionAccepted:
		if d.Replayed {
			return http.StatusOK
		}
		return http.StatusCreated
	case models.DecisionSuggested:
		return http.StatusOK
	case models.DecisionTimeout:
		return http.StatusServiceUnavailable
	default: // rejected
		return http.StatusUnprocessableEntity
	}
}

func (h *BookingHandler) respondEngineError(c *gin.Context, err error) {
	var illegal *booking.IllegalTransition
	if errors.As(err, &illegal) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "illegal transition",
			"from":  illegal.From,
			"to":    illegal.To,
		})
		return
	}
	var vf *booking.ValidationFailure
	if errors.As(err, &vf) {
		status := http.StatusUnprocessableEntity
		if vf.Code == booking.CodeSlotConflict {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error":                vf.Message,
			"reason":               vf.Code,
			"conflictingBookingId": vf.ConflictingBookingID,
		})
		return
	}
	if errors.Is(err, bookingRepo.ErrNotFound) || errors.Is(err, tenantRepo.ErrNotFound) ||
		errors.Is(err, staffRepo.ErrNotFound) || errors.Is(err, serviceRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var integrity *booking.IntegrityError
	if errors.As(err, &integrity) {
		h.Logger.Error("booking data integrity violation", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "calendar integrity violation", err.Error())
		return
	}
	h.Logger.Error("booking engine failure", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}
