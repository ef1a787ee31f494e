package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/hunt"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/repository"
)

// CreateSpawnRequest registers a spawn from the spawn-generation process
type CreateSpawnRequest struct {
	Kind        string  `json:"kind" validate:"required,spawnkind"`
	Rarity      string  `json:"rarity,omitempty" validate:"omitempty,rarity"`
	Lat         float64 `json:"lat" validate:"latitude"`
	Lng         float64 `json:"lng" validate:"longitude"`
	TTLSeconds  int     `json:"ttl_seconds,omitempty" validate:"omitempty,min=1,max=86400"`
	MaxAttempts int     `json:"max_attempts,omitempty" validate:"omitempty,min=1,max=20"`
}

// SweepResponse reports how many spawns a manual sweep expired
type SweepResponse struct {
	Message string `json:"message"`
	Expired int    `json:"expired"`
}

// DailyResetResponse reports the result of a manual daily reset
type DailyResetResponse struct {
	Message         string `json:"message"`
	RecordsAffected int64  `json:"records_affected"`
}

// DailyResetTrigger runs the daily cap reset on demand
type DailyResetTrigger interface {
	RunOnce(ctx context.Context) (int64, error)
}

// EventLogReader queries persisted hunt events
type EventLogReader interface {
	GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error)
}

// AdminHandler serves operator endpoints
type AdminHandler struct {
	huntSvc hunt.Service
	reset   DailyResetTrigger
	events  EventLogReader
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(huntSvc hunt.Service, reset DailyResetTrigger, events EventLogReader) *AdminHandler {
	return &AdminHandler{huntSvc: huntSvc, reset: reset, events: events}
}

// HandleCreateSpawn registers a new spawn
// @Summary Create a spawn
// @Description Registers a creature or egg. Creature rarity is rolled when omitted; egg rarity is always rolled on collection.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateSpawnRequest true "Spawn to create"
// @Success 201 {object} domain.Spawn
// @Failure 400 {object} ErrorResponse
// @Router /admin/spawns [post]
// @Security ApiKeyAuth
func (h *AdminHandler) HandleCreateSpawn(w http.ResponseWriter, r *http.Request) {
	var req CreateSpawnRequest
	if err := DecodeAndValidateRequest(r, w, &req, "CreateSpawn"); err != nil {
		return
	}

	sp, err := h.huntSvc.CreateSpawn(r.Context(), domain.NewSpawn{
		Kind:        domain.SpawnKind(foldID(req.Kind)),
		Rarity:      domain.Rarity(strings.ToUpper(foldID(req.Rarity))),
		Location:    domain.Location{Lat: req.Lat, Lng: req.Lng},
		TTL:         time.Duration(req.TTLSeconds) * time.Second,
		MaxAttempts: req.MaxAttempts,
	})
	if err != nil {
		respondServiceError(w, r, "create_spawn", err)
		return
	}
	logger.FromContext(r.Context()).Info("Spawn created", "spawn_id", sp.ID, "kind", sp.Kind, "rarity", sp.Rarity)
	respondJSON(w, http.StatusCreated, sp)
}

// HandleSweep expires stale spawns and lapsed reservations now
// @Summary Run the expiry sweep
// @Tags admin
// @Produce json
// @Success 200 {object} SweepResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/sweep [post]
// @Security ApiKeyAuth
func (h *AdminHandler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Info(LogMsgAdminSweep)

	n, err := h.huntSvc.SweepExpired(r.Context())
	if err != nil {
		respondServiceError(w, r, "sweep", err)
		return
	}
	respondJSON(w, http.StatusOK, SweepResponse{Message: MsgSweepCompleted, Expired: n})
}

// HandleDailyReset zeroes stale daily catch counters immediately
// @Summary Trigger the daily cap reset
// @Tags admin
// @Produce json
// @Success 200 {object} DailyResetResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/daily-reset [post]
// @Security ApiKeyAuth
func (h *AdminHandler) HandleDailyReset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Info(LogMsgAdminDailyReset)

	n, err := h.reset.RunOnce(r.Context())
	if err != nil {
		respondServiceError(w, r, "daily_reset", err)
		return
	}
	respondJSON(w, http.StatusOK, DailyResetResponse{Message: MsgDailyResetComplete, RecordsAffected: n})
}

// HandleListEvents returns logged hunt events, newest first
// @Summary List logged events
// @Description Filters by player and event type. since and until take RFC 3339 timestamps.
// @Tags admin
// @Produce json
// @Param player_id query string false "Player ID"
// @Param type query string false "Event type, e.g. catch.resolved"
// @Param since query string false "Earliest created_at (RFC 3339)"
// @Param until query string false "Latest created_at (RFC 3339)"
// @Param limit query int false "Maximum events (default 50, max 500)"
// @Success 200 {array} repository.EventLogEntry
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/events [get]
// @Security ApiKeyAuth
func (h *AdminHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	var filter repository.EventLogFilter

	if v := GetOptionalQueryParam(r, "player_id", ""); v != "" {
		filter.PlayerID = &v
	}
	if v := GetOptionalQueryParam(r, "type", ""); v != "" {
		filter.EventType = &v
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"since", &filter.Since}, {"until", &filter.Until}} {
		raw := GetOptionalQueryParam(r, p.name, "")
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, p.name))
			return
		}
		*p.dst = &ts
	}
	if raw := GetOptionalQueryParam(r, "limit", ""); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}
		filter.Limit = v
	}

	events, err := h.events.GetEvents(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, "list_events", err)
		return
	}
	if events == nil {
		events = []repository.EventLogEntry{}
	}
	respondJSON(w, http.StatusOK, events)
}
