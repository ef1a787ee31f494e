package handler

import (
	"net/http"
	"strconv"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/hunt"
)

// ArriveRequest carries the player's reported position
type ArriveRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// CatchRequest carries the timing-minigame input, a fraction in [0, 1]
type CatchRequest struct {
	TimingInput *float64 `json:"timing_input" validate:"required,min=0,max=1"`
}

// SpendWarmthRequest buys a warmth-shop feature. Lat and Lng are required
// for a tracker ping.
type SpendWarmthRequest struct {
	Feature string   `json:"feature" validate:"required,feature"`
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng     *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
}

// NearbySpawnsResponse wraps a nearby listing
type NearbySpawnsResponse struct {
	Spawns []domain.NearbySpawn `json:"spawns"`
}

// CatchHistoryResponse wraps a page of catch records
type CatchHistoryResponse struct {
	Catches []domain.CatchRecord `json:"catches"`
}

// HuntHandler serves the player-facing hunt endpoints
type HuntHandler struct {
	huntSvc hunt.Service
}

// NewHuntHandler creates a new hunt handler
func NewHuntHandler(huntSvc hunt.Service) *HuntHandler {
	return &HuntHandler{huntSvc: huntSvc}
}

// HandleNearby lists live spawns around the player
// @Summary List nearby spawns
// @Description Returns live spawns within radius meters, nearest first. Egg rarity is hidden.
// @Tags hunt
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query number false "Search radius in meters"
// @Success 200 {object} NearbySpawnsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /spawns/nearby [get]
func (h *HuntHandler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	lat, ok := getFloatQueryParam(r, w, "lat")
	if !ok {
		return
	}
	lng, ok := getFloatQueryParam(r, w, "lng")
	if !ok {
		return
	}
	radius := 0.0
	if raw := GetOptionalQueryParam(r, "radius", ""); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !isFinite(v) || v < 0 {
			respondError(w, http.StatusBadRequest, "Invalid radius query parameter")
			return
		}
		radius = v
	}

	spawns, err := h.huntSvc.ListNearbySpawns(r.Context(), playerID, domain.Location{Lat: lat, Lng: lng}, radius)
	if err != nil {
		respondServiceError(w, r, "list_nearby", err)
		return
	}
	if spawns == nil {
		spawns = []domain.NearbySpawn{}
	}
	respondJSON(w, http.StatusOK, NearbySpawnsResponse{Spawns: spawns})
}

// HandleReserve claims a spawn for the player
// @Summary Reserve a spawn
// @Description Grants the player an exclusive, time-limited hold on the spawn
// @Tags hunt
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param spawnID path string true "Spawn ID"
// @Success 200 {object} domain.ReservationResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Held by another player"
// @Failure 410 {object} ErrorResponse "Spawn expired"
// @Router /spawns/{spawnID}/reserve [post]
func (h *HuntHandler) HandleReserve(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	spawnID, ok := spawnIDParam(w, r)
	if !ok {
		return
	}

	res, err := h.huntSvc.ReserveSpawn(r.Context(), playerID, spawnID)
	if err != nil {
		respondServiceError(w, r, "reserve", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleArrive confirms the holder is within catch range
// @Summary Arrive at a reserved spawn
// @Tags hunt
// @Accept json
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param spawnID path string true "Spawn ID"
// @Param request body ArriveRequest true "Player position"
// @Success 200 {object} domain.ArrivalResult
// @Failure 403 {object} ErrorResponse "Not the holder"
// @Failure 410 {object} ErrorResponse "Reservation expired"
// @Failure 422 {object} ErrorResponse "Too far"
// @Router /spawns/{spawnID}/arrive [post]
func (h *HuntHandler) HandleArrive(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	spawnID, ok := spawnIDParam(w, r)
	if !ok {
		return
	}
	var req ArriveRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Arrive"); err != nil {
		return
	}

	res, err := h.huntSvc.ArriveAtSpawn(r.Context(), playerID, spawnID, domain.Location{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		respondServiceError(w, r, "arrive", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleCatch resolves a catch attempt
// @Summary Attempt a catch
// @Description Scores the timing input, rolls success and settles rewards atomically
// @Tags hunt
// @Accept json
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param spawnID path string true "Spawn ID"
// @Param request body CatchRequest true "Timing input"
// @Success 200 {object} domain.CatchResult
// @Failure 409 {object} ErrorResponse "Not arrived"
// @Failure 429 {object} ErrorResponse "Daily cap reached"
// @Failure 503 {object} ErrorResponse
// @Router /spawns/{spawnID}/catch [post]
func (h *HuntHandler) HandleCatch(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	spawnID, ok := spawnIDParam(w, r)
	if !ok {
		return
	}
	var req CatchRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Catch"); err != nil {
		return
	}

	res, err := h.huntSvc.AttemptCatch(r.Context(), playerID, spawnID, *req.TimingInput)
	if err != nil {
		respondServiceError(w, r, "catch", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleAbandon releases the player's hold
// @Summary Abandon a reservation
// @Tags hunt
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param spawnID path string true "Spawn ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse "Not the holder"
// @Router /spawns/{spawnID}/abandon [post]
func (h *HuntHandler) HandleAbandon(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	spawnID, ok := spawnIDParam(w, r)
	if !ok {
		return
	}

	if err := h.huntSvc.AbandonSpawn(r.Context(), playerID, spawnID); err != nil {
		respondServiceError(w, r, "abandon", err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSpawnAbandoned})
}

// HandleProgress returns the player's progression
// @Summary Get player progress
// @Tags progress
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Success 200 {object} domain.PlayerProgress
// @Router /progress [get]
func (h *HuntHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}

	p, err := h.huntSvc.GetProgress(r.Context(), playerID)
	if err != nil {
		respondServiceError(w, r, "get_progress", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// HandleSpendWarmth buys a warmth-shop feature
// @Summary Spend warmth
// @Tags progress
// @Accept json
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param request body SpendWarmthRequest true "Feature to buy"
// @Success 200 {object} domain.SpendResult
// @Failure 402 {object} ErrorResponse "Not enough warmth"
// @Failure 403 {object} ErrorResponse "Feature locked"
// @Failure 404 {object} ErrorResponse "No spawns nearby for a tracker ping"
// @Router /warmth/spend [post]
func (h *HuntHandler) HandleSpendWarmth(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	var req SpendWarmthRequest
	if err := DecodeAndValidateRequest(r, w, &req, "SpendWarmth"); err != nil {
		return
	}
	feature, err := normalizeFeature(req.Feature)
	if err != nil {
		respondServiceError(w, r, "spend_warmth", err)
		return
	}

	var at *domain.Location
	if req.Lat != nil && req.Lng != nil {
		at = &domain.Location{Lat: *req.Lat, Lng: *req.Lng}
	}

	res, err := h.huntSvc.SpendWarmth(r.Context(), playerID, feature, at)
	if err != nil {
		respondServiceError(w, r, "spend_warmth", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleCatches returns the player's most recent catch attempts
// @Summary List catch history
// @Tags progress
// @Produce json
// @Param X-Player-ID header string true "Player ID"
// @Param limit query int false "Page size"
// @Success 200 {object} CatchHistoryResponse
// @Router /catches [get]
func (h *HuntHandler) HandleCatches(w http.ResponseWriter, r *http.Request) {
	playerID, ok := requirePlayerID(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := GetOptionalQueryParam(r, "limit", ""); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidLimit)
			return
		}
		limit = v
	}

	records, err := h.huntSvc.ListCatches(r.Context(), playerID, limit)
	if err != nil {
		respondServiceError(w, r, "list_catches", err)
		return
	}
	if records == nil {
		records = []domain.CatchRecord{}
	}
	respondJSON(w, http.StatusOK, CatchHistoryResponse{Catches: records})
}
