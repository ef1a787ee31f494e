package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Code is a stable machine
// readable identifier clients can branch on.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// bufferPool is a pool of bytes.Buffer to reduce allocations during JSON encoding
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode first so a marshalling failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, code, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Debug(LogMsgServiceError, "operation", opName, "error", err)
	}
	respondJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError   = "Something went wrong"
	ErrMsgUnavailableError     = "Server is temporarily unavailable. Please try again later."
	ErrMsgInvalidRequestError  = "Invalid request. Please check your inputs."
	ErrMsgSpawnNotFoundError   = "Spawn not found"
	ErrMsgNotAvailableError    = "Spawn is not available"
	ErrMsgExpiredError         = "Spawn has expired"
	ErrMsgNotHolderError       = "You do not hold this spawn"
	ErrMsgReservationExpiredEr = "Your reservation has expired"
	ErrMsgTooFarError          = "You are too far from the spawn"
	ErrMsgNotArrivedError      = "Arrive at the spawn before catching"
	ErrMsgNoSpawnsNearbyError  = "No spawns nearby"
	ErrMsgDailyCapError        = "Daily catch limit reached. Come back tomorrow"
	ErrMsgInsufficientWarmthEr = "Not enough warmth"
	ErrMsgFeatureLockedError   = "That feature is locked. Level up to unlock it"
	ErrMsgUnknownFeatureError  = "Unknown feature"
	ErrMsgInvalidCoordinateErr = "Invalid coordinates"
	ErrMsgConcurrentUpdateErr  = "The spawn changed. Please retry"
)

// Stable error codes returned alongside the message
const (
	ErrCodeSpawnNotFound      = "SPAWN_NOT_FOUND"
	ErrCodeNotAvailable       = "NOT_AVAILABLE"
	ErrCodeExpired            = "EXPIRED"
	ErrCodeNotHolder          = "NOT_HOLDER"
	ErrCodeReservationExpired = "RESERVATION_EXPIRED"
	ErrCodeTooFar             = "TOO_FAR"
	ErrCodeNotArrived         = "NOT_ARRIVED"
	ErrCodeNoSpawnsNearby     = "NO_SPAWNS_NEARBY"
	ErrCodeDailyCapExceeded   = "DAILY_CAP_EXCEEDED"
	ErrCodeInsufficientWarmth = "INSUFFICIENT_WARMTH"
	ErrCodeFeatureLocked      = "FEATURE_LOCKED"
	ErrCodeUnknownFeature     = "UNKNOWN_FEATURE"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeConcurrentUpdate   = "CONCURRENT_UPDATE"
	ErrCodeUnavailable        = "UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL"
)

type errorMapping struct {
	target error
	status int
	code   string
	msg    string
}

// Order matters: the first match wins
var errorMappings = []errorMapping{
	{domain.ErrSpawnNotFound, http.StatusNotFound, ErrCodeSpawnNotFound, ErrMsgSpawnNotFoundError},
	{domain.ErrNotAvailable, http.StatusConflict, ErrCodeNotAvailable, ErrMsgNotAvailableError},
	{domain.ErrExpired, http.StatusGone, ErrCodeExpired, ErrMsgExpiredError},
	{domain.ErrNotHolder, http.StatusForbidden, ErrCodeNotHolder, ErrMsgNotHolderError},
	{domain.ErrReservationExpired, http.StatusGone, ErrCodeReservationExpired, ErrMsgReservationExpiredEr},
	{domain.ErrTooFar, http.StatusUnprocessableEntity, ErrCodeTooFar, ErrMsgTooFarError},
	{domain.ErrNotArrived, http.StatusConflict, ErrCodeNotArrived, ErrMsgNotArrivedError},
	{domain.ErrNoSpawnsNearby, http.StatusNotFound, ErrCodeNoSpawnsNearby, ErrMsgNoSpawnsNearbyError},
	{domain.ErrDailyCapExceeded, http.StatusTooManyRequests, ErrCodeDailyCapExceeded, ErrMsgDailyCapError},
	{domain.ErrInsufficientWarmth, http.StatusPaymentRequired, ErrCodeInsufficientWarmth, ErrMsgInsufficientWarmthEr},
	{domain.ErrFeatureLocked, http.StatusForbidden, ErrCodeFeatureLocked, ErrMsgFeatureLockedError},
	{domain.ErrUnknownFeature, http.StatusBadRequest, ErrCodeUnknownFeature, ErrMsgUnknownFeatureError},
	{domain.ErrInvalidCoordinate, http.StatusBadRequest, ErrCodeInvalidInput, ErrMsgInvalidCoordinateErr},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeInvalidInput, ErrMsgInvalidRequestError},
	{domain.ErrConcurrentUpdate, http.StatusConflict, ErrCodeConcurrentUpdate, ErrMsgConcurrentUpdateErr},
	{domain.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeUnavailable, ErrMsgUnavailableError},
}

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// user-facing messages. Anything unrecognized is a 500 with a generic message.
func mapServiceErrorToUserMessage(err error) (status int, code, msg string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.msg
		}
	}
	return http.StatusInternalServerError, ErrCodeInternal, ErrMsgGenericServerError
}
