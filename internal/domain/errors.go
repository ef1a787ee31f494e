package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Spawn errors
	ErrMsgSpawnNotFound      = "spawn not found"
	ErrMsgNotAvailable       = "spawn is not available"
	ErrMsgExpired            = "spawn has expired"
	ErrMsgNotHolder          = "player does not hold the reservation"
	ErrMsgReservationExpired = "reservation has expired"
	ErrMsgTooFar             = "player is too far from the spawn"
	ErrMsgNotArrived         = "player has not arrived at the spawn"
	ErrMsgNoSpawnsNearby     = "no available spawns nearby"

	// Progression errors
	ErrMsgDailyCapExceeded   = "daily catch cap reached"
	ErrMsgInsufficientWarmth = "insufficient warmth"
	ErrMsgFeatureLocked      = "feature is locked"
	ErrMsgUnknownFeature     = "unknown feature"

	// Input errors
	ErrMsgInvalidInput      = "invalid input"
	ErrMsgInvalidCoordinate = "invalid coordinate"

	// Storage/System errors
	ErrMsgUnavailable        = "service temporarily unavailable"
	ErrMsgConcurrentUpdate   = "concurrent update detected"
	ErrMsgInvariantViolation = "invariant violation"

	// Transaction errors
	ErrMsgTxClosed = "tx is closed"
)

// Domain errors returned by the hunt engine.
// Wrap with fmt.Errorf("%w: %s", domain.ErrXxx, details) for context.
// Client contract errors are expected outcomes; ErrUnavailable means "try again".
var (
	// Spawn lifecycle
	ErrSpawnNotFound      = errors.New(ErrMsgSpawnNotFound)
	ErrNotAvailable       = errors.New(ErrMsgNotAvailable)
	ErrExpired            = errors.New(ErrMsgExpired)
	ErrNotHolder          = errors.New(ErrMsgNotHolder)
	ErrReservationExpired = errors.New(ErrMsgReservationExpired)
	ErrTooFar             = errors.New(ErrMsgTooFar)
	ErrNotArrived         = errors.New(ErrMsgNotArrived)
	ErrNoSpawnsNearby     = errors.New(ErrMsgNoSpawnsNearby)

	// Progression
	ErrDailyCapExceeded   = errors.New(ErrMsgDailyCapExceeded)
	ErrInsufficientWarmth = errors.New(ErrMsgInsufficientWarmth)
	ErrFeatureLocked      = errors.New(ErrMsgFeatureLocked)
	ErrUnknownFeature     = errors.New(ErrMsgUnknownFeature)

	// Input
	ErrInvalidInput      = errors.New(ErrMsgInvalidInput)
	ErrInvalidCoordinate = errors.New(ErrMsgInvalidCoordinate)

	// Storage
	ErrUnavailable        = errors.New(ErrMsgUnavailable)
	ErrConcurrentUpdate   = errors.New(ErrMsgConcurrentUpdate)
	ErrInvariantViolation = errors.New(ErrMsgInvariantViolation)
)

// IsClientError reports whether err is an expected, recoverable outcome the
// client should render as an ordinary state rather than a failure.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

var clientErrors = []error{
	ErrSpawnNotFound,
	ErrNotAvailable,
	ErrExpired,
	ErrNotHolder,
	ErrReservationExpired,
	ErrTooFar,
	ErrNotArrived,
	ErrNoSpawnsNearby,
	ErrDailyCapExceeded,
	ErrInsufficientWarmth,
	ErrFeatureLocked,
	ErrUnknownFeature,
	ErrInvalidInput,
	ErrInvalidCoordinate,
}
