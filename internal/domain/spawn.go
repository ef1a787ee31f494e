package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rarity is the tier of a creature or egg content
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// Rarities lists every tier from lowest to highest
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Rank orders tiers: common 0 .. legendary 3. Unknown tiers rank -1.
func (r Rarity) Rank() int {
	switch r {
	case RarityCommon:
		return 0
	case RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	default:
		return -1
	}
}

// IsValid reports whether r is a known tier
func (r Rarity) IsValid() bool {
	return r.Rank() >= 0
}

// ParseRarity converts a string into a Rarity
func ParseRarity(s string) (Rarity, error) {
	r := Rarity(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: unknown rarity %q", ErrInvalidInput, s)
	}
	return r, nil
}

// SpawnKind distinguishes fixed creatures from mystery eggs
type SpawnKind string

const (
	// SpawnKindCreature has its rarity fixed when spawned
	SpawnKindCreature SpawnKind = "creature"
	// SpawnKindEgg is a mystery container whose content is rolled on collection
	SpawnKindEgg SpawnKind = "egg"
)

// IsValid reports whether k is a known kind
func (k SpawnKind) IsValid() bool {
	return k == SpawnKindCreature || k == SpawnKindEgg
}

// SpawnState represents the lifecycle state of a spawn
type SpawnState string

const (
	SpawnStateAvailable SpawnState = "AVAILABLE"
	SpawnStateReserved  SpawnState = "RESERVED"
	SpawnStateArrived   SpawnState = "ARRIVED"
	SpawnStateCollected SpawnState = "COLLECTED"
	SpawnStateExpired   SpawnState = "EXPIRED"
)

// IsTerminal reports whether no further transitions are possible
func (s SpawnState) IsTerminal() bool {
	return s == SpawnStateCollected || s == SpawnStateExpired
}

// HasReservation reports whether a holder is attached in this state
func (s SpawnState) HasReservation() bool {
	return s == SpawnStateReserved || s == SpawnStateArrived
}

// Location is a WGS84 coordinate in degrees
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Reservation is the exclusive, time-bounded hold a player has on a spawn
type Reservation struct {
	HolderID   string    `json:"holder_id"`
	ReservedAt time.Time `json:"reserved_at"`
	Deadline   time.Time `json:"deadline"`

	// Timing zone for the catch minigame, issued on arrival
	TargetCenter    float64 `json:"target_center,omitempty"`
	TargetHalfWidth float64 `json:"target_half_width,omitempty"`
}

// Spawn is a time-bounded, location-anchored object a player can catch
type Spawn struct {
	ID          uuid.UUID    `json:"id"`
	Kind        SpawnKind    `json:"kind"`
	Rarity      Rarity       `json:"rarity"`
	Location    Location     `json:"location"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
	State       SpawnState   `json:"state"`
	Reservation *Reservation `json:"reservation,omitempty"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"max_attempts"`
	RewardRef   *uuid.UUID   `json:"reward_ref,omitempty"`
	// Version increments on every persisted mutation; used for compare-and-swap
	Version int64 `json:"-"`
}

// HolderID returns the current reservation holder or "" when unreserved
func (s *Spawn) HolderID() string {
	if s.Reservation == nil {
		return ""
	}
	return s.Reservation.HolderID
}

// IsPastExpiry reports whether the absolute despawn deadline has passed
func (s *Spawn) IsPastExpiry(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsReservationLapsed reports whether a held reservation has run out
func (s *Spawn) IsReservationLapsed(now time.Time) bool {
	return s.State.HasReservation() && s.Reservation != nil && now.After(s.Reservation.Deadline)
}

// Clone returns a deep copy so stores never share mutable state with callers
func (s *Spawn) Clone() *Spawn {
	if s == nil {
		return nil
	}
	c := *s
	if s.Reservation != nil {
		r := *s.Reservation
		c.Reservation = &r
	}
	if s.RewardRef != nil {
		ref := *s.RewardRef
		c.RewardRef = &ref
	}
	return &c
}

// NearbySpawn is the client-facing projection of a spawn in a nearby listing.
// Egg rarity is never exposed before collection.
type NearbySpawn struct {
	ID             uuid.UUID  `json:"id"`
	Kind           SpawnKind  `json:"kind"`
	Rarity         Rarity     `json:"rarity,omitempty"`
	Location       Location   `json:"location"`
	State          SpawnState `json:"state"`
	DistanceMeters float64    `json:"distance_meters"`
	ExpiresAt      time.Time  `json:"expires_at"`
	HeldByYou      bool       `json:"held_by_you,omitempty"`
}

// NewSpawn describes a spawn to be registered by the spawn-generation process
type NewSpawn struct {
	Kind        SpawnKind
	Rarity      Rarity
	Location    Location
	TTL         time.Duration
	MaxAttempts int
}

// ReservationResult is returned to the client after a successful reserve
type ReservationResult struct {
	SpawnID          uuid.UUID `json:"spawn_id"`
	HolderID         string    `json:"holder_id"`
	ReservedAt       time.Time `json:"reserved_at"`
	Deadline         time.Time `json:"deadline"`
	SecondsRemaining int       `json:"seconds_remaining"`
}

// ArrivalResult is returned once the holder is confirmed within catch range
type ArrivalResult struct {
	SpawnID         uuid.UUID `json:"spawn_id"`
	DistanceMeters  float64   `json:"distance_meters"`
	TargetCenter    float64   `json:"target_center"`
	TargetHalfWidth float64   `json:"target_half_width"`
	Deadline        time.Time `json:"deadline"`
}

// SecondsUntil derives a countdown from an authoritative deadline
func SecondsUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}
