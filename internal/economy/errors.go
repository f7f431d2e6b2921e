package economy

import "errors"

// Rejections surfaced to callers. A rejected operation never mutates state.
var (
	ErrNotFound            = errors.New("character not found")
	ErrInsufficientFunds   = errors.New("insufficient coins")
	ErrProtectedAsset      = errors.New("active income source cannot be sold")
	ErrAlreadyClaimedToday = errors.New("daily bonus already claimed today")
	ErrAlreadyClaimed      = errors.New("level reward already claimed")
	ErrLevelNotReached     = errors.New("level not reached")
)

// errNoChange short-circuits the mutate gate: the transition decided the
// operation is a no-op, so nothing is persisted and no observer fires.
var errNoChange = errors.New("no state change")
