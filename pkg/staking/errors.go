package staking

import "errors"

var (
	ErrNotAuthorized      = errors.New("caller is not the owner")
	ErrNotInitialized     = errors.New("engine is not initialized")
	ErrAlreadyInitialized = errors.New("engine is already initialized")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDuration    = errors.New("invalid duration")
	ErrWarmupNotEnded     = errors.New("warmup period not ended")
	ErrEpochNotEnded      = errors.New("epoch not ended")
	ErrNothingToClaim     = errors.New("nothing to claim")
	ErrInvalidIndex       = errors.New("invalid stake index")
)
