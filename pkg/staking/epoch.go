package staking

import (
	"time"

	"go.uber.org/zap"
)

// StartNextEpoch closes the active epoch and opens the next one. Anyone may
// call it, but it fails with ErrEpochNotEnded until the active epoch's end
// timestamp has been reached; failing loudly beats a silent no-op that would
// mislead keepers.
func (e *Engine) StartNextEpoch(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrNotInitialized
	}

	closing := e.epochs[e.currentEpoch]
	if now.Before(closing.End) {
		return ErrEpochNotEnded
	}

	// The closing epoch's snapshot fixes the denominator every claim against
	// it will use.
	closing.StakedSnapshot = e.totalStaked
	e.recordEpoch(closing)

	if e.pacer.maybeRollWindow(now) {
		e.logger.Sugar().Infow("Pacing window rolled over",
			zap.Time("windowStart", e.pacer.windowStart),
			zap.String("amountPerEpoch", e.pacer.amountPerEpoch.String()),
		)
	}

	e.openEpoch(closing.Number+1, now)

	e.logger.Sugar().Infow("Started next epoch",
		zap.Uint64("epoch", e.currentEpoch),
		zap.String("stakedSnapshot", closing.StakedSnapshot.String()),
		zap.String("distributeAmount", e.epochs[e.currentEpoch].DistributeAmount.String()),
	)
	return nil
}

// CurrentEpoch returns the active epoch number, zero before initialization.
func (e *Engine) CurrentEpoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentEpoch
}

// GetEpochDetails returns a copy of the epoch record. Future epoch numbers
// yield a zero record rather than an error.
func (e *Engine) GetEpochDetails(n uint64) Epoch {
	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch, ok := e.epochs[n]; ok {
		return *epoch
	}
	return Epoch{}
}
