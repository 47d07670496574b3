package staking

import (
	"time"

	"github.com/blobfi/staking-engine/pkg/swap"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (e *Engine) requireOwner(caller string) error {
	if caller != e.owner {
		return ErrNotAuthorized
	}
	return nil
}

// SetWarmupPeriod changes the warmup for positions created from now on;
// existing positions keep the expiry they were created with. Sub-day warmups
// are rejected.
func (e *Engine) SetWarmupPeriod(caller string, d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if d < MinWarmupPeriod {
		return ErrInvalidDuration
	}
	e.warmupPeriod = d
	e.logger.Sugar().Infow("Updated warmup period", zap.Duration("warmupPeriod", d))
	return nil
}

// SetEpochDuration changes the length of epochs created from now on.
func (e *Engine) SetEpochDuration(caller string, d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if d <= 0 || d > MaxEpochDuration {
		return ErrInvalidDuration
	}
	e.epochDuration = d
	e.logger.Sugar().Infow("Updated epoch duration", zap.Duration("epochDuration", d))
	return nil
}

// SetAutoReinvestThreshold sets the minimum claimable balance a subscriber
// needs before the keeper pages include them.
func (e *Engine) SetAutoReinvestThreshold(caller string, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	e.autoReinvestThreshold = amount
	return nil
}

// SetRewardToken swaps the reward-token collaborator.
func (e *Engine) SetRewardToken(caller string, token tokens.Token) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	e.rewardToken = token
	return nil
}

// SetRouter swaps the DEX-router collaborator used by Reinvest.
func (e *Engine) SetRouter(caller string, router swap.Swapper) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	e.router = router
	return nil
}
