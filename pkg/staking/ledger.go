package staking

import (
	"time"

	"github.com/blobfi/staking-engine/pkg/storage"
	"github.com/shopspring/decimal"
)

// Stake locks amount of the base token and opens a new position for the
// caller. The caller must have approved the engine to pull the tokens.
func (e *Engine) Stake(user string, amount decimal.Decimal, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrNotInitialized
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if err := e.baseToken.TransferFrom(e.account, user, e.account, amount); err != nil {
		return err
	}

	e.positions[user] = append(e.positions[user], &StakePosition{
		Owner:          user,
		Balance:        amount,
		EpochNumber:    e.currentEpoch,
		Start:          now,
		Expiry:         now.Add(e.warmupPeriod),
		claimedThrough: e.currentEpoch - 1,
	})
	e.receipt.Mint(user, amount)
	e.totalStaked = e.totalStaked.Add(amount)
	e.totalsByUser[user] = e.userTotal(user).Add(amount)

	e.recordStakeEvent(storage.StakeEvent_Staked, user, amount, now)
	return nil
}

func (e *Engine) userTotal(user string) decimal.Decimal {
	if t, ok := e.totalsByUser[user]; ok {
		return t
	}
	return decimal.Zero
}

// unstakeStep is one planned withdrawal against a concrete position.
type unstakeStep struct {
	index int
	take  decimal.Decimal
}

// Unstake withdraws amount across the caller's positions, oldest index first.
// Only positions past warmup participate; if they cannot cover the amount the
// call fails without touching state.
func (e *Engine) Unstake(user string, amount decimal.Decimal, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(e.userTotal(user)) {
		return ErrInvalidAmount
	}

	remaining := amount
	steps := make([]unstakeStep, 0)
	for i, pos := range e.positions[user] {
		if remaining.IsZero() {
			break
		}
		if pos.Expiry.After(now) {
			continue
		}
		take := pos.Balance
		if take.GreaterThan(remaining) {
			take = remaining
		}
		steps = append(steps, unstakeStep{index: i, take: take})
		remaining = remaining.Sub(take)
	}
	if !remaining.IsZero() {
		return ErrWarmupNotEnded
	}

	return e.applyUnstake(user, amount, steps, now)
}

// UnstakeByIndex withdraws amount from the position at index.
func (e *Engine) UnstakeByIndex(user string, amount decimal.Decimal, index int, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.positions[user]) {
		return ErrInvalidIndex
	}
	pos := e.positions[user][index]
	if amount.LessThanOrEqual(decimal.Zero) || amount.GreaterThan(pos.Balance) {
		return ErrInvalidAmount
	}
	if pos.Expiry.After(now) {
		return ErrWarmupNotEnded
	}

	return e.applyUnstake(user, amount, []unstakeStep{{index: index, take: amount}}, now)
}

// UnstakeAll withdraws every position past warmup and skips the rest. It
// fails with ErrWarmupNotEnded when no position is eligible.
func (e *Engine) UnstakeAll(user string, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := decimal.Zero
	steps := make([]unstakeStep, 0)
	for i, pos := range e.positions[user] {
		if pos.Expiry.After(now) {
			continue
		}
		steps = append(steps, unstakeStep{index: i, take: pos.Balance})
		total = total.Add(pos.Balance)
	}
	if len(steps) == 0 {
		return ErrWarmupNotEnded
	}

	return e.applyUnstake(user, total, steps, now)
}

// applyUnstake burns receipt tokens, returns base tokens and shrinks or
// removes the planned positions. Steps reference pre-removal indices and are
// applied highest index first so swap-remove cannot disturb pending steps.
// Callers hold the lock and have validated the plan.
func (e *Engine) applyUnstake(user string, total decimal.Decimal, steps []unstakeStep, now time.Time) error {
	if err := e.receipt.BurnFrom(user, total); err != nil {
		return err
	}
	if err := e.baseToken.Transfer(e.account, user, total); err != nil {
		// Restore the receipt balance; the stake itself is untouched.
		e.receipt.Mint(user, total)
		return err
	}

	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		pos := e.positions[user][step.index]
		pos.Balance = pos.Balance.Sub(step.take)
		if pos.Balance.IsZero() {
			e.removePosition(user, step.index)
		}
	}

	e.totalStaked = e.totalStaked.Sub(total)
	e.totalsByUser[user] = e.userTotal(user).Sub(total)

	e.recordStakeEvent(storage.StakeEvent_Unstaked, user, total, now)
	return nil
}

// removePosition compacts the slice with swap-remove: the last position moves
// into the vacated slot, so indices past it are invalidated.
func (e *Engine) removePosition(user string, index int) {
	list := e.positions[user]
	last := len(list) - 1
	list[index] = list[last]
	e.positions[user] = list[:last]
}

// GetStakeDetails returns copies of the caller's positions in index order.
func (e *Engine) GetStakeDetails(user string) []StakePosition {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]StakePosition, 0, len(e.positions[user]))
	for _, pos := range e.positions[user] {
		out = append(out, *pos)
	}
	return out
}
