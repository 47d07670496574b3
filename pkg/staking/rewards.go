package staking

import (
	"time"

	"github.com/blobfi/staking-engine/pkg/numbers"
	"github.com/blobfi/staking-engine/pkg/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// claimableForPosition sums the position's share of every closed epoch it has
// not been paid for yet. The per-epoch rate is truncated at reward-token
// decimals before being applied to the balance, and the product is truncated
// again; floor rounding everywhere guarantees the pool can never be
// over-distributed. Callers hold the lock.
func (e *Engine) claimableForPosition(pos *StakePosition) decimal.Decimal {
	total := decimal.Zero
	for n := pos.claimedThrough + 1; n < e.currentEpoch; n++ {
		epoch, ok := e.epochs[n]
		if !ok {
			continue
		}
		if epoch.StakedSnapshot.IsZero() || epoch.DistributeAmount.IsZero() {
			continue
		}
		rate := numbers.RatePerUnit(epoch.DistributeAmount, epoch.StakedSnapshot, e.rewardToken.Decimals())
		total = total.Add(numbers.TruncateToDecimals(rate.Mul(pos.Balance), e.rewardToken.Decimals()))
	}
	return total
}

// ClaimReward pays out the accrued share for the position at index.
func (e *Engine) ClaimReward(user string, index int, now time.Time) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.positions[user]) {
		return decimal.Zero, ErrInvalidIndex
	}
	pos := e.positions[user][index]
	if pos.Expiry.After(now) {
		return decimal.Zero, ErrWarmupNotEnded
	}

	amount := e.claimableForPosition(pos)
	if amount.IsZero() {
		return decimal.Zero, ErrNothingToClaim
	}

	if err := e.rewardToken.Transfer(e.account, user, amount); err != nil {
		return decimal.Zero, err
	}
	pos.claimedThrough = e.currentEpoch - 1
	e.totalRewardsPaid = e.totalRewardsPaid.Add(amount)

	e.recordStakeEvent(storage.StakeEvent_Claimed, user, amount, now)
	return amount, nil
}

// ClaimAll pays the accrued share of every position past warmup in one
// transfer. Positions still in warmup are skipped.
func (e *Engine) ClaimAll(user string, now time.Time) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	total, claimed := e.collectClaimable(user, now)
	if total.IsZero() {
		return decimal.Zero, ErrNothingToClaim
	}

	if err := e.rewardToken.Transfer(e.account, user, total); err != nil {
		return decimal.Zero, err
	}
	e.settleClaims(claimed)
	e.totalRewardsPaid = e.totalRewardsPaid.Add(total)

	e.recordStakeEvent(storage.StakeEvent_Claimed, user, total, now)
	return total, nil
}

// collectClaimable plans a claim across all eligible positions without
// mutating anything. Callers hold the lock.
func (e *Engine) collectClaimable(user string, now time.Time) (decimal.Decimal, []*StakePosition) {
	total := decimal.Zero
	claimed := make([]*StakePosition, 0)
	for _, pos := range e.positions[user] {
		if pos.Expiry.After(now) {
			continue
		}
		amount := e.claimableForPosition(pos)
		if amount.IsZero() {
			continue
		}
		total = total.Add(amount)
		claimed = append(claimed, pos)
	}
	return total, claimed
}

func (e *Engine) settleClaims(claimed []*StakePosition) {
	for _, pos := range claimed {
		pos.claimedThrough = e.currentEpoch - 1
	}
}

// GetClaimable reports what ClaimAll would pay right now.
func (e *Engine) GetClaimable(user string, now time.Time) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	total, _ := e.collectClaimable(user, now)
	return total
}

// Reinvest claims everything claimable, swaps the reward tokens into the base
// token and stakes the proceeds as a fresh position in the current epoch. The
// operation is atomic: a failed swap records no claim.
func (e *Engine) Reinvest(user string, minOut decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return decimal.Zero, ErrNotInitialized
	}

	total, claimed := e.collectClaimable(user, now)
	if total.IsZero() {
		return decimal.Zero, ErrNothingToClaim
	}

	staked, err := e.router.Swap(e.rewardToken, e.baseToken, e.account, e.account, total, minOut)
	if err != nil {
		return decimal.Zero, err
	}

	e.settleClaims(claimed)
	e.totalRewardsPaid = e.totalRewardsPaid.Add(total)

	e.positions[user] = append(e.positions[user], &StakePosition{
		Owner:          user,
		Balance:        staked,
		EpochNumber:    e.currentEpoch,
		Start:          now,
		Expiry:         now.Add(e.warmupPeriod),
		claimedThrough: e.currentEpoch - 1,
	})
	e.receipt.Mint(user, staked)
	e.totalStaked = e.totalStaked.Add(staked)
	e.totalsByUser[user] = e.userTotal(user).Add(staked)

	e.logger.Sugar().Infow("Reinvested rewards",
		zap.String("user", user),
		zap.String("claimed", total.String()),
		zap.String("staked", staked.String()),
	)
	e.recordStakeEvent(storage.StakeEvent_Reinvested, user, staked, now)
	return staked, nil
}
