package staking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Epoch is one fixed-length reward window. Records are append-only: once the
// next epoch exists the record is immutable. StakedSnapshot is written when
// the epoch closes; DistributeAmount is written exactly once at creation.
type Epoch struct {
	Number           uint64
	StartedAt        time.Time
	End              time.Time
	Duration         time.Duration
	StakedSnapshot   decimal.Decimal
	DistributeAmount decimal.Decimal
}

// StakePosition is one stake slot owned by a user. Positions are
// index-addressable per user and compacted with swap-remove, so callers must
// re-fetch indices after any removal.
type StakePosition struct {
	Owner       string
	Balance     decimal.Decimal
	EpochNumber uint64
	Start       time.Time
	Expiry      time.Time

	// claimedThrough is the last epoch number this position has been paid
	// for. A fresh position accrues from EpochNumber inclusive.
	claimedThrough uint64
}

// ClaimedThrough exposes the claim cursor for views and tests.
func (p *StakePosition) ClaimedThrough() uint64 {
	return p.claimedThrough
}

// EligibleUser is one page entry for the auto-reinvest keeper.
type EligibleUser struct {
	User      string
	Claimable decimal.Decimal
}
