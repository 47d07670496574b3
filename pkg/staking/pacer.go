package staking

import (
	"time"

	"github.com/blobfi/staking-engine/pkg/calendar"
	"github.com/blobfi/staking-engine/pkg/numbers"
	"github.com/shopspring/decimal"
)

// pacingHorizonDays smooths the undistributed pool over roughly one year of
// daily units. The daily-equivalent amount is repeated for every epoch inside
// the window rather than divided by epochs per day.
const pacingHorizonDays = 366

// rewardPacer converts an irregular deposit stream into a steady per-epoch
// distribution. The pacing amount is recomputed from the undistributed
// balance at initialization and whenever a rollover crosses a calendar-month
// boundary; deposits in between never retroactively change amounts already
// assigned to epochs.
type rewardPacer struct {
	rewardDecimals int32

	totalDeposited decimal.Decimal
	totalCommitted decimal.Decimal
	windowStart    time.Time
	amountPerEpoch decimal.Decimal
}

func newRewardPacer(rewardDecimals int32) *rewardPacer {
	return &rewardPacer{
		rewardDecimals: rewardDecimals,
		totalDeposited: decimal.Zero,
		totalCommitted: decimal.Zero,
		amountPerEpoch: decimal.Zero,
	}
}

func (p *rewardPacer) deposit(amount decimal.Decimal) {
	p.totalDeposited = p.totalDeposited.Add(amount)
}

func (p *rewardPacer) undistributed() decimal.Decimal {
	u := p.totalDeposited.Sub(p.totalCommitted)
	if u.IsNegative() {
		return decimal.Zero
	}
	return u
}

// resetWindow anchors the pacing window at now's month and recomputes the
// per-epoch amount.
func (p *rewardPacer) resetWindow(now time.Time) {
	p.windowStart = calendar.MonthStart(now)
	p.recompute()
}

// maybeRollWindow recomputes pacing when now has crossed into a new calendar
// month.
func (p *rewardPacer) maybeRollWindow(now time.Time) bool {
	if calendar.SameMonth(p.windowStart, now) {
		return false
	}
	p.resetWindow(now)
	return true
}

func (p *rewardPacer) recompute() {
	u := p.undistributed()
	if u.IsZero() {
		p.amountPerEpoch = decimal.Zero
		return
	}
	p.amountPerEpoch = numbers.TruncateToDecimals(
		u.Div(decimal.NewFromInt(pacingHorizonDays)),
		p.rewardDecimals,
	)
}

// commitEpochAmount reserves the pacing amount for a newly created epoch,
// clamped so committed never exceeds deposited.
func (p *rewardPacer) commitEpochAmount() decimal.Decimal {
	amount := p.amountPerEpoch
	if u := p.undistributed(); amount.GreaterThan(u) {
		amount = u
	}
	p.totalCommitted = p.totalCommitted.Add(amount)
	return amount
}
