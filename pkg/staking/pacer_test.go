package staking

import (
	"testing"
	"time"

	"github.com/blobfi/staking-engine/pkg/numbers"
	"github.com/stretchr/testify/assert"
)

func Test_RewardPacer(t *testing.T) {
	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	t.Run("Should smooth the pool over the pacing horizon", func(t *testing.T) {
		p := newRewardPacer(6)
		p.deposit(numbers.MustDecimal("1000000"))
		p.resetWindow(march)

		assert.Equal(t, "2732.240437", p.amountPerEpoch.String())
	})
	t.Run("Should pace zero with an empty pool", func(t *testing.T) {
		p := newRewardPacer(6)
		p.resetWindow(march)
		assert.True(t, p.amountPerEpoch.IsZero())
		assert.True(t, p.commitEpochAmount().IsZero())
	})
	t.Run("Should not repace mid-month", func(t *testing.T) {
		p := newRewardPacer(6)
		p.deposit(numbers.MustDecimal("1000000"))
		p.resetWindow(march)
		p.deposit(numbers.MustDecimal("500000"))

		assert.False(t, p.maybeRollWindow(march.Add(24*time.Hour)))
		assert.Equal(t, "2732.240437", p.amountPerEpoch.String())
	})
	t.Run("Should repace from the undistributed balance on a month boundary", func(t *testing.T) {
		p := newRewardPacer(6)
		p.deposit(numbers.MustDecimal("1000000"))
		p.resetWindow(march)

		committed := p.commitEpochAmount()
		assert.Equal(t, "2732.240437", committed.String())

		p.deposit(numbers.MustDecimal("500000"))
		assert.True(t, p.maybeRollWindow(april))

		// (1500000 - 2732.240437) / 366, truncated.
		assert.Equal(t, "4090.895517", p.amountPerEpoch.String())
	})
	t.Run("Should clamp the committed amount to the undistributed balance", func(t *testing.T) {
		p := newRewardPacer(6)
		p.deposit(numbers.MustDecimal("10"))
		p.resetWindow(march)
		p.amountPerEpoch = numbers.MustDecimal("15")

		assert.Equal(t, "10", p.commitEpochAmount().String())
		assert.True(t, p.undistributed().IsZero())
	})
}
