package staking

import (
	"testing"
	"time"

	"github.com/blobfi/staking-engine/internal/logger"
	"github.com/blobfi/staking-engine/pkg/numbers"
	"github.com/blobfi/staking-engine/pkg/swap"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// genesis sits mid-month so epoch rollovers inside a test never cross a
// pacing-window boundary by accident.
var genesis = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type testFixture struct {
	engine *Engine
	base   *tokens.Ledger
	reward *tokens.Ledger
	router *swap.FixedRateRouter
}

func setup() *testFixture {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: true})

	base := tokens.NewLedger("BASE", 18)
	reward := tokens.NewLedger("REWARD", 6)
	router := swap.NewFixedRateRouter("router")

	engine := NewEngine(&EngineConfig{
		Owner:                 "owner",
		Treasury:              "treasury",
		Account:               "engine",
		BaseToken:             base,
		RewardToken:           reward,
		Router:                router,
		EpochDuration:         4 * time.Hour,
		WarmupPeriod:          24 * time.Hour,
		PageSize:              2,
		AutoReinvestThreshold: decimal.Zero,
	}, l)

	return &testFixture{
		engine: engine,
		base:   base,
		reward: reward,
		router: router,
	}
}

// setupInitialized funds the pool with 1,000,000 reward tokens and opens
// epoch 1 at genesis.
func setupInitialized(t *testing.T) *testFixture {
	f := setup()
	f.fund(t, "1000000")
	assert.Nil(t, f.engine.Initialize("owner", genesis))
	return f
}

func (f *testFixture) fund(t *testing.T, amount string) {
	a := numbers.MustDecimal(amount)
	f.reward.Mint("owner", a)
	f.reward.Approve("owner", "engine", a)
	assert.Nil(t, f.engine.Deposit("owner", a, genesis))
}

func (f *testFixture) stake(t *testing.T, user, amount string, now time.Time) {
	a := numbers.MustDecimal(amount)
	f.base.Mint(user, a)
	f.base.Approve(user, "engine", a)
	assert.Nil(t, f.engine.Stake(user, a, now))
}

func (f *testFixture) approveReceipt(user, amount string) {
	f.engine.Receipt().Approve(user, "engine", numbers.MustDecimal(amount))
}

func Test_Initialize(t *testing.T) {
	t.Run("Should reject a caller that is not the owner", func(t *testing.T) {
		f := setup()
		assert.ErrorIs(t, f.engine.Initialize("mallory", genesis), ErrNotAuthorized)
	})
	t.Run("Should open epoch 1 with the paced distribute amount", func(t *testing.T) {
		f := setupInitialized(t)

		assert.Equal(t, uint64(1), f.engine.CurrentEpoch())
		assert.Equal(t, "2732.240437", f.engine.AmountPerEpoch().String())

		epoch := f.engine.GetEpochDetails(1)
		assert.Equal(t, "2732.240437", epoch.DistributeAmount.String())
		assert.Equal(t, genesis.Add(4*time.Hour), epoch.End)
	})
	t.Run("Should reject a second initialization", func(t *testing.T) {
		f := setupInitialized(t)
		assert.ErrorIs(t, f.engine.Initialize("owner", genesis), ErrAlreadyInitialized)
	})
}

func Test_Deposit(t *testing.T) {
	t.Run("Should reject callers other than owner and treasury", func(t *testing.T) {
		f := setup()
		err := f.engine.Deposit("mallory", numbers.MustDecimal("100"), genesis)
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
	t.Run("Should accept deposits from the treasury", func(t *testing.T) {
		f := setup()
		a := numbers.MustDecimal("500")
		f.reward.Mint("treasury", a)
		f.reward.Approve("treasury", "engine", a)

		assert.Nil(t, f.engine.Deposit("treasury", a, genesis))
		assert.Equal(t, "500", f.engine.TotalDeposited().String())
		assert.Equal(t, "500", f.reward.BalanceOf("engine").String())
	})
	t.Run("Should reject a non-positive amount", func(t *testing.T) {
		f := setup()
		assert.ErrorIs(t, f.engine.Deposit("owner", decimal.Zero, genesis), ErrInvalidAmount)
	})
	t.Run("Should fail without an allowance", func(t *testing.T) {
		f := setup()
		f.reward.Mint("owner", numbers.MustDecimal("100"))
		err := f.engine.Deposit("owner", numbers.MustDecimal("100"), genesis)
		assert.ErrorIs(t, err, tokens.ErrInsufficientAllowance)
	})
}

func Test_Stake(t *testing.T) {
	t.Run("Should require initialization", func(t *testing.T) {
		f := setup()
		assert.ErrorIs(t, f.engine.Stake("alice", numbers.MustDecimal("100"), genesis), ErrNotInitialized)
	})
	t.Run("Should lock tokens and mint receipt tokens", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)

		assert.Equal(t, "1000", f.engine.TotalStaked().String())
		assert.Equal(t, "1000", f.engine.TotalStakesByUser("alice").String())
		assert.Equal(t, "1000", f.base.BalanceOf("engine").String())
		assert.Equal(t, "0", f.base.BalanceOf("alice").String())
		assert.Equal(t, "1000", f.engine.Receipt().BalanceOf("alice").String())

		positions := f.engine.GetStakeDetails("alice")
		assert.Equal(t, 1, len(positions))
		assert.Equal(t, uint64(1), positions[0].EpochNumber)
		assert.Equal(t, genesis.Add(24*time.Hour), positions[0].Expiry)
	})
	t.Run("Should reject a non-positive amount", func(t *testing.T) {
		f := setupInitialized(t)
		assert.ErrorIs(t, f.engine.Stake("alice", decimal.Zero, genesis), ErrInvalidAmount)
	})
	t.Run("Should fail without an allowance", func(t *testing.T) {
		f := setupInitialized(t)
		f.base.Mint("alice", numbers.MustDecimal("100"))
		err := f.engine.Stake("alice", numbers.MustDecimal("100"), genesis)
		assert.ErrorIs(t, err, tokens.ErrInsufficientAllowance)
	})
}

func Test_Unstake(t *testing.T) {
	t.Run("Should withdraw across positions oldest index first", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		f.stake(t, "alice", "50", genesis)

		after := genesis.Add(24 * time.Hour)
		f.approveReceipt("alice", "120")
		assert.Nil(t, f.engine.Unstake("alice", numbers.MustDecimal("120"), after))

		assert.Equal(t, "30", f.engine.TotalStaked().String())
		assert.Equal(t, "30", f.engine.TotalStakesByUser("alice").String())
		assert.Equal(t, "120", f.base.BalanceOf("alice").String())
		assert.Equal(t, "30", f.engine.Receipt().BalanceOf("alice").String())

		positions := f.engine.GetStakeDetails("alice")
		assert.Equal(t, 1, len(positions))
		assert.Equal(t, "30", positions[0].Balance.String())
	})
	t.Run("Should reject an amount above the user total", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		err := f.engine.Unstake("alice", numbers.MustDecimal("200"), genesis.Add(24*time.Hour))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
	t.Run("Should fail when warm positions cannot cover the amount", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		f.stake(t, "alice", "100", genesis.Add(2*time.Hour))

		// Second position expires two hours later than the first.
		err := f.engine.Unstake("alice", numbers.MustDecimal("150"), genesis.Add(24*time.Hour))
		assert.ErrorIs(t, err, ErrWarmupNotEnded)
		assert.Equal(t, "200", f.engine.TotalStaked().String())
	})
	t.Run("Should fail without a receipt allowance", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		err := f.engine.Unstake("alice", numbers.MustDecimal("100"), genesis.Add(24*time.Hour))
		assert.ErrorIs(t, err, tokens.ErrInsufficientAllowance)
	})
}

func Test_UnstakeByIndex(t *testing.T) {
	t.Run("Should withdraw from a single position", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		f.stake(t, "alice", "50", genesis)

		f.approveReceipt("alice", "40")
		assert.Nil(t, f.engine.UnstakeByIndex("alice", numbers.MustDecimal("40"), 1, genesis.Add(24*time.Hour)))

		positions := f.engine.GetStakeDetails("alice")
		assert.Equal(t, 2, len(positions))
		assert.Equal(t, "100", positions[0].Balance.String())
		assert.Equal(t, "10", positions[1].Balance.String())
	})
	t.Run("Should compact with swap-remove when a position empties", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		f.stake(t, "alice", "50", genesis)

		f.approveReceipt("alice", "100")
		assert.Nil(t, f.engine.UnstakeByIndex("alice", numbers.MustDecimal("100"), 0, genesis.Add(24*time.Hour)))

		positions := f.engine.GetStakeDetails("alice")
		assert.Equal(t, 1, len(positions))
		assert.Equal(t, "50", positions[0].Balance.String())
	})
	t.Run("Should reject an out-of-range index", func(t *testing.T) {
		f := setupInitialized(t)
		err := f.engine.UnstakeByIndex("alice", numbers.MustDecimal("10"), 0, genesis)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	})
	t.Run("Should reject a position still in warmup", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		err := f.engine.UnstakeByIndex("alice", numbers.MustDecimal("100"), 0, genesis.Add(time.Hour))
		assert.ErrorIs(t, err, ErrWarmupNotEnded)
	})
}

func Test_UnstakeAll(t *testing.T) {
	t.Run("Should withdraw eligible positions and keep warm ones", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		f.stake(t, "alice", "50", genesis.Add(12*time.Hour))

		f.approveReceipt("alice", "100")
		assert.Nil(t, f.engine.UnstakeAll("alice", genesis.Add(24*time.Hour)))

		assert.Equal(t, "50", f.engine.TotalStakesByUser("alice").String())
		assert.Equal(t, "100", f.base.BalanceOf("alice").String())
	})
	t.Run("Should fail when no position is past warmup", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		assert.ErrorIs(t, f.engine.UnstakeAll("alice", genesis.Add(time.Hour)), ErrWarmupNotEnded)
	})
}

func Test_StartNextEpoch(t *testing.T) {
	t.Run("Should require initialization", func(t *testing.T) {
		f := setup()
		assert.ErrorIs(t, f.engine.StartNextEpoch(genesis), ErrNotInitialized)
	})
	t.Run("Should fail while the active epoch is still running", func(t *testing.T) {
		f := setupInitialized(t)
		assert.ErrorIs(t, f.engine.StartNextEpoch(genesis.Add(time.Hour)), ErrEpochNotEnded)
	})
	t.Run("Should snapshot the closing epoch and commit the next amount", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "2000", genesis)

		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))

		closed := f.engine.GetEpochDetails(1)
		assert.Equal(t, "2000", closed.StakedSnapshot.String())

		assert.Equal(t, uint64(2), f.engine.CurrentEpoch())
		assert.Equal(t, "2732.240437", f.engine.GetEpochDetails(2).DistributeAmount.String())
	})
	t.Run("Should repace the distribution when the rollover crosses a month boundary", func(t *testing.T) {
		f := setupInitialized(t)
		f.fund(t, "500000")

		// 1,500,000 deposited, 2732.240437 committed to epoch 1. Rolling
		// into April repaces the remainder over the horizon.
		april := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
		assert.Nil(t, f.engine.StartNextEpoch(april))

		assert.Equal(t, uint64(2), f.engine.CurrentEpoch())
		assert.Equal(t, "4090.895517", f.engine.GetEpochDetails(2).DistributeAmount.String())
	})
	t.Run("Should keep the pacing amount across rollovers inside one month", func(t *testing.T) {
		f := setupInitialized(t)
		f.fund(t, "500000")

		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))
		assert.Equal(t, "2732.240437", f.engine.GetEpochDetails(2).DistributeAmount.String())
	})
	t.Run("Should return a zero record for an unknown epoch", func(t *testing.T) {
		f := setupInitialized(t)
		assert.Equal(t, uint64(0), f.engine.GetEpochDetails(42).Number)
	})
}

func Test_Claims(t *testing.T) {
	// Three stakers share one closed epoch: 1000/500/500 over a 2000 snapshot
	// with 2732.240437 to distribute.
	setupShared := func(t *testing.T) *testFixture {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)
		f.stake(t, "bob", "500", genesis)
		f.stake(t, "carol", "500", genesis)
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))
		return f
	}
	afterWarmup := genesis.Add(25 * time.Hour)

	t.Run("Should pay proportional truncated shares", func(t *testing.T) {
		f := setupShared(t)

		paid, err := f.engine.ClaimReward("alice", 0, afterWarmup)
		assert.Nil(t, err)
		assert.Equal(t, "1366.12", paid.String())
		assert.True(t, paid.Equal(numbers.MustDecimal("1366.120000")))
		assert.Equal(t, "1366.12", f.reward.BalanceOf("alice").String())

		paid, err = f.engine.ClaimAll("bob", afterWarmup)
		assert.Nil(t, err)
		assert.True(t, paid.Equal(numbers.MustDecimal("683.060000")))

		assert.True(t, f.engine.GetClaimable("carol", afterWarmup).Equal(numbers.MustDecimal("683.060000")))
		assert.Equal(t, "2049.18", f.engine.TotalRewardsPaid().String())
	})
	t.Run("Should not pay the same epoch twice", func(t *testing.T) {
		f := setupShared(t)

		_, err := f.engine.ClaimReward("alice", 0, afterWarmup)
		assert.Nil(t, err)

		_, err = f.engine.ClaimReward("alice", 0, afterWarmup)
		assert.ErrorIs(t, err, ErrNothingToClaim)
	})
	t.Run("Should reject a claim during warmup", func(t *testing.T) {
		f := setupShared(t)
		_, err := f.engine.ClaimReward("alice", 0, genesis.Add(time.Hour))
		assert.ErrorIs(t, err, ErrWarmupNotEnded)
	})
	t.Run("Should have nothing to claim while only the current epoch exists", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)
		_, err := f.engine.ClaimAll("alice", afterWarmup)
		assert.ErrorIs(t, err, ErrNothingToClaim)
	})
	t.Run("Should skip epochs with a zero snapshot", func(t *testing.T) {
		f := setupInitialized(t)

		// Nobody staked during epoch 1, so its snapshot closes at zero.
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))
		f.stake(t, "alice", "1000", genesis.Add(4*time.Hour))
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(8*time.Hour)))

		// The truncated per-token rate is 2.732240, so the dust past six
		// decimals stays in the pool.
		claimable := f.engine.GetClaimable("alice", genesis.Add(36*time.Hour))
		assert.True(t, claimable.Equal(numbers.MustDecimal("2732.240000")))
	})
	t.Run("Should accrue across several closed epochs", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(8*time.Hour)))

		claimable := f.engine.GetClaimable("alice", afterWarmup)
		assert.True(t, claimable.Equal(numbers.MustDecimal("5464.480000")))
	})
}

func Test_Reinvest(t *testing.T) {
	setupClaimable := func(t *testing.T) *testFixture {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))

		f.router.SetRate(f.reward, f.base, decimal.NewFromInt(1))
		f.base.Mint("router", numbers.MustDecimal("1000000"))
		return f
	}
	afterWarmup := genesis.Add(25 * time.Hour)

	t.Run("Should swap rewards into a fresh stake position", func(t *testing.T) {
		f := setupClaimable(t)

		staked, err := f.engine.Reinvest("alice", decimal.Zero, afterWarmup)
		assert.Nil(t, err)
		assert.True(t, staked.Equal(numbers.MustDecimal("2732.240000")))

		assert.True(t, f.engine.TotalStaked().Equal(numbers.MustDecimal("3732.240000")))
		assert.True(t, f.engine.Receipt().BalanceOf("alice").Equal(numbers.MustDecimal("3732.240000")))
		assert.True(t, f.engine.GetClaimable("alice", afterWarmup).IsZero())

		positions := f.engine.GetStakeDetails("alice")
		assert.Equal(t, 2, len(positions))
		assert.Equal(t, uint64(2), positions[1].EpochNumber)
		assert.Equal(t, afterWarmup.Add(24*time.Hour), positions[1].Expiry)
	})
	t.Run("Should leave claims unsettled when slippage fails the swap", func(t *testing.T) {
		f := setupClaimable(t)

		_, err := f.engine.Reinvest("alice", numbers.MustDecimal("99999"), afterWarmup)
		assert.ErrorIs(t, err, swap.ErrSlippageExceeded)
		assert.True(t, f.engine.GetClaimable("alice", afterWarmup).Equal(numbers.MustDecimal("2732.240000")))
	})
	t.Run("Should have nothing to reinvest without accrued rewards", func(t *testing.T) {
		f := setupInitialized(t)
		_, err := f.engine.Reinvest("alice", decimal.Zero, afterWarmup)
		assert.ErrorIs(t, err, ErrNothingToClaim)
	})
}

func Test_AutoReinvestPaging(t *testing.T) {
	t.Run("Should subscribe idempotently", func(t *testing.T) {
		f := setupInitialized(t)
		f.engine.SubscribeAutoReinvest("alice")
		f.engine.SubscribeAutoReinvest("alice")
		assert.Equal(t, 1, f.engine.SubscriberCount())

		f.engine.UnsubscribeAutoReinvest("alice")
		assert.Equal(t, 0, f.engine.SubscriberCount())
	})
	t.Run("Should round page counts up", func(t *testing.T) {
		f := setupInitialized(t)
		for _, u := range []string{"a", "b", "c", "d", "e"} {
			f.engine.SubscribeAutoReinvest(u)
		}
		// Page size 2.
		assert.Equal(t, 3, f.engine.GetTotalPages())
		assert.Equal(t, 1, f.engine.GetTotalPagesFor(5))
		assert.Equal(t, 0, f.engine.GetTotalPagesFor(0))
	})
	t.Run("Should page subscribers with their claimable balances", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)
		f.stake(t, "bob", "500", genesis)
		f.stake(t, "carol", "500", genesis)
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))

		f.engine.SubscribeAutoReinvest("alice")
		f.engine.SubscribeAutoReinvest("bob")
		f.engine.SubscribeAutoReinvest("carol")

		now := genesis.Add(25 * time.Hour)
		page := f.engine.GetEligibleUsers(0, now)
		assert.Equal(t, 2, len(page))
		assert.Equal(t, "alice", page[0].User)
		assert.True(t, page[0].Claimable.Equal(numbers.MustDecimal("1366.120000")))
		assert.Equal(t, "bob", page[1].User)

		page = f.engine.GetEligibleUsers(1, now)
		assert.Equal(t, 1, len(page))
		assert.Equal(t, "carol", page[0].User)

		assert.Equal(t, 0, len(f.engine.GetEligibleUsers(2, now)))
		assert.Equal(t, 0, len(f.engine.GetEligibleUsers(-1, now)))
	})
	t.Run("Should filter subscribers below the threshold", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "1000", genesis)
		f.stake(t, "bob", "500", genesis)
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))

		assert.Nil(t, f.engine.SetAutoReinvestThreshold("owner", numbers.MustDecimal("1000")))
		f.engine.SubscribeAutoReinvest("alice")
		f.engine.SubscribeAutoReinvest("bob")

		page := f.engine.GetEligibleUsers(0, genesis.Add(25*time.Hour))
		assert.Equal(t, 1, len(page))
		assert.Equal(t, "alice", page[0].User)
	})
	t.Run("Should filter subscribers with nothing to claim", func(t *testing.T) {
		f := setupInitialized(t)
		f.engine.SubscribeAutoReinvest("alice")
		assert.Equal(t, 0, len(f.engine.GetEligibleUsers(0, genesis.Add(25*time.Hour))))
	})
}

func Test_Admin(t *testing.T) {
	t.Run("Should reject non-owner callers", func(t *testing.T) {
		f := setupInitialized(t)
		assert.ErrorIs(t, f.engine.SetWarmupPeriod("mallory", 48*time.Hour), ErrNotAuthorized)
		assert.ErrorIs(t, f.engine.SetEpochDuration("mallory", time.Hour), ErrNotAuthorized)
		assert.ErrorIs(t, f.engine.SetAutoReinvestThreshold("mallory", decimal.Zero), ErrNotAuthorized)
		assert.ErrorIs(t, f.engine.SetRouter("mallory", f.router), ErrNotAuthorized)
		assert.ErrorIs(t, f.engine.SetRewardToken("mallory", f.reward), ErrNotAuthorized)
	})
	t.Run("Should bound the warmup period from below", func(t *testing.T) {
		f := setupInitialized(t)
		assert.ErrorIs(t, f.engine.SetWarmupPeriod("owner", 12*time.Hour), ErrInvalidDuration)

		assert.Nil(t, f.engine.SetWarmupPeriod("owner", 48*time.Hour))
		assert.Equal(t, 48*time.Hour, f.engine.WarmupPeriod())
	})
	t.Run("Should keep existing expiries after a warmup change", func(t *testing.T) {
		f := setupInitialized(t)
		f.stake(t, "alice", "100", genesis)
		assert.Nil(t, f.engine.SetWarmupPeriod("owner", 96*time.Hour))

		positions := f.engine.GetStakeDetails("alice")
		assert.Equal(t, genesis.Add(24*time.Hour), positions[0].Expiry)
	})
	t.Run("Should bound the epoch duration", func(t *testing.T) {
		f := setupInitialized(t)
		assert.ErrorIs(t, f.engine.SetEpochDuration("owner", 0), ErrInvalidDuration)
		assert.ErrorIs(t, f.engine.SetEpochDuration("owner", 5*24*time.Hour), ErrInvalidDuration)

		assert.Nil(t, f.engine.SetEpochDuration("owner", 8*time.Hour))
		assert.Equal(t, 8*time.Hour, f.engine.EpochDuration())

		// The running epoch keeps its end; the next one picks up the new length.
		assert.Nil(t, f.engine.StartNextEpoch(genesis.Add(4*time.Hour)))
		assert.Equal(t, genesis.Add(12*time.Hour), f.engine.GetEpochDetails(2).End)
	})
	t.Run("Should reject a negative threshold", func(t *testing.T) {
		f := setupInitialized(t)
		err := f.engine.SetAutoReinvestThreshold("owner", numbers.MustDecimal("-1"))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}
