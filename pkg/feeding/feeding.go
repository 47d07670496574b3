package feeding

import (
	"errors"
	"sync"
	"time"

	"github.com/blobfi/staking-engine/pkg/numbers"
	"github.com/blobfi/staking-engine/pkg/storage"
	"github.com/blobfi/staking-engine/pkg/swap"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNotAuthorized           = errors.New("caller is not the owner")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrTokenNotAllowed         = errors.New("token is not an accepted feed token")
	ErrVestingDoesNotExist     = errors.New("vesting does not exist")
	ErrAlreadyClaimed          = errors.New("vesting already claimed")
	ErrVestingPeriodNotReached = errors.New("vesting period not reached")
)

// VestingEntry is one time-locked allocation. Slots are append-only and never
// reused: a claimed slot stays in place with Claimed flipped, which keeps the
// history auditable.
type VestingEntry struct {
	Owner    string
	Amount   decimal.Decimal
	UnlockAt time.Time
	Claimed  bool
}

type FeederConfig struct {
	Owner   string
	Account string

	// BaseToken is what vests and is paid out; RewardToken's pool balance
	// drives the growth multiplier.
	BaseToken   tokens.Token
	RewardToken tokens.Token
	Router      swap.Swapper

	VestingThreshold   decimal.Decimal
	BaseGrowthRate     decimal.Decimal
	GrowthRateIncrease decimal.Decimal

	Recorder storage.HistoryRecorder
}

// Feeder accepts an arbitrary approved token, swaps it into the base token
// and locks the proceeds, scaled by a compounding growth bonus, under a
// vesting clock.
type Feeder struct {
	mu     sync.Mutex
	logger *zap.Logger

	owner   string
	account string

	baseToken   tokens.Token
	rewardToken tokens.Token
	router      swap.Swapper
	recorder    storage.HistoryRecorder

	vestingThreshold   decimal.Decimal
	baseGrowthRate     decimal.Decimal
	growthRateIncrease decimal.Decimal

	feedTokens map[string]bool
	vesting    map[string][]*VestingEntry
}

func NewFeeder(cfg *FeederConfig, l *zap.Logger) *Feeder {
	return &Feeder{
		logger:             l,
		owner:              cfg.Owner,
		account:            cfg.Account,
		baseToken:          cfg.BaseToken,
		rewardToken:        cfg.RewardToken,
		router:             cfg.Router,
		recorder:           cfg.Recorder,
		vestingThreshold:   cfg.VestingThreshold,
		baseGrowthRate:     cfg.BaseGrowthRate,
		growthRateIncrease: cfg.GrowthRateIncrease,
		feedTokens:         make(map[string]bool),
		vesting:            make(map[string][]*VestingEntry),
	}
}

func (f *Feeder) Account() string {
	return f.account
}

// AddFeedToken whitelists an input token.
func (f *Feeder) AddFeedToken(caller string, token tokens.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if caller != f.owner {
		return ErrNotAuthorized
	}
	f.feedTokens[token.Name()] = true
	return nil
}

// SetRewardToken swaps the token whose pool balance drives the multiplier.
func (f *Feeder) SetRewardToken(caller string, token tokens.Token) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if caller != f.owner {
		return ErrNotAuthorized
	}
	f.rewardToken = token
	return nil
}

// SetRouter swaps the DEX-router collaborator.
func (f *Feeder) SetRouter(caller string, router swap.Swapper) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if caller != f.owner {
		return ErrNotAuthorized
	}
	f.router = router
	return nil
}

// WithdrawFunds drains pool holdings to an arbitrary account. Owner only.
func (f *Feeder) WithdrawFunds(caller, to string, token tokens.Token, amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if caller != f.owner {
		return ErrNotAuthorized
	}
	return token.Transfer(f.account, to, amount)
}

// CalculateFeedReward computes the vesting multiplier for a lock of
// vestingDays:
//
//	R = (poolValue/threshold + 1) * ((increase*T + base)^T - 1) + 1
//
// R is zero when the pool is empty and capped at 2 otherwise, bounding the
// pool drawdown a single long lock can cause.
func (f *Feeder) CalculateFeedReward(vestingDays int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calculateFeedReward(vestingDays)
}

func (f *Feeder) calculateFeedReward(vestingDays int64) decimal.Decimal {
	poolValue := f.rewardToken.BalanceOf(f.account)
	if poolValue.IsZero() {
		return decimal.Zero
	}

	t := decimal.NewFromInt(vestingDays)
	growth := f.growthRateIncrease.Mul(t).Add(f.baseGrowthRate).Pow(t)
	r := poolValue.Div(f.vestingThreshold).Add(decimal.NewFromInt(1)).
		Mul(growth.Sub(decimal.NewFromInt(1))).
		Add(decimal.NewFromInt(1))

	two := decimal.NewFromInt(2)
	if r.GreaterThan(two) {
		return two
	}
	return r
}

// Feed swaps amountIn of an approved token into the base token, scales the
// output by the vesting multiplier and locks it for vestingDays.
func (f *Feeder) Feed(user string, token tokens.Token, amountIn, minOut decimal.Decimal, vestingDays int64, now time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if amountIn.LessThanOrEqual(decimal.Zero) || vestingDays <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	if !f.feedTokens[token.Name()] {
		return decimal.Zero, ErrTokenNotAllowed
	}

	// Pull the input through the user's allowance, then swap from our own
	// account so a failed swap leaves the user refunded.
	if err := token.TransferFrom(f.account, user, f.account, amountIn); err != nil {
		return decimal.Zero, err
	}
	swapped, err := f.router.Swap(token, f.baseToken, f.account, f.account, amountIn, minOut)
	if err != nil {
		_ = token.Transfer(f.account, user, amountIn)
		return decimal.Zero, err
	}

	amount := numbers.TruncateToDecimals(
		swapped.Mul(f.calculateFeedReward(vestingDays)),
		f.baseToken.Decimals(),
	)
	entry := &VestingEntry{
		Owner:    user,
		Amount:   amount,
		UnlockAt: now.Add(time.Duration(vestingDays) * 24 * time.Hour),
	}
	f.vesting[user] = append(f.vesting[user], entry)

	f.logger.Sugar().Infow("Fed tokens into vesting",
		zap.String("user", user),
		zap.String("token", token.Name()),
		zap.String("amountIn", amountIn.String()),
		zap.String("vestedAmount", amount.String()),
		zap.Int64("vestingDays", vestingDays),
	)

	if f.recorder != nil {
		err := f.recorder.RecordVestingEntry(&storage.VestingRecord{
			Account:  user,
			Slot:     len(f.vesting[user]) - 1,
			Amount:   amount.String(),
			UnlockAt: entry.UnlockAt,
		})
		if err != nil {
			f.logger.Sugar().Errorw("Failed to record vesting entry", zap.Error(err), zap.String("user", user))
		}
	}
	return amount, nil
}

// Claim releases the vesting slot at index once its unlock time has passed.
// A slot can be claimed exactly once.
func (f *Feeder) Claim(user string, index int, now time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.vesting[user]) {
		return decimal.Zero, ErrVestingDoesNotExist
	}
	entry := f.vesting[user][index]
	if entry.Claimed {
		return decimal.Zero, ErrAlreadyClaimed
	}
	if now.Before(entry.UnlockAt) {
		return decimal.Zero, ErrVestingPeriodNotReached
	}

	if err := f.baseToken.Transfer(f.account, user, entry.Amount); err != nil {
		return decimal.Zero, err
	}
	entry.Claimed = true

	if f.recorder != nil {
		if err := f.recorder.MarkVestingClaimed(user, index, now); err != nil {
			f.logger.Sugar().Errorw("Failed to record vesting claim", zap.Error(err), zap.String("user", user))
		}
	}
	return entry.Amount, nil
}

// VestingBalances returns copies of the user's vesting slots in append order.
func (f *Feeder) VestingBalances(user string) []VestingEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]VestingEntry, 0, len(f.vesting[user]))
	for _, entry := range f.vesting[user] {
		out = append(out, *entry)
	}
	return out
}
