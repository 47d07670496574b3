package staking

import (
	"sync"
	"time"

	"github.com/blobfi/staking-engine/pkg/storage"
	"github.com/blobfi/staking-engine/pkg/swap"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
)

const (
	DefaultEpochDuration = 4 * time.Hour
	DefaultWarmupPeriod  = 4 * 24 * time.Hour
	DefaultPageSize      = 15

	// Epochs longer than this would starve the pacing window.
	MaxEpochDuration = 4 * 24 * time.Hour
	MinWarmupPeriod  = 24 * time.Hour
)

type EngineConfig struct {
	// Owner may call the administrative surface.
	Owner string
	// Treasury may fund the reward pool alongside the owner.
	Treasury string
	// Account is the engine's own token account. Receipt tokens may only
	// move to or from it.
	Account string

	BaseToken   tokens.Token
	RewardToken tokens.Token
	Router      swap.Swapper

	EpochDuration         time.Duration
	WarmupPeriod          time.Duration
	PageSize              int
	AutoReinvestThreshold decimal.Decimal

	// Recorder persists append-only history. Optional.
	Recorder storage.HistoryRecorder
}

// Engine is one staking engine instance: epoch timeline, reward pacing, stake
// ledger, claim accounting and the auto-reinvest subscriber set. All state
// mutating calls serialize on one mutex; time is always injected by the
// caller so the engine itself is deterministic.
type Engine struct {
	mu     sync.Mutex
	logger *zap.Logger

	owner    string
	treasury string
	account  string

	baseToken   tokens.Token
	rewardToken tokens.Token
	receipt     *tokens.ReceiptToken
	router      swap.Swapper
	recorder    storage.HistoryRecorder

	epochDuration         time.Duration
	warmupPeriod          time.Duration
	pageSize              int
	autoReinvestThreshold decimal.Decimal

	initialized  bool
	currentEpoch uint64
	epochs       map[uint64]*Epoch

	pacer *rewardPacer

	totalStaked      decimal.Decimal
	totalRewardsPaid decimal.Decimal
	positions        map[string][]*StakePosition
	totalsByUser     map[string]decimal.Decimal

	subscribers *orderedmap.OrderedMap[string, bool]
}

func NewEngine(cfg *EngineConfig, l *zap.Logger) *Engine {
	if cfg.EpochDuration == 0 {
		cfg.EpochDuration = DefaultEpochDuration
	}
	if cfg.WarmupPeriod == 0 {
		cfg.WarmupPeriod = DefaultWarmupPeriod
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}

	return &Engine{
		logger:                l,
		owner:                 cfg.Owner,
		treasury:              cfg.Treasury,
		account:               cfg.Account,
		baseToken:             cfg.BaseToken,
		rewardToken:           cfg.RewardToken,
		receipt:               tokens.NewReceiptToken("Staking Receipt", cfg.BaseToken.Decimals(), cfg.Account),
		router:                cfg.Router,
		recorder:              cfg.Recorder,
		epochDuration:         cfg.EpochDuration,
		warmupPeriod:          cfg.WarmupPeriod,
		pageSize:              cfg.PageSize,
		autoReinvestThreshold: cfg.AutoReinvestThreshold,
		epochs:                make(map[uint64]*Epoch),
		pacer:                 newRewardPacer(cfg.RewardToken.Decimals()),
		totalStaked:           decimal.Zero,
		totalRewardsPaid:      decimal.Zero,
		positions:             make(map[string][]*StakePosition),
		totalsByUser:          make(map[string]decimal.Decimal),
		subscribers:           orderedmap.New[string, bool](),
	}
}

// Receipt exposes the non-transferable receipt token.
func (e *Engine) Receipt() *tokens.ReceiptToken {
	return e.receipt
}

// Account returns the engine's token account.
func (e *Engine) Account() string {
	return e.account
}

// Initialize computes the first pacing amount from whatever has been
// deposited so far and opens epoch 1.
func (e *Engine) Initialize(caller string, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.owner {
		return ErrNotAuthorized
	}
	if e.initialized {
		return ErrAlreadyInitialized
	}

	e.pacer.resetWindow(now)
	e.openEpoch(1, now)
	e.initialized = true

	e.logger.Sugar().Infow("Initialized staking engine",
		zap.String("amountPerEpoch", e.pacer.amountPerEpoch.String()),
		zap.Duration("epochDuration", e.epochDuration),
	)
	return nil
}

// openEpoch creates and commits epoch n starting at now. Callers hold the lock.
func (e *Engine) openEpoch(n uint64, now time.Time) {
	distribute := e.pacer.commitEpochAmount()
	epoch := &Epoch{
		Number:           n,
		StartedAt:        now,
		End:              now.Add(e.epochDuration),
		Duration:         e.epochDuration,
		StakedSnapshot:   decimal.Zero,
		DistributeAmount: distribute,
	}
	e.epochs[n] = epoch
	e.currentEpoch = n
	e.recordEpoch(epoch)
}

func (e *Engine) recordEpoch(epoch *Epoch) {
	if e.recorder == nil {
		return
	}
	err := e.recorder.RecordEpoch(&storage.EpochRecord{
		Number:           epoch.Number,
		StartedAt:        epoch.StartedAt,
		EndsAt:           epoch.End,
		DurationSeconds:  int64(epoch.Duration.Seconds()),
		StakedSnapshot:   epoch.StakedSnapshot.String(),
		DistributeAmount: epoch.DistributeAmount.String(),
	})
	if err != nil {
		e.logger.Sugar().Errorw("Failed to record epoch", zap.Error(err), zap.Uint64("epoch", epoch.Number))
	}
}

func (e *Engine) recordStakeEvent(eventType, account string, amount decimal.Decimal, occurredAt time.Time) {
	if e.recorder == nil {
		return
	}
	err := e.recorder.RecordStakeEvent(&storage.StakeEventRecord{
		EventType:   eventType,
		Account:     account,
		Amount:      amount.String(),
		EpochNumber: e.currentEpoch,
		OccurredAt:  occurredAt,
	})
	if err != nil {
		e.logger.Sugar().Errorw("Failed to record stake event",
			zap.Error(err),
			zap.String("eventType", eventType),
			zap.String("account", account),
		)
	}
}

// Deposit funds the reward pool. Allowed before initialization so the first
// pacing window has something to smooth. The caller must have approved the
// engine to pull the reward tokens.
func (e *Engine) Deposit(caller string, amount decimal.Decimal, now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.owner && caller != e.treasury {
		return ErrNotAuthorized
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if err := e.rewardToken.TransferFrom(e.account, caller, e.account, amount); err != nil {
		return err
	}
	e.pacer.deposit(amount)

	e.logger.Sugar().Infow("Reward pool deposit",
		zap.String("caller", caller),
		zap.String("amount", amount.String()),
		zap.String("undistributed", e.pacer.undistributed().String()),
	)
	return nil
}

// TotalDeposited returns the lifetime reward-pool funding.
func (e *Engine) TotalDeposited() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pacer.totalDeposited
}

// AmountPerEpoch returns the current pacing amount.
func (e *Engine) AmountPerEpoch() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pacer.amountPerEpoch
}

func (e *Engine) TotalStaked() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalStaked
}

func (e *Engine) TotalRewardsPaid() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalRewardsPaid
}

func (e *Engine) TotalStakesByUser(user string) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.totalsByUser[user]; ok {
		return t
	}
	return decimal.Zero
}

func (e *Engine) WarmupPeriod() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.warmupPeriod
}

func (e *Engine) EpochDuration() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epochDuration
}
