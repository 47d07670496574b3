package postgres

import (
	"time"

	"github.com/blobfi/staking-engine/pkg/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Epoch row. Epochs are written once at creation and once more when closed
// (the snapshot arrives at close), hence the upsert.
type Epoch struct {
	Number           uint64 `gorm:"primaryKey"`
	StartedAt        time.Time
	EndsAt           time.Time
	DurationSeconds  int64
	StakedSnapshot   string
	DistributeAmount string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type StakeEvent struct {
	Id          uint64 `gorm:"primaryKey;autoIncrement"`
	EventType   string
	Account     string
	Amount      string
	EpochNumber uint64
	OccurredAt  time.Time
	CreatedAt   time.Time
}

type VestingEntry struct {
	Account   string `gorm:"primaryKey"`
	Slot      int    `gorm:"primaryKey"`
	Amount    string
	UnlockAt  time.Time
	Claimed   bool
	ClaimedAt *time.Time
	CreatedAt time.Time
}

// PostgresHistoryStore persists the engines' append-only audit rows.
type PostgresHistoryStore struct {
	Db     *gorm.DB
	logger *zap.Logger
}

func NewPostgresHistoryStore(grm *gorm.DB, l *zap.Logger) *PostgresHistoryStore {
	return &PostgresHistoryStore{
		Db:     grm,
		logger: l,
	}
}

var _ storage.HistoryRecorder = (*PostgresHistoryStore)(nil)

func (s *PostgresHistoryStore) RecordEpoch(record *storage.EpochRecord) error {
	row := &Epoch{
		Number:           record.Number,
		StartedAt:        record.StartedAt,
		EndsAt:           record.EndsAt,
		DurationSeconds:  record.DurationSeconds,
		StakedSnapshot:   record.StakedSnapshot,
		DistributeAmount: record.DistributeAmount,
	}
	res := s.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"staked_snapshot", "updated_at"}),
	}).Create(row)
	if res.Error != nil {
		s.logger.Sugar().Errorw("Failed to record epoch", zap.Error(res.Error), zap.Uint64("number", record.Number))
		return res.Error
	}
	return nil
}

func (s *PostgresHistoryStore) RecordStakeEvent(record *storage.StakeEventRecord) error {
	row := &StakeEvent{
		EventType:   record.EventType,
		Account:     record.Account,
		Amount:      record.Amount,
		EpochNumber: record.EpochNumber,
		OccurredAt:  record.OccurredAt,
	}
	if res := s.Db.Create(row); res.Error != nil {
		s.logger.Sugar().Errorw("Failed to record stake event", zap.Error(res.Error), zap.String("account", record.Account))
		return res.Error
	}
	return nil
}

func (s *PostgresHistoryStore) RecordVestingEntry(record *storage.VestingRecord) error {
	row := &VestingEntry{
		Account:  record.Account,
		Slot:     record.Slot,
		Amount:   record.Amount,
		UnlockAt: record.UnlockAt,
	}
	if res := s.Db.Create(row); res.Error != nil {
		s.logger.Sugar().Errorw("Failed to record vesting entry", zap.Error(res.Error), zap.String("account", record.Account))
		return res.Error
	}
	return nil
}

func (s *PostgresHistoryStore) MarkVestingClaimed(account string, slot int, claimedAt time.Time) error {
	res := s.Db.Model(&VestingEntry{}).
		Where("account = ? AND slot = ?", account, slot).
		Updates(map[string]interface{}{"claimed": true, "claimed_at": claimedAt})
	if res.Error != nil {
		s.logger.Sugar().Errorw("Failed to mark vesting claimed", zap.Error(res.Error), zap.String("account", account))
		return res.Error
	}
	return nil
}

// ListEpochs returns the persisted epoch history in order.
func (s *PostgresHistoryStore) ListEpochs() ([]*Epoch, error) {
	var epochs []*Epoch
	res := s.Db.Order("number asc").Find(&epochs)
	if res.Error != nil {
		return nil, res.Error
	}
	return epochs, nil
}

// ListStakeEvents returns an account's audit trail, oldest first.
func (s *PostgresHistoryStore) ListStakeEvents(account string) ([]*StakeEvent, error) {
	var events []*StakeEvent
	res := s.Db.Where("account = ?", account).Order("id asc").Find(&events)
	if res.Error != nil {
		return nil, res.Error
	}
	return events, nil
}
