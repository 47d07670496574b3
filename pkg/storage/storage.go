package storage

import (
	"time"
)

// Stake event types persisted to the history tables.
const (
	StakeEvent_Staked     = "staked"
	StakeEvent_Unstaked   = "unstaked"
	StakeEvent_Claimed    = "claimed"
	StakeEvent_Reinvested = "reinvested"
)

// EpochRecord is the persisted form of a closed or open epoch. Amounts are
// stored as strings to keep full decimal precision, as the reward pipeline
// tables do.
type EpochRecord struct {
	Number           uint64
	StartedAt        time.Time
	EndsAt           time.Time
	DurationSeconds  int64
	StakedSnapshot   string
	DistributeAmount string
}

type StakeEventRecord struct {
	EventType   string
	Account     string
	Amount      string
	EpochNumber uint64
	OccurredAt  time.Time
}

type VestingRecord struct {
	Account  string
	Slot     int
	Amount   string
	UnlockAt time.Time
}

// HistoryRecorder receives append-only audit rows from the engines. A nil
// recorder is valid; recording failures are logged and never fail the
// originating operation.
type HistoryRecorder interface {
	RecordEpoch(record *EpochRecord) error
	RecordStakeEvent(record *StakeEventRecord) error
	RecordVestingEntry(record *VestingRecord) error
	MarkVestingClaimed(account string, slot int, claimedAt time.Time) error
}
