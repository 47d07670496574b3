package _202508291200_bootstrapDb

import (
	"database/sql"

	"gorm.io/gorm"
)

type Migration struct {
}

func (m *Migration) Up(db *sql.DB, grm *gorm.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS epochs (
			number bigint PRIMARY KEY,
			started_at timestamp with time zone NOT NULL,
			ends_at timestamp with time zone NOT NULL,
			duration_seconds bigint NOT NULL,
			staked_snapshot numeric NOT NULL DEFAULT 0,
			distribute_amount numeric NOT NULL DEFAULT 0,
			created_at timestamp with time zone DEFAULT current_timestamp,
			updated_at timestamp with time zone DEFAULT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stake_events (
			id serial PRIMARY KEY,
			event_type varchar(32) NOT NULL,
			account varchar(255) NOT NULL,
			amount numeric NOT NULL,
			epoch_number bigint NOT NULL,
			occurred_at timestamp with time zone NOT NULL,
			created_at timestamp with time zone DEFAULT current_timestamp
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stake_events_account ON stake_events(account)`,
		`CREATE INDEX IF NOT EXISTS idx_stake_events_epoch ON stake_events(epoch_number)`,
		`CREATE TABLE IF NOT EXISTS vesting_entries (
			account varchar(255) NOT NULL,
			slot integer NOT NULL,
			amount numeric NOT NULL,
			unlock_at timestamp with time zone NOT NULL,
			claimed boolean NOT NULL DEFAULT false,
			claimed_at timestamp with time zone DEFAULT NULL,
			created_at timestamp with time zone DEFAULT current_timestamp,
			PRIMARY KEY (account, slot)
		)`,
	}
	for _, query := range queries {
		if res := grm.Exec(query); res.Error != nil {
			return res.Error
		}
	}
	return nil
}

func (m *Migration) GetName() string {
	return "202508291200_bootstrapDb"
}
