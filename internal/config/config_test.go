package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KebabToSnakeCase(t *testing.T) {
	assert.Equal(t, "staking.epoch_duration", KebabToSnakeCase("staking.epoch-duration"))
	assert.Equal(t, "debug", KebabToSnakeCase("debug"))
}

func Test_GetPostgresDsn(t *testing.T) {
	c := &Config{
		DatabaseConfig: DatabaseConfig{
			Host:   "localhost",
			Port:   5432,
			User:   "staking",
			DbName: "staking",
		},
	}
	assert.Equal(t, "host=localhost port=5432 user=staking dbname=staking sslmode=disable", c.GetPostgresDsn())

	c.DatabaseConfig.Password = "hunter2"
	assert.Equal(t, "host=localhost port=5432 user=staking dbname=staking sslmode=disable password=hunter2", c.GetPostgresDsn())
}
