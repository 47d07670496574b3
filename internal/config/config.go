package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const ENV_PREFIX = "STAKING"

const (
	Debug = "debug"

	StakingOwnerAccount          = "staking.owner-account"
	StakingEpochDuration         = "staking.epoch-duration"
	StakingWarmupPeriod          = "staking.warmup-period"
	StakingPageSize              = "staking.page-size"
	StakingAutoReinvestThreshold = "staking.auto-reinvest-threshold"
	StakingBaseTokenDecimals     = "staking.base-token-decimals"
	StakingRewardTokenDecimals   = "staking.reward-token-decimals"

	FeedingVestingThreshold   = "feeding.vesting-threshold"
	FeedingBaseGrowthRate     = "feeding.base-growth-rate"
	FeedingGrowthRateIncrease = "feeding.growth-rate-increase"

	DatabaseEnabled    = "database.enabled"
	DatabaseHost       = "database.host"
	DatabasePort       = "database.port"
	DatabaseUser       = "database.user"
	DatabasePassword   = "database.password"
	DatabaseDbName     = "database.db_name"
	DatabaseSchemaName = "database.schema_name"

	RpcHttpPort = "rpc.http-port"

	PrometheusEnabled = "prometheus.enabled"
	PrometheusPort    = "prometheus.port"

	DataDogStatsdEnabled    = "datadog.statsd.enabled"
	DataDogStatsdUrl        = "datadog.statsd.url"
	DataDogStatsdSampleRate = "datadog.statsd.sample-rate"
)

type StakingConfig struct {
	OwnerAccount          string
	EpochDuration         time.Duration
	WarmupPeriod          time.Duration
	PageSize              int
	AutoReinvestThreshold string
	BaseTokenDecimals     int32
	RewardTokenDecimals   int32
}

type FeedingConfig struct {
	VestingThreshold   string
	BaseGrowthRate     string
	GrowthRateIncrease string
}

type DatabaseConfig struct {
	Enabled    bool
	Host       string
	Port       int
	User       string
	Password   string
	DbName     string
	SchemaName string
}

type RpcConfig struct {
	HttpPort int
}

type PrometheusConfig struct {
	Enabled bool
	Port    int
}

type DataDogConfig struct {
	StatsdConfig StatsdConfig
}

type StatsdConfig struct {
	Enabled    bool
	Url        string
	SampleRate float64
}

type Config struct {
	Debug            bool
	StakingConfig    StakingConfig
	FeedingConfig    FeedingConfig
	DatabaseConfig   DatabaseConfig
	RpcConfig        RpcConfig
	PrometheusConfig PrometheusConfig
	DataDogConfig    DataDogConfig
}

func NewConfig() *Config {
	return &Config{
		Debug: viper.GetBool(normalizeFlagName(Debug)),

		StakingConfig: StakingConfig{
			OwnerAccount:          viper.GetString(normalizeFlagName(StakingOwnerAccount)),
			EpochDuration:         viper.GetDuration(normalizeFlagName(StakingEpochDuration)),
			WarmupPeriod:          viper.GetDuration(normalizeFlagName(StakingWarmupPeriod)),
			PageSize:              viper.GetInt(normalizeFlagName(StakingPageSize)),
			AutoReinvestThreshold: viper.GetString(normalizeFlagName(StakingAutoReinvestThreshold)),
			BaseTokenDecimals:     viper.GetInt32(normalizeFlagName(StakingBaseTokenDecimals)),
			RewardTokenDecimals:   viper.GetInt32(normalizeFlagName(StakingRewardTokenDecimals)),
		},

		FeedingConfig: FeedingConfig{
			VestingThreshold:   viper.GetString(normalizeFlagName(FeedingVestingThreshold)),
			BaseGrowthRate:     viper.GetString(normalizeFlagName(FeedingBaseGrowthRate)),
			GrowthRateIncrease: viper.GetString(normalizeFlagName(FeedingGrowthRateIncrease)),
		},

		DatabaseConfig: DatabaseConfig{
			Enabled:    viper.GetBool(normalizeFlagName(DatabaseEnabled)),
			Host:       viper.GetString(normalizeFlagName(DatabaseHost)),
			Port:       viper.GetInt(normalizeFlagName(DatabasePort)),
			User:       viper.GetString(normalizeFlagName(DatabaseUser)),
			Password:   viper.GetString(normalizeFlagName(DatabasePassword)),
			DbName:     viper.GetString(normalizeFlagName(DatabaseDbName)),
			SchemaName: viper.GetString(normalizeFlagName(DatabaseSchemaName)),
		},

		RpcConfig: RpcConfig{
			HttpPort: viper.GetInt(normalizeFlagName(RpcHttpPort)),
		},

		PrometheusConfig: PrometheusConfig{
			Enabled: viper.GetBool(normalizeFlagName(PrometheusEnabled)),
			Port:    viper.GetInt(normalizeFlagName(PrometheusPort)),
		},

		DataDogConfig: DataDogConfig{
			StatsdConfig: StatsdConfig{
				Enabled:    viper.GetBool(normalizeFlagName(DataDogStatsdEnabled)),
				Url:        viper.GetString(normalizeFlagName(DataDogStatsdUrl)),
				SampleRate: viper.GetFloat64(normalizeFlagName(DataDogStatsdSampleRate)),
			},
		},
	}
}

// KebabToSnakeCase converts a flag name to the key viper stores it under.
func KebabToSnakeCase(str string) string {
	return strings.ReplaceAll(str, "-", "_")
}

func normalizeFlagName(name string) string {
	return KebabToSnakeCase(name)
}

func (c *Config) GetPostgresDsn() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
		c.DatabaseConfig.Host,
		c.DatabaseConfig.Port,
		c.DatabaseConfig.User,
		c.DatabaseConfig.DbName,
	)
	if c.DatabaseConfig.Password != "" {
		dsn = fmt.Sprintf("%s password=%s", dsn, c.DatabaseConfig.Password)
	}
	return dsn
}
