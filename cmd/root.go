package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/blobfi/staking-engine/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "staking-engine",
	Short: "Epoch-based staking reward engine with a vesting feed subsystem",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initConfig(rootCmd)

	rootCmd.PersistentFlags().Bool(config.Debug, false, `"true" or "false"`)

	rootCmd.PersistentFlags().String(config.StakingOwnerAccount, "owner", `Account allowed to call the administrative surface`)
	rootCmd.PersistentFlags().Duration(config.StakingEpochDuration, 4*time.Hour, `Length of one reward epoch`)
	rootCmd.PersistentFlags().Duration(config.StakingWarmupPeriod, 96*time.Hour, `Time a new stake waits before it can earn, unstake or claim`)
	rootCmd.PersistentFlags().Int(config.StakingPageSize, 15, `Subscribers per auto-reinvest keeper page`)
	rootCmd.PersistentFlags().String(config.StakingAutoReinvestThreshold, "0", `Minimum claimable balance for keeper page inclusion`)
	rootCmd.PersistentFlags().Int32(config.StakingBaseTokenDecimals, 18, `Decimal places of the staked token`)
	rootCmd.PersistentFlags().Int32(config.StakingRewardTokenDecimals, 6, `Decimal places of the reward token`)

	rootCmd.PersistentFlags().String(config.FeedingVestingThreshold, "50000", `Pool value at which the feed multiplier saturates`)
	rootCmd.PersistentFlags().String(config.FeedingBaseGrowthRate, "1.03", `Base of the per-day compounding feed bonus`)
	rootCmd.PersistentFlags().String(config.FeedingGrowthRateIncrease, "0.001", `Per-day increment of the feed growth base`)

	rootCmd.PersistentFlags().Bool(config.DatabaseEnabled, false, `Persist epoch and stake history to PostgreSQL`)
	rootCmd.PersistentFlags().String(config.DatabaseHost, "localhost", `PostgreSQL host`)
	rootCmd.PersistentFlags().Int(config.DatabasePort, 5432, `PostgreSQL port`)
	rootCmd.PersistentFlags().String(config.DatabaseUser, "staking", `PostgreSQL username`)
	rootCmd.PersistentFlags().String(config.DatabasePassword, "", `PostgreSQL password`)
	rootCmd.PersistentFlags().String(config.DatabaseDbName, "staking", `PostgreSQL database name`)
	rootCmd.PersistentFlags().String(config.DatabaseSchemaName, "", `PostgreSQL schema name (default "public")`)

	rootCmd.PersistentFlags().Int(config.RpcHttpPort, 7100, `http rpc port`)

	rootCmd.PersistentFlags().Bool(config.PrometheusEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().Int(config.PrometheusPort, 2112, `The port to run the prometheus server on`)

	rootCmd.PersistentFlags().Bool(config.DataDogStatsdEnabled, false, `e.g. "true" or "false"`)
	rootCmd.PersistentFlags().String(config.DataDogStatsdUrl, "", `e.g. "localhost:8125"`)
	rootCmd.PersistentFlags().Float64(config.DataDogStatsdSampleRate, 1.0, `The sample rate to use for statsd metrics`)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runVersionCmd)

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		key := config.KebabToSnakeCase(f.Name)
		viper.BindPFlag(key, f) //nolint:errcheck
		viper.BindEnv(key)      //nolint:errcheck
	})
}

func initConfig(cmd *cobra.Command) {
	viper.SetEnvPrefix(config.ENV_PREFIX)

	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.AutomaticEnv()
}
