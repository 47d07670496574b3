package cmd

import (
	"fmt"
	"time"

	"github.com/blobfi/staking-engine/internal/config"
	"github.com/blobfi/staking-engine/internal/logger"
	"github.com/blobfi/staking-engine/internal/metrics"
	"github.com/blobfi/staking-engine/internal/metrics/prometheus"
	"github.com/blobfi/staking-engine/internal/shutdown"
	"github.com/blobfi/staking-engine/pkg/feeding"
	"github.com/blobfi/staking-engine/pkg/postgres"
	"github.com/blobfi/staking-engine/pkg/postgres/migrations"
	"github.com/blobfi/staking-engine/pkg/server"
	"github.com/blobfi/staking-engine/pkg/staking"
	"github.com/blobfi/staking-engine/pkg/storage"
	pgStorage "github.com/blobfi/staking-engine/pkg/storage/postgres"
	"github.com/blobfi/staking-engine/pkg/swap"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	engineAccount = "staking-engine"
	feederAccount = "feeding-pool"
	routerAccount = "swap-router"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the staking engine",
	Run: func(cmd *cobra.Command, args []string) {
		initRunCmd(cmd)
		cfg := config.NewConfig()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		metricsClients, err := metrics.InitMetricsSinksFromConfig(cfg, l)
		if err != nil {
			l.Sugar().Fatalw("Failed to setup metrics clients", zap.Error(err))
		}
		sink, err := metrics.NewMetricsSink(&metrics.MetricsSinkConfig{}, metricsClients)
		if err != nil {
			l.Sugar().Fatalw("Failed to setup metrics sink", zap.Error(err))
		}

		var recorder storage.HistoryRecorder
		if cfg.DatabaseConfig.Enabled {
			pg, err := postgres.NewPostgres(postgres.PostgresConfigFromDbConfig(&cfg.DatabaseConfig))
			if err != nil {
				l.Sugar().Fatalw("Failed to setup postgres connection", zap.Error(err))
			}
			grm, err := postgres.NewGormFromPostgresConnection(pg.Db)
			if err != nil {
				l.Sugar().Fatalw("Failed to create gorm instance", zap.Error(err))
			}
			migrator := migrations.NewMigrator(pg.Db, grm, l)
			if err = migrator.MigrateAll(); err != nil {
				l.Sugar().Fatalw("Failed to migrate", zap.Error(err))
			}
			recorder = pgStorage.NewPostgresHistoryStore(grm, l)
		}

		baseToken := tokens.NewLedger("BASE", cfg.StakingConfig.BaseTokenDecimals)
		rewardToken := tokens.NewLedger("REWARD", cfg.StakingConfig.RewardTokenDecimals)
		router := swap.NewFixedRateRouter(routerAccount)

		engine := staking.NewEngine(&staking.EngineConfig{
			Owner:                 cfg.StakingConfig.OwnerAccount,
			Treasury:              cfg.StakingConfig.OwnerAccount,
			Account:               engineAccount,
			BaseToken:             baseToken,
			RewardToken:           rewardToken,
			Router:                router,
			EpochDuration:         cfg.StakingConfig.EpochDuration,
			WarmupPeriod:          cfg.StakingConfig.WarmupPeriod,
			PageSize:              cfg.StakingConfig.PageSize,
			AutoReinvestThreshold: mustDecimal(cfg.StakingConfig.AutoReinvestThreshold, l),
			Recorder:              recorder,
		}, l)

		feeder := feeding.NewFeeder(&feeding.FeederConfig{
			Owner:              cfg.StakingConfig.OwnerAccount,
			Account:            feederAccount,
			BaseToken:          baseToken,
			RewardToken:        rewardToken,
			Router:             router,
			VestingThreshold:   mustDecimal(cfg.FeedingConfig.VestingThreshold, l),
			BaseGrowthRate:     mustDecimal(cfg.FeedingConfig.BaseGrowthRate, l),
			GrowthRateIncrease: mustDecimal(cfg.FeedingConfig.GrowthRateIncrease, l),
			Recorder:           recorder,
		}, l)

		// The in-memory token and router collaborators stand in for external
		// contracts. Seed a unit REWARD/BASE quote, router liquidity and the
		// feed whitelist so reinvest and feed work against this wiring, then
		// open epoch one as the owner. Swapping in real collaborators replaces
		// this block.
		router.SetRate(rewardToken, baseToken, decimal.NewFromInt(1))
		baseToken.Mint(routerAccount, decimal.NewFromInt(1_000_000_000))
		if err := feeder.AddFeedToken(cfg.StakingConfig.OwnerAccount, rewardToken); err != nil {
			l.Sugar().Fatalw("Failed to whitelist feed token", zap.Error(err))
		}
		if err := engine.Initialize(cfg.StakingConfig.OwnerAccount, time.Now().UTC()); err != nil {
			l.Sugar().Fatalw("Failed to initialize staking engine", zap.Error(err))
		}

		feedTokens := map[string]tokens.Token{
			rewardToken.Name(): rewardToken,
		}

		rpcChannel := make(chan bool)
		srv := server.NewServer(&server.ServerConfig{
			HttpPort: cfg.RpcConfig.HttpPort,
		}, engine, feeder, feedTokens, sink, l)
		if err := srv.Start(rpcChannel); err != nil {
			l.Sugar().Fatalw("Failed to start http server", zap.Error(err))
		}

		promChannel := make(chan bool)
		if cfg.PrometheusConfig.Enabled {
			ps := prometheus.NewPrometheusServer(&prometheus.PrometheusServerConfig{
				Port: cfg.PrometheusConfig.Port,
			}, l)
			if err := ps.Start(promChannel); err != nil {
				l.Sugar().Fatalw("Failed to start prometheus server", zap.Error(err))
			}
		}

		gracefulShutdown := shutdown.CreateGracefulShutdownChannel()
		done := make(chan bool)
		shutdown.ListenForShutdown(gracefulShutdown, done, func() {
			l.Sugar().Info("Shutting down...")
			rpcChannel <- true
			if cfg.PrometheusConfig.Enabled {
				promChannel <- true
			}
		}, time.Second*5, l)
	},
}

func mustDecimal(raw string, l *zap.Logger) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		l.Sugar().Fatalw("Invalid decimal config value", zap.String("value", raw), zap.Error(err))
	}
	return d
}

func initRunCmd(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(config.KebabToSnakeCase(f.Name), f); err != nil {
			fmt.Printf("Failed to bind flag '%s' - %+v\n", f.Name, err)
		}
		if err := viper.BindEnv(f.Name); err != nil {
			fmt.Printf("Failed to bind env '%s' - %+v\n", f.Name, err)
		}
	})
}
