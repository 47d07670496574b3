package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/blobfi/staking-engine/internal/metrics"
	"github.com/blobfi/staking-engine/internal/metrics/metricsTypes"
	"github.com/blobfi/staking-engine/pkg/feeding"
	"github.com/blobfi/staking-engine/pkg/staking"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type ServerConfig struct {
	HttpPort int
}

// Server exposes the engine's read views and operations as a JSON API. Every
// state-mutating request stamps the wall clock in; the engine itself never
// reads one.
type Server struct {
	config *ServerConfig
	engine *staking.Engine
	feeder *feeding.Feeder
	tokens map[string]tokens.Token
	sink   *metrics.MetricsSink
	logger *zap.Logger
}

func NewServer(
	cfg *ServerConfig,
	engine *staking.Engine,
	feeder *feeding.Feeder,
	feedTokens map[string]tokens.Token,
	sink *metrics.MetricsSink,
	l *zap.Logger,
) *Server {
	return &Server{
		config: cfg,
		engine: engine,
		feeder: feeder,
		tokens: feedTokens,
		sink:   sink,
		logger: l,
	}
}

// handlerFunc lets handlers return errors; the wrapper maps them onto HTTP
// status codes in one place.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) wrap(name string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		err := h(w, r)
		if err != nil {
			s.writeError(w, err)
		}
		if s.sink != nil {
			labels := []metricsTypes.MetricsLabel{{Name: "path", Value: name}}
			_ = s.sink.Incr(metricsTypes.Metric_Incr_HttpRequest, labels, 1)
			_ = s.sink.Timing(metricsTypes.Metric_Timing_HttpDuration, time.Since(start), labels)
		}
	}
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/epochs/current", s.wrap("epochs.current", s.handleCurrentEpoch)).Methods(http.MethodGet)
	v1.HandleFunc("/epochs/start", s.wrap("epochs.start", s.handleStartNextEpoch)).Methods(http.MethodPost)
	v1.HandleFunc("/epochs/{number}", s.wrap("epochs.get", s.handleGetEpoch)).Methods(http.MethodGet)

	v1.HandleFunc("/stakes/{user}", s.wrap("stakes.get", s.handleGetStakes)).Methods(http.MethodGet)
	v1.HandleFunc("/claimable/{user}", s.wrap("claimable.get", s.handleGetClaimable)).Methods(http.MethodGet)
	v1.HandleFunc("/total-staked", s.wrap("totalStaked", s.handleTotalStaked)).Methods(http.MethodGet)
	v1.HandleFunc("/total-rewards-paid", s.wrap("totalRewardsPaid", s.handleTotalRewardsPaid)).Methods(http.MethodGet)

	v1.HandleFunc("/stake", s.wrap("stake", s.handleStake)).Methods(http.MethodPost)
	v1.HandleFunc("/unstake", s.wrap("unstake", s.handleUnstake)).Methods(http.MethodPost)
	v1.HandleFunc("/unstake-all", s.wrap("unstakeAll", s.handleUnstakeAll)).Methods(http.MethodPost)
	v1.HandleFunc("/claim", s.wrap("claim", s.handleClaim)).Methods(http.MethodPost)
	v1.HandleFunc("/claim-all", s.wrap("claimAll", s.handleClaimAll)).Methods(http.MethodPost)
	v1.HandleFunc("/reinvest", s.wrap("reinvest", s.handleReinvest)).Methods(http.MethodPost)
	v1.HandleFunc("/deposit", s.wrap("deposit", s.handleDeposit)).Methods(http.MethodPost)

	v1.HandleFunc("/subscribe", s.wrap("subscribe", s.handleSubscribe)).Methods(http.MethodPost)
	v1.HandleFunc("/eligible-users/{page}", s.wrap("eligibleUsers", s.handleEligibleUsers)).Methods(http.MethodGet)
	v1.HandleFunc("/pages", s.wrap("pages", s.handleTotalPages)).Methods(http.MethodGet)

	v1.HandleFunc("/feed", s.wrap("feed", s.handleFeed)).Methods(http.MethodPost)
	v1.HandleFunc("/vesting/claim", s.wrap("vesting.claim", s.handleVestingClaim)).Methods(http.MethodPost)
	v1.HandleFunc("/vesting/{user}", s.wrap("vesting.get", s.handleGetVesting)).Methods(http.MethodGet)

	v1.HandleFunc("/admin/initialize", s.wrap("admin.initialize", s.handleInitialize)).Methods(http.MethodPost)
	v1.HandleFunc("/admin/warmup-period", s.wrap("admin.warmupPeriod", s.handleSetWarmupPeriod)).Methods(http.MethodPost)
	v1.HandleFunc("/admin/epoch-duration", s.wrap("admin.epochDuration", s.handleSetEpochDuration)).Methods(http.MethodPost)
	v1.HandleFunc("/admin/auto-reinvest-threshold", s.wrap("admin.autoReinvestThreshold", s.handleSetAutoReinvestThreshold)).Methods(http.MethodPost)

	return cors.Default().Handler(r)
}

// Start serves until a value arrives on gracefulShutdown.
func (s *Server) Start(gracefulShutdown chan bool) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.HttpPort),
		Handler: s.router(),
	}

	go func() {
		for range gracefulShutdown {
			s.logger.Sugar().Info("Shutting down http server")
			if err := httpServer.Shutdown(context.Background()); err != nil {
				s.logger.Sugar().Errorw("Failed to shutdown http server", zap.Error(err))
			}
		}
	}()
	go func() {
		s.logger.Sugar().Infow("Starting http server", zap.Int("port", s.config.HttpPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Sugar().Fatalw("Failed to start http server", zap.Error(err))
		}
	}()
	return nil
}
