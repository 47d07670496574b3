package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/blobfi/staking-engine/internal/metrics/metricsTypes"
	"github.com/blobfi/staking-engine/pkg/feeding"
	"github.com/blobfi/staking-engine/pkg/staking"
	"github.com/blobfi/staking-engine/pkg/swap"
	"github.com/blobfi/staking-engine/pkg/tokens"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// writeError maps domain sentinels onto status codes. Anything unrecognized is
// a 500; the domain packages return sentinels for every expected failure.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, staking.ErrNotAuthorized) || errors.Is(err, feeding.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, staking.ErrInvalidAmount) ||
		errors.Is(err, staking.ErrInvalidDuration) ||
		errors.Is(err, staking.ErrInvalidIndex) ||
		errors.Is(err, staking.ErrWarmupNotEnded) ||
		errors.Is(err, staking.ErrEpochNotEnded) ||
		errors.Is(err, staking.ErrNothingToClaim) ||
		errors.Is(err, staking.ErrNotInitialized) ||
		errors.Is(err, staking.ErrAlreadyInitialized):
		status = http.StatusBadRequest
	case errors.Is(err, feeding.ErrInvalidAmount) ||
		errors.Is(err, feeding.ErrTokenNotAllowed) ||
		errors.Is(err, feeding.ErrAlreadyClaimed) ||
		errors.Is(err, feeding.ErrVestingPeriodNotReached):
		status = http.StatusBadRequest
	case errors.Is(err, feeding.ErrVestingDoesNotExist):
		status = http.StatusNotFound
	case errors.Is(err, tokens.ErrInvalidAmount) ||
		errors.Is(err, tokens.ErrTransferFailed) ||
		errors.Is(err, tokens.ErrInsufficientAllowance) ||
		errors.Is(err, tokens.ErrNonTransferable):
		status = http.StatusBadRequest
	case errors.Is(err, swap.ErrSlippageExceeded) || errors.Is(err, swap.ErrNoPath):
		status = http.StatusBadRequest
	case errors.As(err, new(*badRequestError)):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Sugar().Errorw("Request failed", zap.Error(err))
	}
	_ = s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// badRequestError wraps malformed-input failures so writeError can tell them
// apart from internal ones.
type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }

func badRequest(err error) error {
	return &badRequestError{err: err}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(err)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, badRequest(err)
	}
	return amount, nil
}

// ---------------------------------------------------------------------------
// Epoch endpoints

type epochResponse struct {
	Number           uint64    `json:"number"`
	StartedAt        time.Time `json:"startedAt"`
	End              time.Time `json:"end"`
	DurationSeconds  int64     `json:"durationSeconds"`
	StakedSnapshot   string    `json:"stakedSnapshot"`
	DistributeAmount string    `json:"distributeAmount"`
}

func newEpochResponse(epoch staking.Epoch) epochResponse {
	return epochResponse{
		Number:           epoch.Number,
		StartedAt:        epoch.StartedAt,
		End:              epoch.End,
		DurationSeconds:  int64(epoch.Duration.Seconds()),
		StakedSnapshot:   epoch.StakedSnapshot.String(),
		DistributeAmount: epoch.DistributeAmount.String(),
	}
}

func (s *Server) handleCurrentEpoch(w http.ResponseWriter, r *http.Request) error {
	n := s.engine.CurrentEpoch()
	return s.writeJSON(w, http.StatusOK, newEpochResponse(s.engine.GetEpochDetails(n)))
}

func (s *Server) handleGetEpoch(w http.ResponseWriter, r *http.Request) error {
	n, err := strconv.ParseUint(mux.Vars(r)["number"], 10, 64)
	if err != nil {
		return badRequest(err)
	}
	return s.writeJSON(w, http.StatusOK, newEpochResponse(s.engine.GetEpochDetails(n)))
}

func (s *Server) handleStartNextEpoch(w http.ResponseWriter, r *http.Request) error {
	if err := s.engine.StartNextEpoch(time.Now().UTC()); err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_EpochStarted)
	s.gauge(metricsTypes.Metric_Gauge_CurrentEpoch, float64(s.engine.CurrentEpoch()))
	return s.writeJSON(w, http.StatusOK, newEpochResponse(s.engine.GetEpochDetails(s.engine.CurrentEpoch())))
}

// ---------------------------------------------------------------------------
// Stake views

type stakeResponse struct {
	Balance        string    `json:"balance"`
	EpochNumber    uint64    `json:"epochNumber"`
	Start          time.Time `json:"start"`
	Expiry         time.Time `json:"expiry"`
	ClaimedThrough uint64    `json:"claimedThrough"`
}

func (s *Server) handleGetStakes(w http.ResponseWriter, r *http.Request) error {
	user := mux.Vars(r)["user"]
	positions := s.engine.GetStakeDetails(user)

	out := make([]stakeResponse, 0, len(positions))
	for _, pos := range positions {
		out = append(out, stakeResponse{
			Balance:        pos.Balance.String(),
			EpochNumber:    pos.EpochNumber,
			Start:          pos.Start,
			Expiry:         pos.Expiry,
			ClaimedThrough: pos.ClaimedThrough(),
		})
	}
	return s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":   user,
		"total":  s.engine.TotalStakesByUser(user).String(),
		"stakes": out,
	})
}

func (s *Server) handleGetClaimable(w http.ResponseWriter, r *http.Request) error {
	user := mux.Vars(r)["user"]
	claimable := s.engine.GetClaimable(user, time.Now().UTC())
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":      user,
		"claimable": claimable.String(),
	})
}

func (s *Server) handleTotalStaked(w http.ResponseWriter, r *http.Request) error {
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"totalStaked": s.engine.TotalStaked().String(),
	})
}

func (s *Server) handleTotalRewardsPaid(w http.ResponseWriter, r *http.Request) error {
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"totalRewardsPaid": s.engine.TotalRewardsPaid().String(),
	})
}

// ---------------------------------------------------------------------------
// Stake operations

type stakeRequest struct {
	User   string `json:"user"`
	Amount string `json:"amount"`
	Index  *int   `json:"index,omitempty"`
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) error {
	var req stakeRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	if err := s.engine.Stake(req.User, amount, time.Now().UTC()); err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Stake)
	s.gaugeTotals()
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":   req.User,
		"staked": amount.String(),
	})
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) error {
	var req stakeRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if req.Index != nil {
		err = s.engine.UnstakeByIndex(req.User, amount, *req.Index, now)
	} else {
		err = s.engine.Unstake(req.User, amount, now)
	}
	if err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Unstake)
	s.gaugeTotals()
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":     req.User,
		"unstaked": amount.String(),
	})
}

type userRequest struct {
	User string `json:"user"`
}

func (s *Server) handleUnstakeAll(w http.ResponseWriter, r *http.Request) error {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if err := s.engine.UnstakeAll(req.User, time.Now().UTC()); err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Unstake)
	s.gaugeTotals()
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":      req.User,
		"remaining": s.engine.TotalStakesByUser(req.User).String(),
	})
}

type claimRequest struct {
	User  string `json:"user"`
	Index int    `json:"index"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) error {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := s.engine.ClaimReward(req.User, req.Index, time.Now().UTC())
	if err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Claim)
	s.gaugeTotals()
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":    req.User,
		"claimed": amount.String(),
	})
}

func (s *Server) handleClaimAll(w http.ResponseWriter, r *http.Request) error {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := s.engine.ClaimAll(req.User, time.Now().UTC())
	if err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Claim)
	s.gaugeTotals()
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":    req.User,
		"claimed": amount.String(),
	})
}

type reinvestRequest struct {
	User   string `json:"user"`
	MinOut string `json:"minOut"`
}

func (s *Server) handleReinvest(w http.ResponseWriter, r *http.Request) error {
	var req reinvestRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	minOut := decimal.Zero
	if req.MinOut != "" {
		var err error
		minOut, err = parseAmount(req.MinOut)
		if err != nil {
			return err
		}
	}
	staked, err := s.engine.Reinvest(req.User, minOut, time.Now().UTC())
	if err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Reinvest)
	s.gaugeTotals()
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":   req.User,
		"staked": staked.String(),
	})
}

type depositRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) error {
	var req depositRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	if err := s.engine.Deposit(req.Caller, amount, time.Now().UTC()); err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"deposited":      amount.String(),
		"totalDeposited": s.engine.TotalDeposited().String(),
	})
}

// ---------------------------------------------------------------------------
// Auto-reinvest paging

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) error {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	s.engine.SubscribeAutoReinvest(req.User)
	return s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        req.User,
		"subscribers": s.engine.SubscriberCount(),
	})
}

func (s *Server) handleEligibleUsers(w http.ResponseWriter, r *http.Request) error {
	page, err := strconv.Atoi(mux.Vars(r)["page"])
	if err != nil {
		return badRequest(err)
	}
	users := s.engine.GetEligibleUsers(page, time.Now().UTC())

	out := make([]map[string]string, 0, len(users))
	for _, u := range users {
		out = append(out, map[string]string{
			"user":      u.User,
			"claimable": u.Claimable.String(),
		})
	}
	return s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":  page,
		"users": out,
	})
}

func (s *Server) handleTotalPages(w http.ResponseWriter, r *http.Request) error {
	return s.writeJSON(w, http.StatusOK, map[string]int{
		"pages": s.engine.GetTotalPages(),
	})
}

// ---------------------------------------------------------------------------
// Feeding

type feedRequest struct {
	User        string `json:"user"`
	Token       string `json:"token"`
	AmountIn    string `json:"amountIn"`
	MinOut      string `json:"minOut"`
	VestingDays int64  `json:"vestingDays"`
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) error {
	var req feedRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	token, ok := s.tokens[req.Token]
	if !ok {
		return feeding.ErrTokenNotAllowed
	}
	amountIn, err := parseAmount(req.AmountIn)
	if err != nil {
		return err
	}
	minOut := decimal.Zero
	if req.MinOut != "" {
		minOut, err = parseAmount(req.MinOut)
		if err != nil {
			return err
		}
	}
	vested, err := s.feeder.Feed(req.User, token, amountIn, minOut, req.VestingDays, time.Now().UTC())
	if err != nil {
		return err
	}
	s.incr(metricsTypes.Metric_Incr_Feed)
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":   req.User,
		"vested": vested.String(),
	})
}

func (s *Server) handleVestingClaim(w http.ResponseWriter, r *http.Request) error {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := s.feeder.Claim(req.User, req.Index, time.Now().UTC())
	if err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"user":    req.User,
		"claimed": amount.String(),
	})
}

type vestingResponse struct {
	Amount   string    `json:"amount"`
	UnlockAt time.Time `json:"unlockAt"`
	Claimed  bool      `json:"claimed"`
}

func (s *Server) handleGetVesting(w http.ResponseWriter, r *http.Request) error {
	user := mux.Vars(r)["user"]
	entries := s.feeder.VestingBalances(user)

	out := make([]vestingResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, vestingResponse{
			Amount:   entry.Amount.String(),
			UnlockAt: entry.UnlockAt,
			Claimed:  entry.Claimed,
		})
	}
	return s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"vesting": out,
	})
}

// ---------------------------------------------------------------------------
// Admin

type adminCallerRequest struct {
	Caller string `json:"caller"`
}

// handleInitialize opens epoch one. The engine rejects every operation until
// the owner has called this once.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) error {
	var req adminCallerRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	if err := s.engine.Initialize(req.Caller, time.Now().UTC()); err != nil {
		return err
	}
	s.gauge(metricsTypes.Metric_Gauge_CurrentEpoch, float64(s.engine.CurrentEpoch()))
	return s.writeJSON(w, http.StatusOK, newEpochResponse(s.engine.GetEpochDetails(s.engine.CurrentEpoch())))
}

type adminDurationRequest struct {
	Caller          string `json:"caller"`
	DurationSeconds int64  `json:"durationSeconds"`
}

func (s *Server) handleSetWarmupPeriod(w http.ResponseWriter, r *http.Request) error {
	var req adminDurationRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := time.Duration(req.DurationSeconds) * time.Second
	if err := s.engine.SetWarmupPeriod(req.Caller, d); err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, map[string]int64{
		"warmupPeriodSeconds": int64(s.engine.WarmupPeriod().Seconds()),
	})
}

func (s *Server) handleSetEpochDuration(w http.ResponseWriter, r *http.Request) error {
	var req adminDurationRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	d := time.Duration(req.DurationSeconds) * time.Second
	if err := s.engine.SetEpochDuration(req.Caller, d); err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, map[string]int64{
		"epochDurationSeconds": int64(s.engine.EpochDuration().Seconds()),
	})
}

type adminAmountRequest struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

func (s *Server) handleSetAutoReinvestThreshold(w http.ResponseWriter, r *http.Request) error {
	var req adminAmountRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return err
	}
	if err := s.engine.SetAutoReinvestThreshold(req.Caller, amount); err != nil {
		return err
	}
	return s.writeJSON(w, http.StatusOK, map[string]string{
		"autoReinvestThreshold": amount.String(),
	})
}

func (s *Server) incr(name string) {
	if s.sink == nil {
		return
	}
	_ = s.sink.Incr(name, nil, 1)
}

func (s *Server) gauge(name string, value float64) {
	if s.sink == nil {
		return
	}
	_ = s.sink.Gauge(name, value, nil)
}

func (s *Server) gaugeTotals() {
	totalStaked, _ := s.engine.TotalStaked().Float64()
	rewardsPaid, _ := s.engine.TotalRewardsPaid().Float64()
	s.gauge(metricsTypes.Metric_Gauge_TotalStaked, totalStaked)
	s.gauge(metricsTypes.Metric_Gauge_TotalRewardsPaid, rewardsPaid)
}
