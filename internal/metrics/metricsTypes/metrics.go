package metricsTypes

import "time"

type IMetricsClient interface {
	Incr(name string, labels []MetricsLabel, value float64) error
	Gauge(name string, value float64, labels []MetricsLabel) error
	Timing(name string, value time.Duration, labels []MetricsLabel) error
}

type MetricsLabel struct {
	Name  string
	Value string
}

type MetricsType string

var (
	MetricsType_Incr   MetricsType = "incr"
	MetricsType_Gauge  MetricsType = "gauge"
	MetricsType_Timing MetricsType = "timing"
)

type MetricsTypeConfig struct {
	Name   string
	Labels []string
}

var (
	Metric_Incr_Stake        = "stake"
	Metric_Incr_Unstake      = "unstake"
	Metric_Incr_Claim        = "claim"
	Metric_Incr_Reinvest     = "reinvest"
	Metric_Incr_Feed         = "feed"
	Metric_Incr_EpochStarted = "epochStarted"
	Metric_Incr_HttpRequest  = "rpc.http.request"

	Metric_Gauge_TotalStaked      = "totalStaked"
	Metric_Gauge_TotalRewardsPaid = "totalRewardsPaid"
	Metric_Gauge_CurrentEpoch     = "currentEpoch"

	Metric_Timing_HttpDuration = "rpc.http.duration"
)

var MetricTypes = map[MetricsType][]MetricsTypeConfig{
	MetricsType_Incr: {
		MetricsTypeConfig{
			Name:   Metric_Incr_Stake,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_Unstake,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_Claim,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_Reinvest,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_Feed,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_EpochStarted,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Incr_HttpRequest,
			Labels: []string{"path"},
		},
	},
	MetricsType_Gauge: {
		MetricsTypeConfig{
			Name:   Metric_Gauge_TotalStaked,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Gauge_TotalRewardsPaid,
			Labels: []string{},
		},
		MetricsTypeConfig{
			Name:   Metric_Gauge_CurrentEpoch,
			Labels: []string{},
		},
	},
	MetricsType_Timing: {
		MetricsTypeConfig{
			Name:   Metric_Timing_HttpDuration,
			Labels: []string{"path"},
		},
	},
}
