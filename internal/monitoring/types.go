package monitoring

import (
	"time"
)

// CircuitBreakerConfig defines the configuration for circuit breakers
type CircuitBreakerConfig struct {
	MaxRequests                 uint32        `json:"max_requests"`
	Interval                    time.Duration `json:"interval"`
	Timeout                     time.Duration `json:"timeout"`
	ConsecutiveFailureThreshold int           `json:"consecutive_failure_threshold"`
}

// TimeoutConfig bounds a single wrapped call. Releases wait for a receipt or
// a deploy submission and get their own, longer budget.
type TimeoutConfig struct {
	RequestTimeout time.Duration `json:"request_timeout"`
	ReleaseTimeout time.Duration `json:"release_timeout"`
}

// APIErrorType represents different types of API errors for classification
type APIErrorType string

const (
	ErrorTypeTimeout      APIErrorType = "timeout"
	ErrorTypeNetworkError APIErrorType = "network_error"
	ErrorTypeServerError  APIErrorType = "server_error"
	ErrorTypeClientError  APIErrorType = "client_error"
	ErrorTypeBreakerOpen  APIErrorType = "breaker_open"
	ErrorTypeUnknown      APIErrorType = "unknown"
)

const (
	ServiceEthereumRPC = "ethereum_rpc"
	ServiceCasperRPC   = "casper_rpc"
)

// CircuitBreakerConfigs provides default configurations for different services
var CircuitBreakerConfigs = map[string]CircuitBreakerConfig{
	ServiceEthereumRPC: {
		MaxRequests:                 3,
		Interval:                    45 * time.Second,
		Timeout:                     120 * time.Second,
		ConsecutiveFailureThreshold: 5,
	},
	ServiceCasperRPC: {
		MaxRequests:                 5,
		Interval:                    30 * time.Second,
		Timeout:                     60 * time.Second,
		ConsecutiveFailureThreshold: 5,
	},
}

var DefaultTimeoutConfig = TimeoutConfig{
	RequestTimeout: 45 * time.Second,
	ReleaseTimeout: 6 * time.Minute,
}
