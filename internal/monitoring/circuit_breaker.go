package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/dwarvesf/casper-bridge-relayer/internal/casperrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/ethrpc"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

// breaker is the shared gate behind both chain wrappers. Reads go through
// the circuit breaker; releases are only timed and recorded so an open
// breaker never turns a pending swap into a failed one.
type breaker struct {
	name          string
	cb            *gobreaker.CircuitBreaker
	metrics       *ExternalAPIMetrics
	logger        *logger.Logger
	timeoutConfig TimeoutConfig
}

func newBreaker(name string, config CircuitBreakerConfig, timeoutConfig TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *breaker {
	if err := validateCircuitBreakerConfig(config); err != nil {
		logger.Warn("[newBreaker] invalid circuit breaker config, using defaults", map[string]string{
			"service": name,
			"error":   err.Error(),
		})
		config = CircuitBreakerConfigs[name]
	}

	b := &breaker{
		name:          name,
		metrics:       metrics,
		logger:        logger,
		timeoutConfig: timeoutConfig,
	}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		// a missing dictionary item is the normal end of the event list
		IsSuccessful: func(err error) bool {
			return err == nil || casperrpc.IsNotFound(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("[CircuitBreaker] state change", map[string]string{
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.UpdateCircuitBreakerState(name, to)
		},
	})
	metrics.UpdateCircuitBreakerState(name, gobreaker.StateClosed)
	return b
}

func (b *breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *breaker) execute(ctx context.Context, operation string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	start := time.Now()
	result, err := b.cb.Execute(func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(ctx, b.timeoutConfig.RequestTimeout)
		defer cancel()
		return fn(cctx)
	})
	b.record(ctx, operation, start, err)
	return result, err
}

// timed runs fn under the release budget without consulting the breaker.
func (b *breaker) timed(ctx context.Context, operation string, fn func(ctx context.Context) (string, error)) (string, error) {
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, b.timeoutConfig.ReleaseTimeout)
	defer cancel()
	result, err := fn(cctx)
	b.record(ctx, operation, start, err)
	return result, err
}

func (b *breaker) record(ctx context.Context, operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()

	status := "success"
	switch {
	case err == nil:
	case casperrpc.IsNotFound(err):
		status = "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		status = "rejected"
	default:
		status = "error"
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			b.metrics.RecordTimeout(b.name, operation)
		}
		b.logError(operation, duration, err)
	}
	b.metrics.RecordAPICall(b.name, operation, status, duration)
}

func (b *breaker) logError(operation string, duration float64, err error) {
	b.logger.Error("[CircuitBreaker] chain RPC call failed", map[string]string{
		"service":    b.name,
		"operation":  operation,
		"duration":   strconv.FormatFloat(duration, 'f', 3, 64),
		"error":      err.Error(),
		"error_type": string(classifyError(err)),
		"cb_state":   b.cb.State().String(),
	})
}

// CircuitBreakerEthRPC wraps ethrpc.IEthRPC with circuit breaker functionality
type CircuitBreakerEthRPC struct {
	*breaker
	wrapped ethrpc.IEthRPC
}

func NewCircuitBreakerEthRPC(wrapped ethrpc.IEthRPC, config CircuitBreakerConfig, timeoutConfig TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *CircuitBreakerEthRPC {
	return &CircuitBreakerEthRPC{
		breaker: newBreaker(ServiceEthereumRPC, config, timeoutConfig, metrics, logger),
		wrapped: wrapped,
	}
}

func (cb *CircuitBreakerEthRPC) BlockNumber(ctx context.Context) (uint64, error) {
	result, err := cb.execute(ctx, "block_number", func(ctx context.Context) (interface{}, error) {
		return cb.wrapped.BlockNumber(ctx)
	})
	if err != nil {
		return 0, err
	}
	return result.(uint64), nil
}

func (cb *CircuitBreakerEthRPC) FilterDeposits(ctx context.Context, from, to uint64) ([]ethrpc.DepositEvent, error) {
	result, err := cb.execute(ctx, "filter_deposits", func(ctx context.Context) (interface{}, error) {
		return cb.wrapped.FilterDeposits(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}
	return result.([]ethrpc.DepositEvent), nil
}

func (cb *CircuitBreakerEthRPC) Release(ctx context.Context, swapID *big.Int, recipient common.Address, amount *big.Int) (string, error) {
	return cb.timed(ctx, "release", func(ctx context.Context) (string, error) {
		return cb.wrapped.Release(ctx, swapID, recipient, amount)
	})
}

func (cb *CircuitBreakerEthRPC) RelayerAddress() common.Address {
	return cb.wrapped.RelayerAddress()
}

// CircuitBreakerCasperRPC wraps casperrpc.ICasperRPC with circuit breaker functionality
type CircuitBreakerCasperRPC struct {
	*breaker
	wrapped casperrpc.ICasperRPC
}

func NewCircuitBreakerCasperRPC(wrapped casperrpc.ICasperRPC, config CircuitBreakerConfig, timeoutConfig TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *CircuitBreakerCasperRPC {
	return &CircuitBreakerCasperRPC{
		breaker: newBreaker(ServiceCasperRPC, config, timeoutConfig, metrics, logger),
		wrapped: wrapped,
	}
}

func (cb *CircuitBreakerCasperRPC) ContractHash() string {
	return cb.wrapped.ContractHash()
}

func (cb *CircuitBreakerCasperRPC) GetStateRootHash(ctx context.Context) (string, error) {
	result, err := cb.execute(ctx, "get_state_root_hash", func(ctx context.Context) (interface{}, error) {
		return cb.wrapped.GetStateRootHash(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// EventsLength has no error to trip on; it is only timed.
func (cb *CircuitBreakerCasperRPC) EventsLength(ctx context.Context, stateRootHash string) (uint32, bool) {
	start := time.Now()
	cctx, cancel := context.WithTimeout(ctx, cb.timeoutConfig.RequestTimeout)
	defer cancel()

	length, ok := cb.wrapped.EventsLength(cctx, stateRootHash)
	status := "success"
	if !ok {
		status = "unknown"
	}
	cb.metrics.RecordAPICall(cb.name, "events_length", status, time.Since(start).Seconds())
	return length, ok
}

func (cb *CircuitBreakerCasperRPC) GetEvent(ctx context.Context, stateRootHash string, index uint64) (json.RawMessage, error) {
	result, err := cb.execute(ctx, "get_event", func(ctx context.Context) (interface{}, error) {
		return cb.wrapped.GetEvent(ctx, stateRootHash, index)
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

func (cb *CircuitBreakerCasperRPC) Release(ctx context.Context, swapID, recipient string, amount *big.Int) (string, error) {
	return cb.timed(ctx, "release", func(ctx context.Context) (string, error) {
		return cb.wrapped.Release(ctx, swapID, recipient, amount)
	})
}

// classifyError classifies errors into different types for metrics and logging
func classifyError(err error) APIErrorType {
	if err == nil {
		return ""
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrorTypeBreakerOpen
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}
	var rpcErr *casperrpc.RPCError
	if errors.As(err, &rpcErr) {
		return ErrorTypeServerError
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "deadline exceeded") {
		return ErrorTypeTimeout
	}

	if strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "unreachable") ||
		strings.Contains(errMsg, "no such host") ||
		strings.Contains(errMsg, "eof") {
		return ErrorTypeNetworkError
	}

	if strings.Contains(errMsg, "500") ||
		strings.Contains(errMsg, "502") ||
		strings.Contains(errMsg, "503") ||
		strings.Contains(errMsg, "504") ||
		strings.Contains(errMsg, "bad gateway") ||
		strings.Contains(errMsg, "service unavailable") {
		return ErrorTypeServerError
	}

	if strings.Contains(errMsg, "400") ||
		strings.Contains(errMsg, "401") ||
		strings.Contains(errMsg, "403") ||
		strings.Contains(errMsg, "429") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "rate limit") {
		return ErrorTypeClientError
	}

	return ErrorTypeUnknown
}

func validateCircuitBreakerConfig(config CircuitBreakerConfig) error {
	if config.MaxRequests == 0 {
		return fmt.Errorf("max_requests must be greater than 0")
	}
	if config.ConsecutiveFailureThreshold <= 0 {
		return fmt.Errorf("consecutive_failure_threshold must be greater than 0")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Interval < 0 {
		return fmt.Errorf("interval must be non-negative")
	}
	return nil
}
