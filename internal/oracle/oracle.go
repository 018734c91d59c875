package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

var (
	ErrBackoff         = errors.New("price refresh is backing off")
	ErrRefreshInFlight = errors.New("price refresh already in flight")
)

const errorLogInterval = time.Minute

type PriceOracle struct {
	appConfig *config.AppConfig
	logger    *logger.Logger
	http      *resty.Client

	mu             sync.RWMutex
	ethUSD         decimal.Decimal
	csprUSD        decimal.Decimal
	lastUpdate     time.Time
	failures       int
	retryAt        time.Time
	lastErrorLogAt time.Time

	refreshing atomic.Bool

	now    func() time.Time
	jitter func() float64
}

func New(appConfig *config.AppConfig, logger *logger.Logger) IOracle {
	return newPriceOracle(appConfig, logger)
}

func newPriceOracle(appConfig *config.AppConfig, logger *logger.Logger) *PriceOracle {
	return &PriceOracle{
		appConfig: appConfig,
		logger:    logger,
		http:      resty.New().SetTimeout(10 * time.Second),
		ethUSD:    decimal.NewFromFloat(appConfig.PriceFeed.DefaultEthUSD),
		csprUSD:   decimal.NewFromFloat(appConfig.PriceFeed.DefaultCsprUSD),
		now:       time.Now,
		jitter:    rand.Float64,
	}
}

func (o *PriceOracle) GetRate() decimal.Decimal {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return rate(o.ethUSD, o.csprUSD)
}

func (o *PriceOracle) GetPrices() Prices {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Prices{
		EthUSD:     o.ethUSD,
		CsprUSD:    o.csprUSD,
		Rate:       rate(o.ethUSD, o.csprUSD),
		LastUpdate: o.lastUpdate,
		Failures:   o.failures,
	}
}

func (o *PriceOracle) ConvertEthToCspr(amountWei string) (*model.Web3BigInt, error) {
	wei, err := parseAmount(amountWei)
	if err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return weiToMotes(wei, o.ethUSD, o.csprUSD), nil
}

func (o *PriceOracle) ConvertCsprToEth(amountMotes string) (*model.Web3BigInt, error) {
	motes, err := parseAmount(amountMotes)
	if err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return motesToWei(motes, o.ethUSD, o.csprUSD), nil
}

func (o *PriceOracle) Refresh(ctx context.Context) error {
	if !o.refreshing.CompareAndSwap(false, true) {
		return ErrRefreshInFlight
	}
	defer o.refreshing.Store(false)

	o.mu.RLock()
	backingOff := o.failures > 0 && o.now().Before(o.retryAt)
	o.mu.RUnlock()
	if backingOff {
		return ErrBackoff
	}

	ethUSD, csprUSD, err := o.fetch(ctx)
	if err != nil {
		o.recordFailure(err)
		return err
	}

	o.mu.Lock()
	o.ethUSD = ethUSD
	o.csprUSD = csprUSD
	o.lastUpdate = o.now()
	o.failures = 0
	o.retryAt = time.Time{}
	o.mu.Unlock()

	o.logger.Info("[Refresh] price update", map[string]string{
		"ethUsd":  ethUSD.String(),
		"csprUsd": csprUSD.String(),
		"rate":    rate(ethUSD, csprUSD).StringFixed(2),
	})
	return nil
}

func (o *PriceOracle) recordFailure(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	o.failures++
	delay := backoffDelay(o.failures, o.appConfig.PriceFeed.BackoffBase, o.appConfig.PriceFeed.BackoffCap, o.jitter())
	o.retryAt = now.Add(delay)

	if now.Sub(o.lastErrorLogAt) < errorLogInterval {
		return
	}
	o.lastErrorLogAt = now
	o.logger.Warn("[Refresh][fetch] price update failed, serving cached prices", map[string]string{
		"error":    err.Error(),
		"failures": fmt.Sprint(o.failures),
		"retryIn":  delay.String(),
	})
}

type priceQuote struct {
	USD *float64 `json:"usd"`
}

func (o *PriceOracle) fetch(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	resp, err := o.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(o.appConfig.PriceFeed.URL)
	if err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "fetch prices")
	}
	if resp.IsError() {
		return decimal.Zero, decimal.Zero, errors.Errorf("price feed returned status %d", resp.StatusCode())
	}

	var body map[string]priceQuote
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "decode prices")
	}

	ethUSD, err := validPrice(body["ethereum"].USD)
	if err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "ethereum")
	}
	csprUSD, err := validPrice(body["casper-network"].USD)
	if err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "casper-network")
	}
	return ethUSD, csprUSD, nil
}

func validPrice(p *float64) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, errors.New("missing usd price")
	}
	if math.IsNaN(*p) || math.IsInf(*p, 0) || *p <= 0 {
		return decimal.Zero, errors.Errorf("invalid usd price %v", *p)
	}
	return decimal.NewFromFloat(*p), nil
}

func rate(ethUSD, csprUSD decimal.Decimal) decimal.Decimal {
	if csprUSD.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return ethUSD.Div(csprUSD)
}
