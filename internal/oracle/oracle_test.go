package oracle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/casper-bridge-relayer/internal/oracle"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

var _ = Describe("PriceOracle", func() {
	var (
		server   *httptest.Server
		status   atomic.Int32
		body     atomic.Value
		hits     atomic.Int32
		lastPath atomic.Value
		o        oracle.IOracle
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		hits.Store(0)
		status.Store(http.StatusOK)
		body.Store(`{"ethereum":{"usd":3500.5},"casper-network":{"usd":0.035}}`)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			lastPath.Store(r.URL.RequestURI())
			w.WriteHeader(int(status.Load()))
			_, _ = w.Write([]byte(body.Load().(string)))
		}))

		o = oracle.New(&config.AppConfig{
			PriceFeed: config.PriceFeedConfig{
				URL:            server.URL + "/api/v3/simple/price?ids=ethereum,casper-network&vs_currencies=usd",
				BackoffBase:    30 * time.Second,
				BackoffCap:     10 * time.Minute,
				DefaultEthUSD:  3000,
				DefaultCsprUSD: 0.0046,
			},
		}, logger.NewNop())
	})

	AfterEach(func() {
		server.Close()
	})

	Context("before any successful refresh", func() {
		It("serves the default prices", func() {
			prices := o.GetPrices()
			Expect(prices.EthUSD.String()).To(Equal("3000"))
			Expect(prices.CsprUSD.String()).To(Equal("0.0046"))
			Expect(prices.LastUpdate.IsZero()).To(BeTrue())
		})

		It("converts without network access", func() {
			motes, err := o.ConvertEthToCspr("1000000000000000000")
			Expect(err).NotTo(HaveOccurred())
			Expect(motes.Value).To(Equal("652173913043478"))
			Expect(hits.Load()).To(BeZero())
		})
	})

	Context("when the feed answers", func() {
		It("updates the cached prices and rate", func() {
			Expect(o.Refresh(ctx)).To(Succeed())

			prices := o.GetPrices()
			Expect(prices.EthUSD.String()).To(Equal("3500.5"))
			Expect(prices.CsprUSD.String()).To(Equal("0.035"))
			Expect(prices.Rate.Equal(decimal.RequireFromString("3500.5").Div(decimal.RequireFromString("0.035")))).To(BeTrue())
			Expect(prices.Rate.StringFixed(2)).To(Equal("100014.29"))
			Expect(prices.LastUpdate.IsZero()).To(BeFalse())
			Expect(lastPath.Load()).To(ContainSubstring("ids=ethereum,casper-network"))
		})

		It("converts motes back to wei with the new rate", func() {
			Expect(o.Refresh(ctx)).To(Succeed())

			wei, err := o.ConvertCsprToEth("1000000000")
			Expect(err).NotTo(HaveOccurred())
			// 10^18 * 0.035 / 3500.5 truncated
			Expect(wei.Value).To(Equal("9998571632623"))
			Expect(wei.Decimal).To(Equal(18))
		})
	})

	DescribeTable("treats bad responses as failures and keeps serving stale prices",
		func(code int, payload string) {
			status.Store(int32(code))
			body.Store(payload)

			Expect(o.Refresh(ctx)).NotTo(Succeed())
			Expect(o.GetPrices().Failures).To(Equal(1))
			Expect(o.GetPrices().EthUSD.String()).To(Equal("3000"))

			Expect(o.Refresh(ctx)).To(MatchError(oracle.ErrBackoff))
			Expect(hits.Load()).To(BeEquivalentTo(1))
		},
		Entry("server error", http.StatusInternalServerError, `{}`),
		Entry("rate limited", http.StatusTooManyRequests, `{"status":{"error_code":429}}`),
		Entry("malformed json", http.StatusOK, `{"ethereum":`),
		Entry("missing casper price", http.StatusOK, `{"ethereum":{"usd":3000}}`),
		Entry("zero price", http.StatusOK, `{"ethereum":{"usd":3000},"casper-network":{"usd":0}}`),
		Entry("negative price", http.StatusOK, `{"ethereum":{"usd":-1},"casper-network":{"usd":0.02}}`),
	)

	It("rejects non integer amounts", func() {
		_, err := o.ConvertEthToCspr("1.5")
		Expect(err).To(HaveOccurred())
		_, err = o.ConvertCsprToEth("-10")
		Expect(err).To(HaveOccurred())
	})
})
