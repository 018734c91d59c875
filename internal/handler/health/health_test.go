package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/dwarvesf/casper-bridge-relayer/internal/model"
	"github.com/dwarvesf/casper-bridge-relayer/internal/monitoring"
	"github.com/dwarvesf/casper-bridge-relayer/internal/oracle"
	"github.com/dwarvesf/casper-bridge-relayer/internal/store/testutil"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/config"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
)

type staticOracle struct {
	prices oracle.Prices
}

func (o *staticOracle) GetRate() decimal.Decimal { return o.prices.Rate }
func (o *staticOracle) GetPrices() oracle.Prices { return o.prices }
func (o *staticOracle) ConvertEthToCspr(string) (*model.Web3BigInt, error) {
	return nil, errors.New("not used")
}
func (o *staticOracle) ConvertCsprToEth(string) (*model.Web3BigInt, error) {
	return nil, errors.New("not used")
}
func (o *staticOracle) Refresh(context.Context) error { return nil }

func serve(handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET(path, handler)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

var _ = Describe("HealthHandler", func() {
	var (
		h   *HealthHandler
		cfg *config.AppConfig
		now time.Time
	)

	BeforeEach(func() {
		now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
		cfg = &config.AppConfig{PriceFeed: config.PriceFeedConfig{RefreshInterval: time.Minute}}
		h = New(cfg, logger.NewNop(), nil, nil, nil).(*HealthHandler)
		h.now = func() time.Time { return now }
	})

	Describe("Basic", func() {
		It("answers ok", func() {
			w := serve(h.Basic, "/healthz")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"ok":true}`))
		})
	})

	Describe("Database", func() {
		It("is unhealthy without a connection", func() {
			w := serve(h.Database, "/health/db")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))

			var resp HealthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal("unhealthy"))
			Expect(resp.Checks["database"].Error).To(ContainSubstring("not available"))
		})

		It("pings a live database", func() {
			db, err := testutil.Open()
			Expect(err).NotTo(HaveOccurred())
			sqlDB, _ := db.DB()
			DeferCleanup(sqlDB.Close)
			h.db = db

			w := serve(h.Database, "/health/db")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp HealthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal("healthy"))
			Expect(resp.Checks["database"].Metadata).To(HaveKeyWithValue("driver", "sqlite"))
			Expect(resp.Checks["database"].Metadata).To(HaveKey("connection_pool"))
		})

		It("reports a closed database", func() {
			db, err := testutil.Open()
			Expect(err).NotTo(HaveOccurred())
			sqlDB, _ := db.DB()
			Expect(sqlDB.Close()).To(Succeed())
			h.db = db

			w := serve(h.Database, "/health/db")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Body.String()).To(ContainSubstring("database is closed"))
		})
	})

	Describe("Prices", func() {
		fresh := func() oracle.Prices {
			return oracle.Prices{
				EthUSD:     decimal.RequireFromString("3000"),
				CsprUSD:    decimal.RequireFromString("0.03"),
				Rate:       decimal.RequireFromString("100000"),
				LastUpdate: now.Add(-30 * time.Second),
			}
		}

		It("is healthy with a recent quote", func() {
			h.oracle = &staticOracle{prices: fresh()}
			w := serve(h.Prices, "/health/prices")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp PricesHealthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Status).To(Equal("healthy"))
			Expect(resp.AgeSec).To(BeEquivalentTo(30))
			Expect(resp.Prices.Rate.String()).To(Equal("100000"))
		})

		DescribeTable("degraded quotes",
			func(mutate func(p *oracle.Prices), age int64) {
				p := fresh()
				mutate(&p)
				h.oracle = &staticOracle{prices: p}

				w := serve(h.Prices, "/health/prices")
				Expect(w.Code).To(Equal(http.StatusPartialContent))

				var resp PricesHealthResponse
				Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp.Status).To(Equal("degraded"))
				Expect(resp.AgeSec).To(Equal(age))
			},
			Entry("never refreshed", func(p *oracle.Prices) { p.LastUpdate = time.Time{} }, int64(-1)),
			Entry("stale", func(p *oracle.Prices) { p.LastUpdate = now.Add(-4 * time.Minute) }, int64(240)),
			Entry("failing refreshes", func(p *oracle.Prices) { p.Failures = 2 }, int64(30)),
		)

		It("is unhealthy without a feed", func() {
			w := serve(h.Prices, "/health/prices")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Jobs", func() {
		var jsm *monitoring.JobStatusManager

		BeforeEach(func() {
			jsm = monitoring.NewJobStatusManager(logger.NewNop(), monitoring.NewBackgroundJobMetrics())
			h.jobStatusManager = jsm
		})

		run := func(job string, err error) {
			jsm.StartJob(job)
			jsm.CompleteJob(job, err, nil)
		}

		It("is unhealthy without a status manager", func() {
			h.jobStatusManager = nil
			Expect(serve(h.Jobs, "/health/jobs").Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("is healthy when every job succeeded", func() {
			run(monitoring.JobCasperIndexing, nil)
			run(monitoring.JobEthereumIndexing, nil)

			w := serve(h.Jobs, "/health/jobs")
			Expect(w.Code).To(Equal(http.StatusOK))

			var resp JobsHealthResponse
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Summary.HealthyJobs).To(Equal(2))
			Expect(resp.Jobs).To(HaveKey(monitoring.JobCasperIndexing))
		})

		It("is degraded after a single failure", func() {
			run(monitoring.JobCasperIndexing, errors.New("connection refused"))
			Expect(serve(h.Jobs, "/health/jobs").Code).To(Equal(http.StatusPartialContent))
		})

		It("is unhealthy when a critical loop keeps failing", func() {
			for i := 0; i < 3; i++ {
				run(monitoring.JobPendingSwapProcessor, errors.New("database is locked"))
			}
			w := serve(h.Jobs, "/health/jobs")
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			Expect(w.Body.String()).To(ContainSubstring(`"status":"unhealthy"`))
		})

		It("only degrades for a non critical job", func() {
			for i := 0; i < 3; i++ {
				run(monitoring.JobPriceRefresh, errors.New("429 rate limit"))
			}
			Expect(serve(h.Jobs, "/health/jobs").Code).To(Equal(http.StatusPartialContent))
		})
	})
})
