package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwarvesf/casper-bridge-relayer/internal/types/environments"
)

var _ = Describe("configFor", func() {
	type want struct {
		level    zapcore.Level
		dev      bool
		caller   bool
		encoding string
		outputs  []string
	}

	DescribeTable("picks settings per relayer environment",
		func(env environments.Environment, w want) {
			cfg := configFor(env)

			Expect(cfg.Level.Level()).To(Equal(w.level))
			Expect(cfg.Development).To(Equal(w.dev))
			Expect(cfg.DisableCaller).To(Equal(!w.caller))
			Expect(cfg.DisableStacktrace).To(Equal(!w.caller))
			Expect(cfg.Encoding).To(Equal(w.encoding))
			if w.outputs == nil {
				Expect(cfg.OutputPaths).To(BeEmpty())
				Expect(cfg.ErrorOutputPaths).To(BeEmpty())
			} else {
				Expect(cfg.OutputPaths).To(Equal(w.outputs))
				Expect(cfg.ErrorOutputPaths).To(Equal([]string{"stderr"}))
			}
		},
		Entry("production", environments.Production, want{zap.InfoLevel, false, true, "json", []string{"stdout"}}),
		Entry("staging", environments.Staging, want{zap.InfoLevel, false, false, "json", []string{"stdout"}}),
		Entry("development", environments.Development, want{zap.DebugLevel, true, false, "console", []string{"stdout"}}),
		Entry("test writes nowhere", environments.Test, want{zap.InfoLevel, false, true, "json", nil}),
		Entry("unknown environment", environments.Environment("prod-eu"), want{zap.InfoLevel, false, true, "json", []string{"stdout"}}),
	)

	It("stamps production entries with an ISO8601 timestamp key", func() {
		cfg := configFor(environments.Production)
		Expect(cfg.EncoderConfig.TimeKey).To(Equal("timestamp"))

		staging := configFor(environments.Staging)
		Expect(staging.EncoderConfig.TimeKey).To(Equal("timestamp"))
	})
})
