package monitoring

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/logger"
	"github.com/dwarvesf/casper-bridge-relayer/internal/utils/webhook"
)

type JobExecutionStatus string

const (
	JobStatusPending JobExecutionStatus = "pending"
	JobStatusRunning JobExecutionStatus = "running"
	JobStatusSuccess JobExecutionStatus = "success"
	JobStatusFailed  JobExecutionStatus = "failed"
	JobStatusStalled JobExecutionStatus = "stalled"
)

// JobStatus contains complete status information for a background job
type JobStatus struct {
	JobName             string                 `json:"job_name"`
	Status              JobExecutionStatus     `json:"status"`
	LastRunTime         time.Time              `json:"last_run_time"`
	LastDuration        time.Duration          `json:"last_duration_ms"`
	SuccessCount        int64                  `json:"success_count"`
	FailureCount        int64                  `json:"failure_count"`
	ConsecutiveFailures int64                  `json:"consecutive_failures"`
	LastError           string                 `json:"last_error,omitempty"`
	AverageExecution    time.Duration          `json:"average_execution_ms"`
	MaxExecutionTime    time.Duration          `json:"max_execution_ms"`
	MinExecutionTime    time.Duration          `json:"min_execution_ms"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

type JobsSummary struct {
	TotalJobs      int       `json:"total_jobs"`
	RunningJobs    int       `json:"running_jobs"`
	HealthyJobs    int       `json:"healthy_jobs"`
	UnhealthyJobs  int       `json:"unhealthy_jobs"`
	StalledJobs    int       `json:"stalled_jobs"`
	LastUpdateTime time.Time `json:"last_update_time"`
}

// JobStatusManager tracks the cron jobs of the relayer. It is safe for
// concurrent use.
type JobStatusManager struct {
	mu               sync.RWMutex
	statuses         map[string]*JobStatus
	logger           *logger.Logger
	metrics          *BackgroundJobMetrics
	stalledThreshold time.Duration
	retentionPeriod  time.Duration
	now              func() time.Time
}

func NewJobStatusManager(logger *logger.Logger, metrics *BackgroundJobMetrics) *JobStatusManager {
	return &JobStatusManager{
		statuses:         make(map[string]*JobStatus),
		logger:           logger,
		metrics:          metrics,
		stalledThreshold: 15 * time.Minute,
		retentionPeriod:  24 * time.Hour,
		now:              time.Now,
	}
}

// Run detects stalled jobs every minute until ctx is done.
func (jsm *JobStatusManager) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			jsm.detectStalledJobs()
			jsm.cleanupOldStatuses()
		}
	}
}

func (jsm *JobStatusManager) newStatus(jobName string, status JobExecutionStatus) *JobStatus {
	now := jsm.now()
	return &JobStatus{
		JobName:          jobName,
		Status:           status,
		Metadata:         make(map[string]interface{}),
		CreatedAt:        now,
		UpdatedAt:        now,
		MinExecutionTime: time.Duration(math.MaxInt64),
	}
}

func (jsm *JobStatusManager) RegisterJob(jobName string) {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	if _, exists := jsm.statuses[jobName]; !exists {
		jsm.statuses[jobName] = jsm.newStatus(jobName, JobStatusPending)
		jsm.logger.Debug("[RegisterJob] job registered for monitoring", map[string]string{
			"job_name": jobName,
		})
	}
}

func (jsm *JobStatusManager) StartJob(jobName string) {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	status, exists := jsm.statuses[jobName]
	if !exists {
		status = jsm.newStatus(jobName, JobStatusRunning)
		jsm.statuses[jobName] = status
	}
	status.Status = JobStatusRunning
	status.LastRunTime = jsm.now()
	status.UpdatedAt = status.LastRunTime

	jsm.metrics.activeJobs.Inc()
}

// CompleteJob records the outcome of the run started by StartJob.
func (jsm *JobStatusManager) CompleteJob(jobName string, err error, metadata map[string]interface{}) {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	status, exists := jsm.statuses[jobName]
	if !exists {
		jsm.logger.Error("[CompleteJob] attempted to complete unregistered job", map[string]string{
			"job_name": jobName,
		})
		return
	}

	duration := jsm.now().Sub(status.LastRunTime)
	status.LastDuration = duration
	status.UpdatedAt = jsm.now()

	if duration < status.MinExecutionTime {
		status.MinExecutionTime = duration
	}
	if duration > status.MaxExecutionTime {
		status.MaxExecutionTime = duration
	}

	totalRuns := status.SuccessCount + status.FailureCount
	status.AverageExecution = (status.AverageExecution*time.Duration(totalRuns) + duration) / time.Duration(totalRuns+1)

	for key, value := range metadata {
		status.Metadata[key] = value
	}

	if err != nil {
		status.Status = JobStatusFailed
		status.FailureCount++
		status.ConsecutiveFailures++
		status.LastError = err.Error()
		if _, ok := status.Metadata["error_type"]; !ok {
			status.Metadata["error_type"] = classifyJobError(err)
		}

		jsm.metrics.jobRuns.WithLabelValues(jobName, "error").Inc()
		jsm.metrics.jobDuration.WithLabelValues(jobName, "failed").Observe(duration.Seconds())
		if status.Metadata["error_type"] == "timeout" {
			jsm.metrics.jobTimeouts.WithLabelValues(jobName).Inc()
		}

		jsm.logger.Error("[CompleteJob] job failed", map[string]string{
			"job_name":             jobName,
			"duration":             duration.String(),
			"error":                err.Error(),
			"consecutive_failures": fmt.Sprintf("%d", status.ConsecutiveFailures),
		})
	} else {
		status.Status = JobStatusSuccess
		status.SuccessCount++
		status.ConsecutiveFailures = 0
		status.LastError = ""
		delete(status.Metadata, "error_type")

		jsm.metrics.jobRuns.WithLabelValues(jobName, "success").Inc()
		jsm.metrics.jobDuration.WithLabelValues(jobName, "success").Observe(duration.Seconds())
	}

	jsm.metrics.activeJobs.Dec()
}

func copyStatus(status *JobStatus) JobStatus {
	statusCopy := *status
	statusCopy.Metadata = make(map[string]interface{}, len(status.Metadata))
	for k, v := range status.Metadata {
		statusCopy.Metadata[k] = v
	}
	return statusCopy
}

func (jsm *JobStatusManager) GetJobStatus(jobName string) (*JobStatus, bool) {
	jsm.mu.RLock()
	defer jsm.mu.RUnlock()

	status, exists := jsm.statuses[jobName]
	if !exists {
		return nil, false
	}
	statusCopy := copyStatus(status)
	return &statusCopy, true
}

// GetAllJobStatuses reports runs older than the stalled threshold as stalled.
func (jsm *JobStatusManager) GetAllJobStatuses() map[string]JobStatus {
	jsm.mu.RLock()
	defer jsm.mu.RUnlock()

	result := make(map[string]JobStatus, len(jsm.statuses))
	currentTime := jsm.now()

	for name, status := range jsm.statuses {
		statusCopy := copyStatus(status)
		if status.Status == JobStatusRunning &&
			currentTime.Sub(status.LastRunTime) > jsm.stalledThreshold {
			statusCopy.Status = JobStatusStalled
		}
		result[name] = statusCopy
	}

	return result
}

func (jsm *JobStatusManager) GetJobsSummary() JobsSummary {
	statuses := jsm.GetAllJobStatuses()

	summary := JobsSummary{
		TotalJobs:      len(statuses),
		LastUpdateTime: jsm.now(),
	}

	for _, status := range statuses {
		switch status.Status {
		case JobStatusRunning:
			summary.RunningJobs++
		case JobStatusSuccess:
			summary.HealthyJobs++
		case JobStatusFailed:
			summary.UnhealthyJobs++
		case JobStatusStalled:
			summary.StalledJobs++
		}
	}

	return summary
}

func (jsm *JobStatusManager) detectStalledJobs() {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	currentTime := jsm.now()
	stalledCount := 0

	for jobName, status := range jsm.statuses {
		if status.Status == JobStatusStalled {
			stalledCount++
			continue
		}
		if status.Status == JobStatusRunning &&
			currentTime.Sub(status.LastRunTime) > jsm.stalledThreshold {
			status.Status = JobStatusStalled
			status.UpdatedAt = currentTime
			stalledCount++

			jsm.logger.Error("[detectStalledJobs] job detected as stalled", map[string]string{
				"job_name":      jobName,
				"last_run_time": status.LastRunTime.Format(time.RFC3339),
				"duration":      currentTime.Sub(status.LastRunTime).String(),
			})
		}
	}

	jsm.metrics.stalledJobs.Set(float64(stalledCount))
}

// cleanupOldStatuses drops jobs that have not reported within the retention
// period, e.g. a one-off backfill.
func (jsm *JobStatusManager) cleanupOldStatuses() {
	jsm.mu.Lock()
	defer jsm.mu.Unlock()

	cutoff := jsm.now().Add(-jsm.retentionPeriod)
	for jobName, status := range jsm.statuses {
		if status.UpdatedAt.Before(cutoff) && status.Status != JobStatusRunning {
			delete(jsm.statuses, jobName)
		}
	}
}

// InstrumentedJob wraps a job function with status tracking, a timeout,
// panic recovery and an optional uptime ping on success.
type InstrumentedJob struct {
	jobName       string
	jobFunc       func(ctx context.Context) error
	statusManager *JobStatusManager
	logger        *logger.Logger
	timeout       time.Duration
	webhookClient *webhook.Client
	webhookURL    string
}

func NewInstrumentedJob(
	jobName string,
	jobFunc func(ctx context.Context) error,
	statusManager *JobStatusManager,
	logger *logger.Logger,
	timeout time.Duration,
	webhookClient *webhook.Client,
	webhookURL string,
) *InstrumentedJob {
	statusManager.RegisterJob(jobName)

	return &InstrumentedJob{
		jobName:       jobName,
		jobFunc:       jobFunc,
		statusManager: statusManager,
		logger:        logger,
		timeout:       timeout,
		webhookClient: webhookClient,
		webhookURL:    webhookURL,
	}
}

// Execute runs the job once. A timed out job keeps running in the background
// until it observes the cancelled context.
func (ij *InstrumentedJob) Execute(ctx context.Context) error {
	ij.statusManager.StartJob(ij.jobName)

	jobCtx, cancel := context.WithTimeout(ctx, ij.timeout)
	defer cancel()

	type outcome struct {
		err      error
		metadata map[string]interface{}
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ij.logger.Error("[InstrumentedJob] job panicked", map[string]string{
					"job_name": ij.jobName,
					"panic":    fmt.Sprintf("%v", r),
				})
				done <- outcome{
					err: fmt.Errorf("job panicked: %v", r),
					metadata: map[string]interface{}{
						"panic":       fmt.Sprintf("%v", r),
						"stack_trace": string(debug.Stack()),
						"error_type":  "panic",
					},
				}
			}
		}()
		done <- outcome{err: ij.jobFunc(jobCtx)}
	}()

	var res outcome
	select {
	case res = <-done:
	case <-jobCtx.Done():
		res = outcome{
			err: fmt.Errorf("job timeout after %v", ij.timeout),
			metadata: map[string]interface{}{
				"error_type": "timeout",
				"timeout":    ij.timeout.String(),
			},
		}
	}

	ij.statusManager.CompleteJob(ij.jobName, res.err, res.metadata)

	if res.err == nil && ij.webhookClient != nil {
		ij.webhookClient.CallUptimeWebhook(ctx, ij.webhookURL)
	}
	return res.err
}

// BackgroundJobMetrics contains all Prometheus metrics for background job monitoring
type BackgroundJobMetrics struct {
	jobDuration   *prometheus.HistogramVec
	jobRuns       *prometheus.CounterVec
	activeJobs    prometheus.Gauge
	stalledJobs   prometheus.Gauge
	jobTimeouts   *prometheus.CounterVec
	chainProgress *prometheus.GaugeVec
}

func NewBackgroundJobMetrics() *BackgroundJobMetrics {
	return &BackgroundJobMetrics{
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relayer_background_job_duration_seconds",
				Help:    "Background job execution duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
			},
			[]string{"job_name", "status"},
		),
		jobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relayer_background_job_runs_total",
				Help: "Total number of background job runs",
			},
			[]string{"job_name", "status"},
		),
		activeJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "relayer_background_jobs_active",
				Help: "Number of currently running background jobs",
			},
		),
		stalledJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "relayer_background_jobs_stalled",
				Help: "Number of stalled background jobs",
			},
		),
		jobTimeouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relayer_background_job_timeouts_total",
				Help: "Total job timeouts",
			},
			[]string{"job_name"},
		),
		chainProgress: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "relayer_chain_last_checked_block",
				Help: "Highest block fully scanned by the deposit poll",
			},
			[]string{"chain"},
		),
	}
}

func (m *BackgroundJobMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(
		m.jobDuration,
		m.jobRuns,
		m.activeJobs,
		m.stalledJobs,
		m.jobTimeouts,
		m.chainProgress,
	)
}

func (m *BackgroundJobMetrics) SetChainProgress(chain string, block uint64) {
	m.chainProgress.WithLabelValues(chain).Set(float64(block))
}

func classifyJobError(err error) string {
	if err == nil {
		return ""
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "panic"):
		return "panic"
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline"):
		return "timeout"
	case strings.Contains(errStr, "circuit breaker"):
		return "breaker_open"
	case strings.Contains(errStr, "database"), strings.Contains(errStr, "sql"):
		return "database"
	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "network"):
		return "network"
	case strings.Contains(errStr, "rpc"):
		return "chain_rpc"
	default:
		return "unknown"
	}
}
