package worker

import (
	"context"
	"sync/atomic"
	"time"

	"repurposer/internal/config"
	jobmodel "repurposer/internal/domain/jobModel"
	"repurposer/internal/metrics"
)

// executeJob runs one job to a terminal state. Attempts whose failure is
// marked retryable are re-run with exponential backoff, up to the retry
// cap; each attempt gets its own execution timeout.
func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	logger.Debug("Processing job:", "job Id:", job.Id)

	for {
		job.Attempts++
		job = runAttempt(job)

		if job.Status != jobmodel.JobStatusFailed || !job.Error.Retry || job.Attempts >= config.JobMaxRetries {
			break
		}

		delay := config.JobRetryBaseDelay << (job.Attempts - 1)
		logger.Info("Retrying job", "job Id:", job.Id, "attempt", job.Attempts, "delay", delay)
		time.Sleep(delay)
	}

	job.EndTime = time.Now()
	saveJobState(context.Background(), job, job.Status)
}

func runAttempt(job jobmodel.Job) jobmodel.Job {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobExecutionTimeout)
	defer cancel()

	saveJobState(ctx, job, jobmodel.JobStatusInProgress)

	if job.JobType == jobmodel.JobTypeProcess {
		return _pipelineService.ProcessSource(ctx, job)
	}
	return _pipelineService.GenerateContent(ctx, job)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update job status", "err", err)
	}
}
