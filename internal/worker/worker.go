package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"repurposer/internal/config"
	"repurposer/internal/job"
	"repurposer/internal/metrics"
	"repurposer/internal/pipeline"
	"repurposer/pkg/logger_i"
)

var (
	_jobService       *job.Service
	_pipelineService  pipeline.Service
	dispatcherChannel chan bool
	stopWorkerChannel chan bool
	workerWaitGroup   *sync.WaitGroup
	logger            *logger_i.Logger

	currentWorkerCount int64
	minWorkerCount     = config.MinWorkerCount
)

func InitServices(jobService *job.Service, pipelineService pipeline.Service) {
	_jobService = jobService
	_pipelineService = pipelineService
	dispatcherChannel = jobService.DispatcherChannel
}

func InitWorkerPool(stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger = logger_i.NewLogger("WorkerPool")
	logger.Info("Initializing worker pool")
	go dispatcher()
}

// dispatcher spawns the first worker immediately, then one more per signal
// up to the configured cap.
func dispatcher() {
	createWorker()
	logger.Info("Dispatcher started")
	for range dispatcherChannel {
		if atomic.LoadInt64(&currentWorkerCount) >= config.MaxWorkerCount {
			logger.Debug("Worker cap reached, ignoring dispatcher signal")
			continue
		}
		logger.Info("Scaling up", "workerCount", currentWorkerCount)
		createWorker()
	}
}

func createWorker() {
	workerWaitGroup.Add(1)
	go worker()
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	logger.Info("Worker started")
}

func worker() {
	for {
		select {
		case currentJob := <-_jobService.JobChannel:
			executeJob(currentJob)
			metrics.DecrementJobsInQueue()

		case <-stopWorkerChannel:
			removeWorker("stop signal received")
			return

		case <-time.After(config.IdleWorkerTimeout):
			//scale back down, but never below the floor of one
			if atomic.LoadInt64(&minWorkerCount) > 1 {
				removeWorker("idle timeout")
				return
			}
		}
	}
}
