// @title           Content Repurposer API
// @version         1.0
// @description     This API handles asynchronous content processing and multi-platform content generation
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"repurposer/internal/config"
	"repurposer/internal/data/contentStore"
	"repurposer/internal/data/store"
	jobmodel "repurposer/internal/domain/jobModel"
	"repurposer/internal/handlers"
	"repurposer/internal/job"
	"repurposer/internal/pipeline"
	"repurposer/internal/pipeline/embedding/openaiEmbedding"
	"repurposer/internal/pipeline/extract"
	"repurposer/internal/pipeline/generate"
	"repurposer/internal/pipeline/llm"
	"repurposer/internal/pipeline/llm/gemini"
	"repurposer/internal/pipeline/llm/openaiLLM"
	"repurposer/internal/pipeline/vectorIndex"
	"repurposer/internal/pipeline/vectorIndex/qdrantIndex"
	"repurposer/internal/server"
	"repurposer/internal/worker"
	"repurposer/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisJobStore := store.GetRedisJobStore(serviceContext); redisJobStore != nil {
		serviceConfig.JobStore = redisJobStore
	} else {
		logger.Error("Redis job store is offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	}
	service := job.InitJobService(serviceConfig)

	//content store - postgres with an in-memory fallback
	var contentStoreInstance contentStore.Store
	gormStore, err := contentStore.NewGormStore()
	if err != nil {
		logger.Error("Postgres is offline, falling back to in-memory content store", "error", err)
		contentStoreInstance = contentStore.NewMemoryStore()
	} else {
		contentStoreInstance = gormStore
	}

	//vector index - qdrant with an in-memory fallback
	vectorIdx := qdrantIndex.GetQdrantIndex(serviceContext)
	if vectorIdx == nil {
		logger.Error("Qdrant is offline, falling back to in-memory vector index")
		vectorIdx = vectorIndex.NewMemoryIndex()
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	embeddingService := openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.EmbeddingModel, openAIKey)

	var llmProvider llm.Provider
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = config.LLMProvider
	}
	if provider == "gemini" {
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, os.Getenv("GEMINI_API_KEY"))
	} else {
		llmProvider = openaiLLM.GetOpenAIClient(serviceContext, config.LLMModel, openAIKey)
	}

	transcriber := extract.GetWhisperTranscriber(openAIKey)

	if embeddingService == nil || llmProvider == nil {
		//processing and generation jobs will fail until keys are provided
		logger.Error("One or more model clients failed to initialize")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil, "Transcriber", transcriber != nil)
	}

	pipelineService := pipeline.NewService(contentStoreInstance, vectorIdx, embeddingService, generate.NewGenerator(llmProvider), transcriber)

	handlers.InitJobHandler(service)
	handlers.InitContentHandler(contentStoreInstance, pipelineService)

	//init worker pool
	worker.InitServices(service, pipelineService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
