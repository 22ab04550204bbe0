package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	//auth is a stub: a single shared bearer token, bypassable for local dev
	NoAuthBypass = true
	AuthToken    = ""
	DefaultOwner = "demo_user"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//content chunking
	DefaultChunkSize    = 500
	MaxChunkSize        = 1000
	DefaultChunkOverlap = 50
	MaxChunkOverlap     = 200

	//embeddings
	EmbeddingModel                      = "text-embedding-3-small"
	EmbeddingOutputDimensionality int32 = 384

	//vector index
	ChunkCollectionName                  = "content_chunks"
	RetrievalLimit                       = 10
	RetrievalChunksPerGeneration         = 5
	ScoreThreshold               float32 = 0.7

	//llm - provider is "openai" or "gemini", override with LLM_PROVIDER
	LLMProvider                = "openai"
	LLMModel                   = "gpt-3.5-turbo"
	LLMBaseURL                 = "https://api.openai.com/v1"
	GeminiModelName            = "gemini-2.5-flash-lite-preview-09-2025"
	ModelTemperature   float64 = 0.7
	ModelMaxTokens     int64   = 1000
	TranscriptionModel         = "whisper-1"

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	JobMaxRetries                   = 3
	JobRetryBaseDelay               = 2 * time.Second
	JobExecutionTimeout             = 120 * time.Second
	PipelineStepTimeout             = 30 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize   = 100 << 20 //100mb
	UploadDirectory = "uploads"
	EmbedBatchSize  = 100

	//relational store - override with DATABASE_URL
	DatabaseDSN = "host=127.0.0.1 user=repurposer password=repurposer dbname=repurposer port=5432 sslmode=disable"

	//vectorDB
	QdrantHost             = "127.0.0.1"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore = 0

	//redis timeouts
	RedisJobStoreTTL = 24 * time.Hour
)

// AllowedUploadContentTypes maps accepted multipart content types to the
// source type recorded on the ContentSource row.
var AllowedUploadContentTypes = map[string]string{
	"text/plain":      "text",
	"application/pdf": "pdf",
	"audio/mpeg":      "audio",
	"audio/wav":       "audio",
	"video/mp4":       "video",
}
