package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //set false and provide AUTH_TOKEN for prod
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5
	MaxTrackedClientIPs         = 10000

	//vector collection
	ChunkCollectionName                 = "documents"
	EmbeddingOutputDimensionality int32 = 1536

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingestion task buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantListScrollLimit  = 10000 //document listing scans at most this many points
)

const (
	//gemini
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"

	//openai (alternate provider, LLM_PROVIDER=openai)
	OpenAIModelName = "gpt-4o-mini"

	ModelTemperature float64 = 0.7
	ModelMaxTokens           = 2048

	//retrieval
	TopKRetrieval      = 5
	MinSimilarityScore = 0.5

	//chunking
	MaxChunkTokens = 512

	//prompting
	MaxHistoryTurns       = 5
	PreviewLength         = 200
	MaxContextChunkLength = 2000

	//response cache
	ResponseCacheTTL = 1 * time.Hour

	//uploads
	MaxUploadSize = 100 << 20 //100mb

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisMemoryStore = 1

	RedisMemoryStoreTTL = 24 * time.Hour
)

// AllowedFileTypes are the upload extensions the parsing engine understands.
var AllowedFileTypes = []string{".pdf", ".docx", ".txt", ".rtf", ".odt", ".md"}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func LLMProvider() string {
	return os.Getenv("LLM_PROVIDER")
}
