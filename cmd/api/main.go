package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/data/store"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/domain/taskModel"
	"github.com/tiramai/ragapi/internal/handlers"
	"github.com/tiramai/ragapi/internal/job"
	"github.com/tiramai/ragapi/internal/rag"
	"github.com/tiramai/ragapi/internal/rag/chunker"
	"github.com/tiramai/ragapi/internal/rag/embedding/googleEmbedding"
	"github.com/tiramai/ragapi/internal/rag/ingest"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/internal/rag/llm/gemini"
	"github.com/tiramai/ragapi/internal/rag/llm/openai"
	"github.com/tiramai/ragapi/internal/rag/parser"
	"github.com/tiramai/ragapi/internal/rag/respcache"
	"github.com/tiramai/ragapi/internal/rag/retrieval"
	"github.com/tiramai/ragapi/internal/rag/vectorDB/qdrantDB"
	"github.com/tiramai/ragapi/internal/server"
	"github.com/tiramai/ragapi/internal/tasks"
	"github.com/tiramai/ragapi/internal/worker"
	"github.com/tiramai/ragapi/pkg/logger_i"
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
	jobChannel := make(chan taskModel.IngestionJob, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//in-process task registry and job service
	tracker := tasks.NewTracker()
	jobService := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		Tracker:           tracker,
	})
	logger.Info("Starting job service")

	//conversation memory with in-memory fallback
	var memoryStore ragModel.MemoryStore
	if redisMemory := store.GetRedisMemoryStore(serviceContext); redisMemory != nil {
		memoryStore = redisMemory
	} else {
		logger.Error("Redis store is offline, falling back to in-memory conversation memory")
		memoryStore = store.InitInMemoryMemoryStore()
	}

	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GeminiAPIKey())
	vectorStore := qdrantDB.GetQdrantStore(serviceContext, embeddingService)

	var llmProvider llm.Provider
	if config.LLMProvider() == "openai" {
		llmProvider = openai.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey())
	} else {
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GeminiAPIKey())
	}

	if vectorStore == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorStore", vectorStore != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	//token chunker is optional; ingestion falls back to character packing
	var chunkEngine chunker.Engine
	if engine, err := chunker.NewTokenChunker(); err != nil {
		logger.Warn("Token chunker unavailable, character fallback will be used", "error", err.Error())
	} else {
		chunkEngine = engine
	}

	coordinator := ingest.NewCoordinator(parser.NewEngine(), chunkEngine, vectorStore, 0)
	ranker := retrieval.NewRanker(vectorStore)
	responseCache := respcache.NewCache(config.ResponseCacheTTL)

	ragService := rag.NewService(vectorStore, ranker, llmProvider, memoryStore, responseCache, coordinator)

	handlers.InitHandlers(jobService, ragService)

	//init worker pool
	worker.InitServices(jobService, ragService)
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
