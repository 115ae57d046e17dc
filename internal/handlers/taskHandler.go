package handlers

import (
	"sync"
	"sync/atomic"

	"github.com/tiramai/ragapi/internal/domain/taskModel"
	"github.com/tiramai/ragapi/internal/job"
	"github.com/tiramai/ragapi/internal/metrics"
	"github.com/tiramai/ragapi/internal/rag"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

var (
	handlerInstance *TaskHandler //private singleton
	once            sync.Once
	logTH           *logger_i.Logger
)

type TaskHandler struct {
	service    *job.Service
	ragService rag.Service
}

func InitHandlers(jobService *job.Service, ragService rag.Service) {
	once.Do(func() {
		handlerInstance = &TaskHandler{service: jobService, ragService: ragService}

		logTH = logger_i.NewLogger("TaskHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logTH.Info("Starting task handler")
	})

}

func EnqueueIngestion(taskId string, filename string, path string, traceId string) {
	log := logTH.With("traceId", traceId, "taskId", taskId)
	log.Info("Queueing new ingestion task")

	handlerInstance.service.Tracker.CreateTask(taskId, filename)
	handlerInstance.pushToJobChannel(taskModel.IngestionJob{
		TaskId:   taskId,
		Filename: filename,
		Path:     path,
		TraceId:  traceId,
	})
}

func GetTask(taskId string) (taskModel.IngestionTask, bool) {
	if handlerInstance == nil {
		return taskModel.IngestionTask{}, false
	}
	return handlerInstance.service.Tracker.GetTask(taskId)
}

// private methods
func (h *TaskHandler) pushToJobChannel(ingestionJob taskModel.IngestionJob) {

	//metrics
	metrics.IncrementTasksInQueue()

	h.service.JobChannel <- ingestionJob //blocking send to prevent the system from being overwhelmed
	logTH.Info("Queued ingestion task")

	//ingestion involves batch processing which might take time - external system call
	//so every ingest asks the dispatcher for another worker; idle workers retire on
	//their own, keeping the pool small between uploads
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	metrics.StartDispatcherSignalCount() //metrics
	logTH.Debug("Request count ", accurateCount)
	select {
	case h.service.DispatcherChannel <- true:
	default:
	}
}
