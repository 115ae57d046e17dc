package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/taskModel"
	"github.com/tiramai/ragapi/internal/metrics"
)

func executeJob(ingestionJob taskModel.IngestionJob) {
	start := time.Now()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, ingestionJob.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 10*time.Minute)
	defer cancel()
	logger.Debug("Processing ingestion task:", "taskId:", ingestionJob.TaskId)

	tracker := _jobService.Tracker
	processing := taskModel.TaskStatusProcessing
	tracker.UpdateTask(ingestionJob.TaskId, taskModel.TaskUpdate{
		Status:  &processing,
		Message: ptr("Processing started"),
	})

	documentId, chunkCount, err := _ragService.IngestDocument(ctx, ingestionJob.Path, ingestionJob.Filename,
		func(progress float64, message string) {
			tracker.UpdateTask(ingestionJob.TaskId, taskModel.TaskUpdate{
				Progress: &progress,
				Message:  &message,
			})
		})

	if err != nil {
		logger.Error("Ingestion task failed", "taskId", ingestionJob.TaskId, "error", err.Error())
		failed := taskModel.TaskStatusFailed
		tracker.UpdateTask(ingestionJob.TaskId, taskModel.TaskUpdate{
			Status:  &failed,
			Message: ptr("Ingestion failed"),
			Error:   ptr(err.Error()),
		})
		metrics.CaptureExecutionMetrics("ingestion_job_failed", time.Since(start))
		return
	}

	completed := taskModel.TaskStatusCompleted
	done := 1.0
	tracker.UpdateTask(ingestionJob.TaskId, taskModel.TaskUpdate{
		Status:     &completed,
		Progress:   &done,
		Message:    ptr("Ingestion complete"),
		DocumentId: &documentId,
	})
	logger.Info("Ingestion task complete", "taskId", ingestionJob.TaskId, "documentId", documentId, "chunks", chunkCount)
	metrics.CaptureExecutionMetrics("ingestion_job", time.Since(start))
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func ptr(s string) *string {
	return &s
}
