package tasks

import (
	"sync"
	"time"

	"github.com/tiramai/ragapi/internal/domain/taskModel"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// Tracker is the process-wide registry of ingestion task state. It is
// constructed once in main and injected wherever task state is read or
// written; one mutex guards the whole map.
type Tracker struct {
	mu     sync.RWMutex
	tasks  map[string]taskModel.IngestionTask
	logger *logger_i.Logger
}

func NewTracker() *Tracker {
	return &Tracker{
		tasks:  make(map[string]taskModel.IngestionTask),
		logger: logger_i.NewLogger("TaskTracker"),
	}
}

// CreateTask registers a task in queued state. Calling it twice with the
// same id overwrites silently; callers generate unique ids.
func (t *Tracker) CreateTask(taskId string, filename string) {
	now := time.Now()
	t.mu.Lock()
	t.tasks[taskId] = taskModel.IngestionTask{
		TaskId:    taskId,
		Filename:  filename,
		Status:    taskModel.TaskStatusQueued,
		Progress:  0.0,
		Message:   "Task queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.mu.Unlock()
	t.logger.Info("Task created", "taskId", taskId, "filename", filename)
}

// UpdateTask applies the non-nil fields of update. An unknown id is a
// logged no-op because updates may race with creation across goroutines.
// Progress is clamped into [0,1] and never regresses; a terminal status
// is never transitioned out of.
func (t *Tracker) UpdateTask(taskId string, update taskModel.TaskUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, found := t.tasks[taskId]
	if !found {
		t.logger.Warn("Task not found for update", "taskId", taskId)
		return
	}

	if update.Status != nil {
		if task.Status.IsTerminal() && *update.Status != task.Status {
			t.logger.Warn("Ignoring status change on terminal task",
				"taskId", taskId, "current", task.Status, "requested", *update.Status)
		} else {
			task.Status = *update.Status
		}
	}
	if update.Progress != nil {
		progress := clampProgress(*update.Progress)
		if progress >= task.Progress {
			task.Progress = progress
		}
	}
	if update.Message != nil {
		task.Message = *update.Message
	}
	if update.Error != nil {
		task.Error = *update.Error
	}
	if update.DocumentId != nil {
		task.DocumentId = *update.DocumentId
	}
	task.UpdatedAt = time.Now()
	t.tasks[taskId] = task

	t.logger.Debug("Task updated", "taskId", taskId, "status", task.Status, "progress", task.Progress)
}

func (t *Tracker) GetTask(taskId string) (taskModel.IngestionTask, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	task, found := t.tasks[taskId]
	return task, found
}

// DeleteTask removes a task entry (explicit cleanup only).
func (t *Tracker) DeleteTask(taskId string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, found := t.tasks[taskId]; found {
		delete(t.tasks, taskId)
		t.logger.Debug("Task deleted", "taskId", taskId)
	}
}

func clampProgress(p float64) float64 {
	if p < 0.0 {
		return 0.0
	}
	if p > 1.0 {
		return 1.0
	}
	return p
}
