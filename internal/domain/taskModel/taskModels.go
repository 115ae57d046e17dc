package taskModel

import "time"

type TaskStatus string

const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// IngestionTask tracks one document's parse -> chunk -> persist run.
// Owned exclusively by the task tracker; tasks live in process memory only
// and are lost on restart.
type IngestionTask struct {
	TaskId     string     `json:"task_id"`
	Filename   string     `json:"filename"`
	Status     TaskStatus `json:"status"`
	Progress   float64    `json:"progress"`
	Message    string     `json:"message"`
	Error      string     `json:"error,omitempty"`
	DocumentId string     `json:"document_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TaskUpdate carries a partial mutation; nil fields are left untouched.
type TaskUpdate struct {
	Status     *TaskStatus
	Progress   *float64
	Message    *string
	Error      *string
	DocumentId *string
}

// IngestionJob is what the upload handler pushes onto the job channel for
// the worker pool to execute.
type IngestionJob struct {
	TaskId   string
	Filename string
	Path     string
	TraceId  string
}
