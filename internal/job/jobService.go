package job

import (
	"github.com/tiramai/ragapi/internal/domain/taskModel"
	"github.com/tiramai/ragapi/internal/tasks"
)

type Service struct {
	JobChannel        chan taskModel.IngestionJob
	RequestCount      int64
	DispatcherChannel chan bool
	Tracker           *tasks.Tracker
}

type ServiceConfig struct {
	JobChannel        chan taskModel.IngestionJob
	RequestCount      int64
	DispatcherChannel chan bool
	Tracker           *tasks.Tracker
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		Tracker:           cfg.Tracker,
	}
}
