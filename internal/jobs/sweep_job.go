package job

import (
	"context"
	"log/slog"

	"github.com/campaignflow/campaign-api/internal/workflow"
)

// SweepJob is the hourly backup for the primary timer path: any post still
// scheduled past its due time gets published even if its queue task was lost.
type SweepJob struct {
	engine *workflow.Engine
}

func NewSweepJob(engine *workflow.Engine) *SweepJob {
	return &SweepJob{engine: engine}
}

func (j *SweepJob) Run() {
	ctx := context.Background()

	if err := j.engine.SweepDuePosts(ctx); err != nil {
		slog.Info(err.Error())
	}
}
