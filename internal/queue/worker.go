package queue

import (
	"context"
	"encoding/json"

	"github.com/campaignflow/campaign-api/internal/workflow"
	"github.com/hibiken/asynq"
)

type Worker struct {
	engine *workflow.Engine
}

func NewWorker(engine *workflow.Engine) *Worker {
	return &Worker{engine: engine}
}

func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	return w.engine.ExecutePublish(ctx, payload.PostID)
}
