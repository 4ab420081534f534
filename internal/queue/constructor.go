package queue

const TaskTypePublishPost = "publish:post"

// Tasks go to asynq's default queue; the task id doubles as the post's job
// reference.
const queueName = "default"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
