package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeEmbedSlot = "embedding:slot"

// EmbedSlotPayload identifies the slot to embed.
type EmbedSlotPayload struct {
	AppointmentID string `json:"appointmentId"`
}

func NewEmbedSlotTask(appointmentID string) (*asynq.Task, error) {
	b, err := json.Marshal(EmbedSlotPayload{AppointmentID: appointmentID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmbedSlot, b), nil
}

// AsynqEmbeddingQueue enqueues slot embedding work onto the shared asynq
// client. Implements the booking service's EmbeddingQueue.
type AsynqEmbeddingQueue struct {
	Client *asynq.Client
}

func (q *AsynqEmbeddingQueue) EnqueueSlotEmbedding(ctx context.Context, appointmentID string) error {
	task, err := NewEmbedSlotTask(appointmentID)
	if err != nil {
		return err
	}
	_, err = q.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	return err
}
