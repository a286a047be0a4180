package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chairhop/config"
	appointmentRepo "chairhop/database/repository/appointment"
	"chairhop/services/matching"
	"chairhop/services/tasks"
	"chairhop/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitEmbeddingWorker runs the async embedding worker in background.
func InitEmbeddingWorker(repo appointmentRepo.AppointmentRepository, embedder matching.Embedder) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEmbedWorkDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmbedSlot, handleEmbedSlotTask(repo, embedder))

	go runSweeper(repo, embedder)

	go func() {
		utils.GetLogger().Info("starting embedding worker")
		if err := srv.Run(mux); err != nil {
			utils.GetLogger().Fatal("embedding worker failed to start", zap.Error(err))
		}
	}()
}

func handleEmbedSlotTask(repo appointmentRepo.AppointmentRepository, embedder matching.Embedder) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.EmbedSlotPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid embed task payload", zap.Error(err))
			return err
		}
		return embedSlot(ctx, repo, embedder, p.AppointmentID)
	}
}

func embedSlot(ctx context.Context, repo appointmentRepo.AppointmentRepository, embedder matching.Embedder, id string) error {
	apt, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil // slot was deleted before we got here
		}
		return err
	}
	if len(apt.Embedding) > 0 {
		return nil
	}

	vec, err := embedder.Embed(ctx, matching.SlotSummary(apt))
	if err != nil {
		utils.GetLogger().Warn("slot embedding failed, will retry",
			zap.String("appointmentId", id),
			zap.Error(err))
		return err
	}
	return repo.SetEmbedding(ctx, id, vec)
}

// runSweeper periodically embeds slots the queue missed, so a provider
// outage only delays semantic search rather than losing slots from it.
func runSweeper(repo appointmentRepo.AppointmentRepository, embedder matching.Embedder) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		missing, err := repo.ListMissingEmbedding(ctx, 50)
		if err != nil {
			utils.GetLogger().Warn("embedding sweep failed to list slots", zap.Error(err))
			cancel()
			continue
		}
		for _, apt := range missing {
			if err := embedSlot(ctx, repo, embedder, apt.ID); err != nil {
				// Provider is likely down; try again next sweep.
				break
			}
		}
		cancel()
	}
}
