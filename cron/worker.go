package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"appointo/config"
	"appointo/models"
	"appointo/services/booking"
)

const TypeAutoConfirm = "booking:auto_confirm"

type autoConfirmPayload struct {
	TenantID  string `json:"tenantId"`
	BookingID string `json:"bookingId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// AsynqConfirmScheduler enqueues delayed auto-confirm tasks. It implements
// booking.ConfirmScheduler.
type AsynqConfirmScheduler struct {
	client *asynq.Client
}

// NewConfirmScheduler creates the task-queue client for auto-confirm timers.
func NewConfirmScheduler() *AsynqConfirmScheduler {
	return &AsynqConfirmScheduler{client: asynq.NewClient(redisOpts())}
}

func (s *AsynqConfirmScheduler) ScheduleAutoConfirm(ctx context.Context, b *models.Booking, delay time.Duration) error {
	payload, err := json.Marshal(autoConfirmPayload{TenantID: b.TenantID, BookingID: b.ID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeAutoConfirm, payload)
	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(3))
	return err
}

// Close releases the underlying queue client.
func (s *AsynqConfirmScheduler) Close() error {
	return s.client.Close()
}

// InitAutoConfirmWorker runs the async worker in background.
func InitAutoConfirmWorker(engine booking.Engine) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAutoConfirm, handleAutoConfirmTask(engine))

	// Start async worker with retry logic
	go func() {
		log.Println("[AutoConfirmWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AutoConfirmWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[AutoConfirmWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleAutoConfirmTask(engine booking.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p autoConfirmPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[AutoConfirmHandler] invalid payload: %v", err)
			return err
		}

		_, err := engine.Transition(ctx, p.TenantID, p.BookingID, models.StatusConfirmed, booking.ActorSystem)

		// The booking may have been cancelled or confirmed by the client while
		// the timer was pending; that is not a retryable failure.
		var illegal *booking.IllegalTransition
		if errors.As(err, &illegal) {
			log.Printf("[AutoConfirmHandler] booking %s no longer confirmable (%v), dropping task", p.BookingID, err)
			return nil
		}
		if err != nil {
			log.Printf("[AutoConfirmHandler] failed to confirm booking %s: %v", p.BookingID, err)
		}
		return err
	}
}
