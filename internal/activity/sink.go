package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lichinka/ht/internal/logger"
	"github.com/lichinka/ht/internal/metrics"
)

const queueKey = "activity"

// Event is one domain occurrence: actor did verb to target.
// Recording is fire-and-forget; a failed push never fails the operation
// that produced the event.
type Event struct {
	Actor   string    `json:"actor"`
	Verb    string    `json:"verb"`
	Target  string    `json:"target"`
	Created time.Time `json:"created"`
}

type Sink struct {
	redis *redis.Client
}

func New(redisAddr string) *Sink {
	return &Sink{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
	}
}

func (s *Sink) Record(ctx context.Context, actor, verb, target string) {
	event := Event{
		Actor:   actor,
		Verb:    verb,
		Target:  target,
		Created: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Errorf("Failed to marshal activity event: %v", err)
		return
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue activity event %q: %v", verb, err)
		return
	}

	metrics.RecordActivityEvent(verb)
}

// Start drains the queue until ctx is cancelled.
func (s *Sink) Start(ctx context.Context) {
	logger.Info("Activity stream started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Activity stream stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Sink) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		logger.Errorf("Bad activity event data: %v", err)
		return
	}

	logger.Info("activity",
		"actor", event.Actor,
		"verb", event.Verb,
		"target", event.Target,
		"created", event.Created.Format(time.RFC3339),
	)
}

func (s *Sink) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Sink) Close() error {
	return s.redis.Close()
}
