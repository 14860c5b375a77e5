// Package events publishes learning activity events (lesson completions,
// progress changes, certificate issuance) on a redis channel so downstream
// consumers such as notification workers can react without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/studyhall/lms-backend/internal/platform/logger"
)

const (
	TypeLessonCompleted   = "lesson.completed"
	TypeProgressUpdated   = "enrollment.progress_updated"
	TypeCourseCompleted   = "enrollment.completed"
	TypeCertificateIssued = "certificate.issued"
)

type Event struct {
	Type         string    `json:"type"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	CourseID     uuid.UUID `json:"course_id,omitempty"`
	LessonID     uuid.UUID `json:"lesson_id,omitempty"`
	Progress     int       `json:"progress,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisBus connects to the redis instance named by REDIS_ADDR, publishing
// on REDIS_CHANNEL ("lms.events" when unset).
func NewRedisBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "lms.events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log:     log.With("service", "RedisEventBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, evt Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("event bus not initialized")
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

type noopBus struct{}

// NewNoopBus drops every event. Used when redis is not configured; event
// publication is advisory and must never block domain writes.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, Event) error { return nil }
func (noopBus) Close() error                         { return nil }
