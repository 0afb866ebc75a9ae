package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/contacts-backend/internal/domain"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

const DefaultChannel = "contacts.events"

// EventBus publishes contact change events.
type EventBus interface {
	Publish(ctx context.Context, ev types.ContactEvent) error
	Close() error
}

type Config struct {
	Addr        string
	Password    string
	DB          int
	Channel     string
	DialTimeout time.Duration
}

type eventBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewEventBus connects to redis and verifies the connection. With no address
// configured it returns a bus that drops every event.
func NewEventBus(log *logger.Logger, cfg Config) (EventBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		log.Info("REDIS_ADDR not set; contact change feed disabled")
		return NopBus{}, nil
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = DefaultChannel
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &eventBus{
		log:     log.With("client", "RedisEventBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *eventBus) Publish(ctx context.Context, ev types.ContactEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis event bus not initialized")
	}
	raw, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *eventBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func EncodeEvent(ev types.ContactEvent) ([]byte, error) {
	if strings.TrimSpace(ev.Type) == "" {
		return nil, fmt.Errorf("event type required")
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return json.Marshal(ev)
}

// NopBus discards events.
type NopBus struct{}

func (NopBus) Publish(context.Context, types.ContactEvent) error { return nil }
func (NopBus) Close() error                                      { return nil }
