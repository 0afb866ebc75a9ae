package app

import (
	"fmt"

	"github.com/yungbote/contacts-backend/internal/clients/gravatar"
	"github.com/yungbote/contacts-backend/internal/clients/redis"
	"github.com/yungbote/contacts-backend/internal/observability"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

type Clients struct {
	Avatars gravatar.Client
	Events  redis.EventBus
}

func wireClients(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")

	// Gravatar
	avatars, err := gravatar.New(log, cfg.GravatarConfig(), metrics)
	if err != nil {
		return Clients{}, fmt.Errorf("init gravatar client: %w", err)
	}

	// Redis
	bus, err := redis.NewEventBus(log, cfg.EventBusConfig())
	if err != nil {
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}

	return Clients{
		Avatars: avatars,
		Events:  bus,
	}, nil
}

func (c Clients) Close() {
	if c.Events != nil {
		_ = c.Events.Close()
	}
}
