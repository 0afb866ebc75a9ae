package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contacts-backend/internal/observability"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
	"github.com/yungbote/contacts-backend/internal/services"
)

type Services struct {
	Contact services.ContactService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Contact: services.NewContactService(
			db,
			log,
			repos.Contact,
			clients.Avatars,
			clients.Events,
			services.ContactServiceOptions{
				EnrichAvatars: cfg.Avatar.Enabled,
				Metrics:       metrics,
			},
		),
	}
}
