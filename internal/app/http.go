package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contacts-backend/internal/http"
	httpH "github.com/yungbote/contacts-backend/internal/http/handlers"
	"github.com/yungbote/contacts-backend/internal/observability"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Contact *httpH.ContactHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db, log),
		Contact: httpH.NewContactHandler(log, services.Contact),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	return http.NewServer(log, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout, http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		Tracing:        cfg.Otel.Enabled,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		ContactHandler: handlers.Contact,
		HealthHandler:  handlers.Health,
	})
}
