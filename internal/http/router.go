package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/contacts-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contacts-backend/internal/http/middleware"
	"github.com/yungbote/contacts-backend/internal/observability"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	Tracing        bool
	AllowedOrigins []string

	ContactHandler *httpH.ContactHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Tracing {
		name := cfg.ServiceName
		if name == "" {
			name = "contacts"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log, "/healthcheck"))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Contacts
	if cfg.ContactHandler != nil {
		contacts := r.Group("/contacts")
		contacts.POST("", cfg.ContactHandler.Create)
		contacts.GET("", cfg.ContactHandler.List)
		contacts.GET("/:id", cfg.ContactHandler.Get)
		contacts.PUT("/:id", cfg.ContactHandler.Update)
		contacts.DELETE("/:id", cfg.ContactHandler.Delete)
	}

	return r
}
