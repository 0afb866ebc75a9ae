package observability

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

// StartDBCollector samples the sql pool until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.CollectDBStats(db); err != nil && log != nil {
					log.Warn("metrics: sql stats unavailable", "error", err)
				}
			}
		}
	}()
}

func (m *Metrics) CollectDBStats(db *gorm.DB) error {
	if m == nil || db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	stats := sqlDB.Stats()
	m.sqlStats.Set(float64(stats.OpenConnections), "open_connections")
	m.sqlStats.Set(float64(stats.InUse), "in_use")
	m.sqlStats.Set(float64(stats.Idle), "idle")
	m.sqlStats.Set(float64(stats.WaitCount), "wait_count")
	m.sqlStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.sqlStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
	m.sqlStats.Set(float64(stats.MaxIdleClosed), "max_idle_closed")
	m.sqlStats.Set(float64(stats.MaxLifetimeClosed), "max_lifetime_closed")
	return nil
}

// StartRedisCollector pings the change feed's redis on every tick.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(m.scrapeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
