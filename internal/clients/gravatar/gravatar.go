package gravatar

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/contacts-backend/internal/observability"
	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://www.gravatar.com/avatar"
	DefaultSize    = 200
	DefaultImage   = "identicon"
	DefaultTimeout = 3 * time.Second
)

// Client resolves avatar URLs for emails and probes whether they exist.
type Client interface {
	AvatarURL(email string) string
	Exists(ctx context.Context, avatarURL string) bool
}

type Config struct {
	BaseURL string
	Size    int
	Default string
	Timeout time.Duration
}

func New(log *logger.Logger, cfg Config, m *observability.Metrics) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if strings.TrimSpace(cfg.Default) == "" {
		cfg.Default = DefaultImage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &client{
		log:     log.With("client", "GravatarClient"),
		cfg:     cfg,
		metrics: m,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	metrics    *observability.Metrics
	httpClient *http.Client
	inflight   singleflight.Group
}

// Hash is the hex md5 of the trimmed, lowercased email.
func Hash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (c *client) AvatarURL(email string) string {
	return fmt.Sprintf("%s/%s?s=%s&d=%s",
		c.cfg.BaseURL, Hash(email), strconv.Itoa(c.cfg.Size), url.QueryEscape(c.cfg.Default))
}

// Exists issues a single GET bounded by the configured timeout.
// Only a 200 counts; every failure is logged and reported as false.
// Concurrent probes of the same URL share one request.
func (c *client) Exists(ctx context.Context, avatarURL string) bool {
	if c == nil || c.httpClient == nil {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return false
	}
	ch := c.inflight.DoChan(avatarURL, func() (interface{}, error) {
		return c.probe(context.WithoutCancel(ctx), avatarURL), nil
	})
	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		return false
	}
}

func (c *client) probe(ctx context.Context, avatarURL string) bool {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		c.log.Warn("avatar probe request invalid", "url", avatarURL, "error", err)
		c.metrics.ObserveAvatarProbe(observability.ProbeError, time.Since(start))
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("avatar probe failed", "url", avatarURL, "error", err)
		c.metrics.ObserveAvatarProbe(observability.ProbeError, time.Since(start))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		c.log.Debug("avatar not found", "url", avatarURL, "status", resp.StatusCode)
		c.metrics.ObserveAvatarProbe(observability.ProbeMiss, time.Since(start))
		return false
	}
	c.metrics.ObserveAvatarProbe(observability.ProbeHit, time.Since(start))
	return true
}
