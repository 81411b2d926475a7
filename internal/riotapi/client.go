package riotapi

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// DefaultTimeout - таймаут одного запроса к status-эндпоинту.
const DefaultTimeout = 10 * time.Second

type Client struct {
	http     *http.Client
	apiKey   string
	platform string
	endpoint string

	logger *zap.SugaredLogger
}

type RiotConf struct {
	APIKey   string        `json:"api_key"`
	Platform string        `json:"platform"`
	Timeout  time.Duration `json:"timeout"`
}

type Option func(*Client)

// WithEndpoint подменяет URL эндпоинта (тесты, прокси).
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient задаёт свой http.Client вместо стандартного с otelhttp-транспортом.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Создает новый клиент Riot Status API
func NewClient(logger *zap.SugaredLogger, apiKey, platform string, opts ...Option) *Client {
	return NewClientFromConf(logger, RiotConf{APIKey: apiKey, Platform: platform}, opts...)
}

// Создает клиент из конфигурации; пустая платформа -> "na1", нулевой таймаут -> DefaultTimeout
func NewClientFromConf(logger *zap.SugaredLogger, conf RiotConf, opts ...Option) *Client {
	platform := strings.ToLower(strings.TrimSpace(conf.Platform))
	if platform == "" {
		platform = DefaultPlatform
	}
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		apiKey:   conf.APIKey,
		platform: platform,
		endpoint: BuildStatusURL(platform),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Platform возвращает код платформы в нижнем регистре, например "na1".
func (c *Client) Platform() string {
	return c.platform
}
