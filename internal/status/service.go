// Package status - ядро riotcheck: кулдаун на пользователя, кэш ответа Riot
// и перевод результата в текст ответа.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/Hassan767275/league-bot/internal/riotapi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCooldown = 10 * time.Second
	DefaultCacheTTL = 30 * time.Second

	flightKey = "platform-status"
)

// Checker - запрос к status-эндпоинту Riot.
type Checker interface {
	CheckStatus(ctx context.Context) riotapi.Result
}

type Config struct {
	Platform string
	Cooldown time.Duration
	CacheTTL time.Duration
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// cachedResult: ok == false до первой успешной проверки.
type cachedResult struct {
	statusCode int
	ok         bool
	expiresAt  time.Time
}

type Service struct {
	logger  *zap.SugaredLogger
	checker Checker
	clock   Clock
	tracer  trace.Tracer

	platform string
	cooldown time.Duration
	cacheTTL time.Duration

	mu    sync.Mutex
	cache cachedResult
	// lastUsed не чистится: одна запись на пользователя до конца процесса
	lastUsed map[string]time.Time

	sf singleflight.Group
}

func New(logger *zap.SugaredLogger, checker Checker, cfg Config, opts ...Option) *Service {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Platform == "" {
		cfg.Platform = riotapi.DefaultPlatform
	}

	s := &Service{
		logger:   logger,
		checker:  checker,
		clock:    SystemClock{},
		tracer:   otel.Tracer("github.com/Hassan767275/league-bot/internal/status"),
		platform: cfg.Platform,
		cooldown: cfg.Cooldown,
		cacheTTL: cfg.CacheTTL,
		lastUsed: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check - один вызов riotcheck от callerID.
func (s *Service) Check(ctx context.Context, callerID string) Outcome {
	ctx, span := s.tracer.Start(ctx, "status.Check", trace.WithAttributes(attribute.String("caller.id", callerID)))
	defer span.End()

	now := s.clock.Now()

	s.mu.Lock()
	if last, seen := s.lastUsed[callerID]; seen {
		if left := last.Add(s.cooldown).Sub(now); left > 0 {
			s.mu.Unlock()
			span.SetAttributes(attribute.String("outcome", OnCooldown.String()))
			return Outcome{Kind: OnCooldown, Remaining: left}
		}
	}
	s.lastUsed[callerID] = now

	if s.cache.ok && now.Before(s.cache.expiresAt) {
		code := s.cache.statusCode
		s.mu.Unlock()
		span.SetAttributes(attribute.String("outcome", Cached.String()))
		return Outcome{Kind: Cached, StatusCode: code, Message: MessageFor(code, s.platform)}
	}
	s.mu.Unlock()

	out := s.fetch(ctx, now)
	span.SetAttributes(attribute.String("outcome", out.Kind.String()))
	if out.Kind == TimedOut || out.Kind == UnexpectedError {
		span.SetStatus(codes.Error, out.Kind.String())
	}
	return out
}

// Refresh ходит в Riot в обход кулдауна и кэша, при успехе обновляет кэш.
func (s *Service) Refresh(ctx context.Context) Outcome {
	return s.fetch(ctx, s.clock.Now())
}

// Callers - сколько пользователей в журнале кулдаунов.
func (s *Service) Callers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lastUsed)
}

func (s *Service) fetch(ctx context.Context, now time.Time) Outcome {
	v, _, shared := s.sf.Do(flightKey, func() (any, error) {
		res := s.checker.CheckStatus(context.WithoutCancel(ctx))
		if res.Kind == riotapi.ResultOK {
			s.mu.Lock()
			s.cache = cachedResult{statusCode: res.StatusCode, ok: true, expiresAt: now.Add(s.cacheTTL)}
			s.mu.Unlock()
		}
		return res, nil
	})
	res := v.(riotapi.Result)
	if shared {
		s.logger.Debugw("shared in-flight status check", "kind", res.Kind.String())
	}

	switch res.Kind {
	case riotapi.ResultOK:
		return Outcome{Kind: Fresh, StatusCode: res.StatusCode, Message: MessageFor(res.StatusCode, s.platform)}
	case riotapi.ResultTimedOut:
		return Outcome{Kind: TimedOut}
	default:
		s.logger.Errorw("unexpected error while contacting riot api", "error", res.Err)
		return Outcome{Kind: UnexpectedError}
	}
}
