package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single provider lookup.
const DefaultTimeout = 10 * time.Second

// Service turns a Query into reply text using a single provider.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	provider Provider
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

// NewService creates a new Service. A non-positive timeout falls back to DefaultTimeout.
func NewService(provider Provider, timeout time.Duration, logger *zap.SugaredLogger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
	}
}

// Describe looks up current conditions for q and renders them.
// Every failure is turned into a user-facing message; provider-reported
// errors keep the provider's text, anything else is logged and reported
// as the generic unavailable message.
func (s *Service) Describe(ctx context.Context, q Query) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorw("weather lookup panicked", "location", q.Location, "panic", r)
			reply = MsgUnavailable
		}
	}()

	report, err := s.Lookup(ctx, q.Location)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return ProviderErrorMessage(perr.Message)
		}
		s.logger.Errorw("weather lookup failed",
			"provider", s.provider.Name(),
			"location", q.Location,
			"error", err,
		)
		return MsgUnavailable
	}

	text, err := Render(report, q.DisplayName)
	if err != nil {
		s.logger.Errorw("weather response malformed",
			"provider", s.provider.Name(),
			"location", q.Location,
			"error", err,
		)
		return MsgUnavailable
	}
	return text
}

// Lookup performs exactly one provider call bounded by the service timeout.
func (s *Service) Lookup(ctx context.Context, location string) (Report, error) {
	if location == "" {
		return Report{}, fmt.Errorf("empty location")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.provider.Current(ctx, location)
}
