package geocode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tradedispatch/dispatch-api/internal/core"
	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// Chain asks each geocoder in order and returns the first result.
// A provider error is logged and the next provider is tried.
type Chain struct {
	providers []core.Geocoder
	logger    *slog.Logger
}

// NewChain builds a fallback chain. Nil providers are skipped.
func NewChain(logger *slog.Logger, providers ...core.Geocoder) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Chain{logger: logger}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Name lists the chained providers.
func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Geocode returns the first non-empty result. When every provider failed the
// joined errors are returned; when some answered without a match the result is nil, nil.
func (c *Chain) Geocode(ctx context.Context, address string) (*model.GeoResult, error) {
	var errs []error
	for _, p := range c.providers {
		res, err := p.Geocode(ctx, address)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "geocoder failed, trying next", "provider", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if res != nil {
			return res, nil
		}
	}
	if len(errs) == len(c.providers) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, nil
}
