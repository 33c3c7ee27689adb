package ai

import (
	"context"
	"errors"
	"strings"
)

type providerChain struct {
	primary  Provider
	fallback Provider
}

// WithFallback returns a provider that first tries the primary implementation and
// falls back to the provided one when the primary is unavailable or produces
// an empty response.
func WithFallback(primary, fallback Provider) Provider {
	if isNil(primary) {
		return fallback
	}
	if isNil(fallback) {
		return primary
	}
	return &providerChain{primary: primary, fallback: fallback}
}

func (c *providerChain) Name() string {
	return c.primary.Name() + "+" + c.fallback.Name()
}

func (c *providerChain) Enabled() bool {
	return c.primary.Enabled() || c.fallback.Enabled()
}

func (c *providerChain) Complete(ctx context.Context, req Request) (string, error) {
	var primaryErr error
	if c.primary.Enabled() {
		text, err := c.primary.Complete(ctx, req)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		primaryErr = err
		if primaryErr == nil {
			primaryErr = ErrEmptyResponse
		}
		if ctx.Err() != nil {
			return "", primaryErr
		}
	}
	if c.fallback.Enabled() {
		text, err := c.fallback.Complete(ctx, req)
		if err != nil {
			return "", errors.Join(primaryErr, err)
		}
		return text, nil
	}
	if primaryErr != nil {
		return "", primaryErr
	}
	return "", ErrDisabled
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(p Provider) bool {
	if p == nil {
		return true
	}
	switch v := p.(type) {
	case *GeminiClient:
		return v == nil
	case *OpenAIClient:
		return v == nil
	}
	return false
}
