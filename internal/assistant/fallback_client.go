package assistant

import (
	"context"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

// FallbackClient wraps a primary LLM client with a fallback provider.
// If the primary fails, it automatically retries with the fallback.
type FallbackClient struct {
	primary  LLMClient
	fallback LLMClient
	logger   *logging.Logger
}

// NewFallbackClient creates a fallback-enabled LLM client.
// If fallback is nil, the client will only use the primary provider.
func NewFallbackClient(primary, fallback LLMClient, logger *logging.Logger) *FallbackClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClient{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Complete tries the primary LLM, then the fallback.
func (c *FallbackClient) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.primary.Complete(ctx, prompt)
	if err == nil {
		return text, nil
	}

	c.logger.Warn("primary LLM failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)

	if c.fallback == nil {
		return "", err
	}

	text, fallbackErr := c.fallback.Complete(ctx, prompt)
	if fallbackErr != nil {
		c.logger.Error("fallback LLM also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return "", fallbackErr
	}

	c.logger.Info("fallback LLM succeeded after primary failure")
	return text, nil
}

var _ LLMClient = (*FallbackClient)(nil)
