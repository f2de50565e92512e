// Package ai selects the concrete transform gateway provider.
package ai

import (
	"github.com/photodish/v1/internal/infrastructure/ai/mock"
	"github.com/photodish/v1/internal/infrastructure/ai/openai"
	"github.com/photodish/v1/internal/infrastructure/config"
	"github.com/photodish/v1/internal/ports/outbound"
	"go.uber.org/zap"
)

// NewTransformGateway creates the transform gateway for the configured
// provider. An unrecognized provider falls back to the mock so local
// development works without credentials.
func NewTransformGateway(cfg config.AIConfig, logger *zap.Logger) outbound.TransformGateway {
	switch cfg.Provider {
	case "openai":
		logger.Info("using OpenAI transform gateway", zap.String("model", cfg.OpenAIModel))
		return openai.NewClient(cfg, logger)
	case "mock":
		logger.Info("using mock transform gateway")
		return mock.NewGateway()
	default:
		logger.Warn("unknown AI provider, using mock transform gateway",
			zap.String("provider", cfg.Provider))
		return mock.NewGateway()
	}
}
