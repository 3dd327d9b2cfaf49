package content

import (
	"context"

	"github.com/sohamn21/nektech-connect/pkg/logging"
)

// Service wraps a Generator with the fallback policy: generation failures
// are recovered locally and never surfaced to the end channel.
type Service struct {
	gen    Generator
	logger *logging.Logger
}

// NewService creates a content service. gen may be nil, in which case
// every request gets the fixed fallback tips.
func NewService(gen Generator, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{gen: gen, logger: logger}
}

// Tips returns training content for the topic. This function is total:
// if the generator is unavailable, fails, or returns an unusable shape,
// the fixed generic tips are substituted.
func (s *Service) Tips(ctx context.Context, topic, language string) string {
	if s == nil || s.gen == nil {
		return FallbackTips(topic, language)
	}
	tips, err := s.gen.TrainingTips(ctx, topic, language)
	if err != nil {
		s.logger.Warn("content generation failed, using fallback tips",
			"error", err, "topic", topic, "language", language)
		return FallbackTips(topic, language)
	}
	return tips
}
