package generation

import (
	"context"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// Generator defines the interface for generating script packages.
// This interface serves as a boundary between the wizard and external
// LLM services, so tests and alternative providers can be swapped in.
type Generator interface {
	// GenerateScript requests one script package for the given language and
	// topic. On success the parsed response is returned unchanged.
	//
	// Errors wrap one of the sentinel errors in errors.go.
	GenerateScript(ctx context.Context, lang domain.Language, topic domain.Topic) (*domain.ScriptResponse, error)
}
