package wizard

import (
	"errors"
	"time"

	"github.com/phrazzld/viral-scripts/internal/domain"
)

// Step identifies which variant of the wizard state is active.
type Step string

// Wizard steps.
const (
	StepIdle             Step = "idle"
	StepAwaitingLanguage Step = "awaiting-language"
	StepAwaitingTopic    Step = "awaiting-topic"
	StepGenerating       Step = "generating"
	StepResults          Step = "results"
	StepError            Step = "error"
)

// Valid reports whether s is one of the defined steps.
func (s Step) Valid() bool {
	switch s {
	case StepIdle, StepAwaitingLanguage, StepAwaitingTopic, StepGenerating, StepResults, StepError:
		return true
	}
	return false
}

// FailureMessage is shown for every failed generation, whatever the cause.
const FailureMessage = "Failed to generate the conspiracy. The system might be jammed by the authorities."

var (
	// ErrInvalidTransition is returned when an operation is not allowed in the
	// current step. The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid wizard transition")

	// ErrGenerationInFlight is returned when a topic is chosen while a
	// generation is already running.
	ErrGenerationInFlight = errors.New("a generation is already in progress")
)

// Snapshot is a copy of a session's wizard state.
//
// Language and Topic are set from the moment they are chosen until the next
// reset. Result is only set in StepResults, ErrorMessage only in StepError.
type Snapshot struct {
	SessionID    string                 `json:"session_id"`
	Step         Step                   `json:"step"`
	Language     domain.Language        `json:"language,omitempty"`
	Topic        domain.Topic           `json:"topic,omitempty"`
	Result       *domain.ScriptResponse `json:"result,omitempty"`
	ErrorMessage string                 `json:"error,omitempty"`

	// Attempt counts the generations started in this session.
	Attempt   uint64    `json:"attempt"`
	UpdatedAt time.Time `json:"updated_at"`
}
