package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/viral-scripts/internal/domain"
	"github.com/phrazzld/viral-scripts/internal/events"
	"github.com/phrazzld/viral-scripts/internal/generation"
	"github.com/phrazzld/viral-scripts/internal/redact"
	"github.com/phrazzld/viral-scripts/internal/task"
)

// Scheduler runs tasks in the background. *task.TaskRunner implements it.
type Scheduler interface {
	Submit(ctx context.Context, t task.Task) error
}

// errStaleCompletion marks a completion for an attempt that is no longer current.
var errStaleCompletion = errors.New("stale generation completion")

// Machine is the wizard state of one session.
type Machine struct {
	id        string
	scheduler Scheduler
	generator generation.Generator
	emitter   events.EventEmitter
	logger    *slog.Logger
	now       func() time.Time

	mu    sync.Mutex
	state Snapshot
	// changed is closed and replaced on every transition.
	changed chan struct{}

	// emitMu keeps events in transition order. It is taken before mu is
	// released so that a later transition cannot emit first.
	emitMu sync.Mutex
}

// New creates a Machine in StepIdle. A nil emitter discards events.
func New(
	id string,
	scheduler Scheduler,
	generator generation.Generator,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Machine {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Machine{
		id:        id,
		scheduler: scheduler,
		generator: generator,
		emitter:   emitter,
		logger:    logger.With("component", "wizard", "session_id", id),
		now:       time.Now,
		changed:   make(chan struct{}),
	}
	m.state = Snapshot{
		SessionID: id,
		Step:      StepIdle,
		UpdatedAt: m.now().UTC(),
	}
	return m
}

// ID returns the session id the machine belongs to.
func (m *Machine) ID() string {
	return m.id
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Start leaves the landing step: idle → awaiting-language.
func (m *Machine) Start(ctx context.Context) (Snapshot, error) {
	return m.transition(ctx, "start", func(s *Snapshot) error {
		if s.Step != StepIdle {
			return invalid("start", s.Step)
		}
		s.Step = StepAwaitingLanguage
		return nil
	})
}

// ChooseLanguage stores lang: awaiting-language → awaiting-topic.
func (m *Machine) ChooseLanguage(ctx context.Context, lang domain.Language) (Snapshot, error) {
	return m.transition(ctx, "choose_language", func(s *Snapshot) error {
		if s.Step != StepAwaitingLanguage {
			return invalid("choose language", s.Step)
		}
		if !lang.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, lang)
		}
		s.Language = lang
		s.Step = StepAwaitingTopic
		return nil
	})
}

// ChooseTopic stores topic and starts one generation: awaiting-topic →
// generating. While a generation is running it fails with
// ErrGenerationInFlight and nothing is scheduled.
//
// If the task cannot be scheduled the machine moves on to StepError.
func (m *Machine) ChooseTopic(ctx context.Context, topic domain.Topic) (Snapshot, error) {
	snap, err := m.transition(ctx, "choose_topic", func(s *Snapshot) error {
		if s.Step == StepGenerating {
			return ErrGenerationInFlight
		}
		if s.Step != StepAwaitingTopic {
			return invalid("choose topic", s.Step)
		}
		if topic == "" {
			return domain.ErrEmptyTopic
		}

		s.Topic = topic
		s.ErrorMessage = ""
		s.Result = nil
		s.Attempt++
		s.Step = StepGenerating
		return nil
	})
	if err != nil {
		return snap, err
	}

	attempt := snap.Attempt
	t, err := task.NewGenerationTask(m.id, snap.Language, topic, m.generator,
		func(resp *domain.ScriptResponse, err error) {
			m.complete(attempt, resp, err)
		}, m.logger)
	if err == nil {
		err = m.scheduler.Submit(ctx, t)
	}
	if err != nil {
		m.complete(attempt, nil, fmt.Errorf("failed to schedule generation: %w", err))
		return m.Snapshot(), nil
	}

	return snap, nil
}

// Reset starts a new cycle from results or error: → awaiting-language, with
// language, topic, result and error message discarded.
func (m *Machine) Reset(ctx context.Context) (Snapshot, error) {
	return m.transition(ctx, "reset", func(s *Snapshot) error {
		if s.Step != StepResults && s.Step != StepError {
			return invalid("reset", s.Step)
		}
		s.Step = StepAwaitingLanguage
		s.Language = ""
		s.Topic = ""
		s.Result = nil
		s.ErrorMessage = ""
		return nil
	})
}

// Wait blocks until the machine is not generating, or ctx is done.
func (m *Machine) Wait(ctx context.Context) (Snapshot, error) {
	for {
		m.mu.Lock()
		if m.state.Step != StepGenerating {
			snap := m.state
			m.mu.Unlock()
			return snap, nil
		}
		changed := m.changed
		m.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return m.Snapshot(), ctx.Err()
		}
	}
}

// complete feeds the outcome of generation attempt back into the machine.
func (m *Machine) complete(attempt uint64, resp *domain.ScriptResponse, genErr error) {
	ctx := context.Background()

	name := "generation_succeeded"
	if genErr != nil {
		name = "generation_failed"
	}

	_, err := m.transition(ctx, name, func(s *Snapshot) error {
		if s.Step != StepGenerating || s.Attempt != attempt {
			return errStaleCompletion
		}
		if genErr != nil {
			m.logger.WarnContext(ctx, "generation failed",
				"attempt", attempt,
				"error", redact.Error(genErr))
			s.Step = StepError
			s.ErrorMessage = FailureMessage
			return nil
		}
		s.Step = StepResults
		s.Result = resp
		return nil
	})
	if errors.Is(err, errStaleCompletion) {
		m.logger.WarnContext(ctx, "dropping stale generation result", "attempt", attempt)
	}
}

// transition applies fn to the state under the lock. When fn fails the state
// is restored and no event is emitted.
func (m *Machine) transition(ctx context.Context, name string, fn func(s *Snapshot) error) (Snapshot, error) {
	m.mu.Lock()

	previous := m.state
	if err := fn(&m.state); err != nil {
		m.state = previous
		m.mu.Unlock()
		return previous, err
	}

	m.state.UpdatedAt = m.now().UTC()
	close(m.changed)
	m.changed = make(chan struct{})
	snap := m.state

	m.emitMu.Lock()
	m.mu.Unlock()
	defer m.emitMu.Unlock()

	m.logger.DebugContext(ctx, "wizard transition",
		"event", name,
		"from", previous.Step,
		"to", snap.Step)
	m.emit(ctx, snap)

	return snap, nil
}

func (m *Machine) emit(ctx context.Context, snap Snapshot) {
	event, err := events.NewEvent(events.TypeStateChanged, m.id, snap)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to build state event", "error", err)
		return
	}
	if err := m.emitter.EmitEvent(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "failed to emit state event", "error", err)
	}
}

func invalid(op string, step Step) error {
	return fmt.Errorf("%w: cannot %s in step %s", ErrInvalidTransition, op, step)
}
