package saga

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SagaStep represents a single step in a saga with execute and compensate actions.
type SagaStep struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga orchestrates a sequence of steps with compensating transactions on failure.
type Saga struct {
	name   string
	steps  []SagaStep
	logger *zap.Logger
}

// NewSaga creates a new saga orchestrator.
func NewSaga(name string, logger *zap.Logger) *Saga {
	return &Saga{
		name:   name,
		steps:  make([]SagaStep, 0),
		logger: logger,
	}
}

// AddStep appends a step to the saga.
func (s *Saga) AddStep(step SagaStep) {
	s.steps = append(s.steps, step)
}

// Execute runs all steps in order. On failure it compensates the executed steps
// in reverse order and returns the failing step's error wrapped.
func (s *Saga) Execute(ctx context.Context) error {
	s.logger.Debug("saga started", zap.String("saga", s.name))

	executed := make([]SagaStep, 0, len(s.steps))
	for _, step := range s.steps {
		if err := step.Execute(ctx); err != nil {
			s.logger.Warn("saga step failed, compensating",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			s.compensate(executed)
			return fmt.Errorf("saga '%s' failed at step '%s': %w", s.name, step.Name, err)
		}
		executed = append(executed, step)
	}

	s.logger.Debug("saga completed", zap.String("saga", s.name))
	return nil
}

// compensate runs on a fresh context so a cancelled request still rolls back.
func (s *Saga) compensate(executed []SagaStep) {
	ctx := context.Background()
	for i := len(executed) - 1; i >= 0; i-- {
		step := executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("compensation failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
}
