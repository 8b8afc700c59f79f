package evaluator

import (
	"sync"

	"promptlab/model"
)

// Session holds the transient state of one evaluation workflow: the
// current evaluation and, once generated, the answer comparison for it.
// Nothing is persisted; a restart starts clean.
type Session struct {
	mu         sync.Mutex
	evaluation *model.Evaluation
	comparison *model.Comparison
}

// State is a point-in-time snapshot of the session.
type State struct {
	Evaluation *model.Evaluation `json:"evaluation"`
	Comparison *model.Comparison `json:"comparison"`
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// SetEvaluation stores a new evaluation and drops any comparison, which
// belonged to the previous one.
func (s *Session) SetEvaluation(ev *model.Evaluation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluation = ev
	s.comparison = nil
}

// Evaluation returns the current evaluation, or nil.
func (s *Session) Evaluation() *model.Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluation
}

// SetComparison stores a comparison. It fails if no evaluation exists or
// if the comparison was generated for an evaluation that has since been
// replaced.
func (s *Session) SetComparison(cmp *model.Comparison) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evaluation == nil {
		return ErrNoEvaluation
	}
	if cmp.EvaluationID != s.evaluation.ID {
		return ErrStaleComparison
	}
	s.comparison = cmp
	return nil
}

// Comparison returns the current comparison, or nil.
func (s *Session) Comparison() *model.Comparison {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comparison
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Evaluation: s.evaluation, Comparison: s.comparison}
}
