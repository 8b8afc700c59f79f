// Package evaluator scores prompts against a fixed quality rubric by
// driving a chat model, and generates side-by-side answers for the
// original and improved versions of a prompt.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"promptlab/llm"
	"promptlab/model"
)

var (
	// ErrEmptyPrompt is returned when the prompt is empty or whitespace.
	ErrEmptyPrompt = errors.New("empty prompt")
	// ErrNoEvaluation is returned when a comparison is requested before
	// any evaluation exists.
	ErrNoEvaluation = errors.New("no evaluation available")
	// ErrNoImprovedPrompt is returned when the stored evaluation carries
	// no improved prompt to compare against.
	ErrNoImprovedPrompt = errors.New("evaluation has no improved prompt")
	// ErrStaleComparison is returned when a comparison refers to an
	// evaluation that has since been replaced.
	ErrStaleComparison = errors.New("comparison is stale")
)

// ChatClient is the slice of the chat transport the evaluator needs.
type ChatClient interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
}

// Evaluator turns prompts into scored evaluations and answers.
type Evaluator struct {
	client ChatClient
}

// New returns an Evaluator backed by the given chat client.
func New(client ChatClient) *Evaluator {
	return &Evaluator{client: client}
}

// Evaluate scores the prompt on the five-dimension rubric. The raw model
// answer is run through the tolerant JSON extractor, so prose or code
// fences around the object are fine.
func (e *Evaluator) Evaluate(ctx context.Context, prompt string) (*model.Evaluation, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.SystemEvaluator()},
		{Role: llm.RoleUser, Content: llm.EvaluateUserMessage(prompt)},
	}
	reply, err := e.client.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("evaluate prompt: %w", err)
	}

	raw, err := llm.ExtractJSONObject(reply)
	if err != nil {
		return nil, fmt.Errorf("evaluate prompt: %w", err)
	}
	ev, err := decodeEvaluation(raw)
	if err != nil {
		return nil, fmt.Errorf("evaluate prompt: %w", err)
	}

	ev.ID = uuid.NewString()
	ev.Prompt = prompt
	ev.CreatedAt = time.Now()
	return ev, nil
}

// Answer asks the model to answer the prompt directly, with no rubric.
func (e *Evaluator) Answer(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.SystemAnswer()},
		{Role: llm.RoleUser, Content: prompt},
	}
	return e.client.Chat(ctx, messages)
}

// Compare answers the evaluation's original and improved prompts in
// sequence and returns both answers. The evaluation must carry a
// non-empty improved prompt.
func (e *Evaluator) Compare(ctx context.Context, ev *model.Evaluation) (*model.Comparison, error) {
	if ev == nil {
		return nil, ErrNoEvaluation
	}
	if !ev.HasImprovedPrompt() {
		return nil, ErrNoImprovedPrompt
	}

	original, err := e.Answer(ctx, ev.Prompt)
	if err != nil {
		return nil, fmt.Errorf("original answer: %w", err)
	}
	improved, err := e.Answer(ctx, ev.ImprovedPrompt)
	if err != nil {
		return nil, fmt.Errorf("improved answer: %w", err)
	}

	return &model.Comparison{
		EvaluationID:   ev.ID,
		OriginalAnswer: original,
		ImprovedAnswer: improved,
		CreatedAt:      time.Now(),
	}, nil
}
