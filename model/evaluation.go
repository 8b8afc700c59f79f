package model

import (
	"strings"
	"time"
)

// Dimensions lists the five grading dimensions in display order.
var Dimensions = []string{"persona", "task", "context", "constraints", "clarity"}

// DimensionMax caps each dimension score; the caps sum to 100.
var DimensionMax = map[string]int{
	"persona":     25,
	"task":        25,
	"context":     20,
	"constraints": 15,
	"clarity":     15,
}

// Evaluation is one graded prompt with the model's diagnosis and rewrite.
type Evaluation struct {
	ID               string            `json:"id"`                // record id
	Prompt           string            `json:"prompt"`            // prompt as submitted
	TotalScore       int               `json:"total_score"`       // 0-100
	Scores           map[string]int    `json:"scores"`            // dimension -> points
	Diagnosis        map[string]string `json:"diagnosis"`         // dimension -> what is weak or missing
	Improvements     []string          `json:"improvements"`      // concrete suggestions
	ImprovedPrompt   string            `json:"improved_prompt"`   // model-rewritten prompt
	ShortExplanation string            `json:"short_explanation"` // one-paragraph verdict
	CreatedAt        time.Time         `json:"created_at"`
}

// Score returns the points for one dimension, 0 when absent.
func (e *Evaluation) Score(dimension string) int {
	return e.Scores[dimension]
}

// ScorePercent returns one dimension's points relative to its cap.
func (e *Evaluation) ScorePercent(dimension string) float64 {
	max := DimensionMax[dimension]
	if max == 0 {
		return 0
	}
	return float64(e.Scores[dimension]) / float64(max) * 100
}

// HasImprovedPrompt reports whether the rewrite is non-empty and therefore
// usable for an answer comparison.
func (e *Evaluation) HasImprovedPrompt() bool {
	return e != nil && strings.TrimSpace(e.ImprovedPrompt) != ""
}

// Comparison pairs the answers generated from the original and the improved
// prompt of one evaluation.
type Comparison struct {
	EvaluationID   string    `json:"evaluation_id"` // Evaluation.ID the answers belong to
	OriginalAnswer string    `json:"original_answer"`
	ImprovedAnswer string    `json:"improved_answer"`
	CreatedAt      time.Time `json:"created_at"`
}
