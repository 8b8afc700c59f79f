package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"

	"promptlab/model"
)

// evaluationPayload mirrors the JSON object the model is instructed to
// produce. Numeric fields use json.Number so that a model answering
// "22.0" instead of "22" still decodes.
type evaluationPayload struct {
	TotalScore       json.Number            `json:"total_score"`
	Scores           map[string]json.Number `json:"scores"`
	Diagnosis        map[string]string      `json:"diagnosis"`
	Improvements     []string               `json:"improvements"`
	ImprovedPrompt   string                 `json:"improved_prompt"`
	ShortExplanation string                 `json:"short_explanation"`
}

// decodeEvaluation parses a raw JSON object into an Evaluation. Missing
// fields fall back to zero values so a partial answer still renders;
// fields present with the wrong type fail the decode.
func decodeEvaluation(raw json.RawMessage) (*model.Evaluation, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload evaluationPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}

	ev := &model.Evaluation{
		TotalScore:       asInt(payload.TotalScore),
		Scores:           make(map[string]int, len(model.Dimensions)),
		Diagnosis:        make(map[string]string, len(model.Dimensions)),
		Improvements:     payload.Improvements,
		ImprovedPrompt:   payload.ImprovedPrompt,
		ShortExplanation: payload.ShortExplanation,
	}
	for _, dim := range model.Dimensions {
		ev.Scores[dim] = asInt(payload.Scores[dim])
		ev.Diagnosis[dim] = payload.Diagnosis[dim]
	}
	if ev.Improvements == nil {
		ev.Improvements = []string{}
	}
	return ev, nil
}

// asInt converts a json.Number to int, truncating floats. The zero
// Number (field absent) yields 0.
func asInt(n json.Number) int {
	if n == "" {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return int(v)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}
