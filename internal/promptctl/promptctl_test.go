package promptctl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"promptlab/model"
)

func TestReadPromptPriority(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(file, []byte("from file"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := readPrompt("inline", file)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "inline" {
		t.Fatalf("inline prompt not preferred: %q", got)
	}

	got, err = readPrompt("", file)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "from file" {
		t.Fatalf("file prompt = %q", got)
	}

	if _, err := readPrompt("", filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatalf("expected error for missing prompt file")
	}
}

func TestResolveConfigOverrides(t *testing.T) {
	for _, name := range []string{"OLLAMA_BASE_URL", "PROMPTLAB_BASE_URL", "OLLAMA_MODEL", "PROMPTLAB_MODEL", "PROMPTLAB_TIMEOUT", "PROMPTLAB_PORT"} {
		t.Setenv(name, "")
	}

	cfg := resolveConfig(options{
		llmURL:     "http://override:11434",
		llmModel:   "phi3",
		llmTimeout: 45 * time.Second,
	})
	if cfg.BaseURL != "http://override:11434" {
		t.Fatalf("base url = %s", cfg.BaseURL)
	}
	if cfg.Model != "phi3" {
		t.Fatalf("model = %s", cfg.Model)
	}
	if cfg.Timeout != 45*time.Second {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
}

func TestWriteEvaluationHTML(t *testing.T) {
	ev := &model.Evaluation{
		ID:         "ev-1",
		Prompt:     "Explain <b>ML</b>",
		TotalScore: 70,
		Scores:     map[string]int{"persona": 10, "task": 20, "context": 15, "constraints": 10, "clarity": 15},
		Diagnosis:  map[string]string{"persona": "none"},
		Improvements: []string{
			"add a **persona**",
		},
		ImprovedPrompt:   "You are a tutor. Explain ML.",
		ShortExplanation: "Decent.",
		CreatedAt:        time.Now(),
	}
	cmp := &model.Comparison{
		EvaluationID:   "ev-1",
		OriginalAnswer: "plain answer",
		ImprovedAnswer: "better answer",
	}

	path := filepath.Join(t.TempDir(), "out", "report.html")
	if err := writeEvaluationHTML(path, ev, cmp); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	body := string(data)
	if !strings.Contains(body, "70<span") {
		t.Fatalf("total score missing")
	}
	if strings.Contains(body, "<b>ML</b>") {
		t.Fatalf("prompt not escaped")
	}
	if !strings.Contains(body, "<strong>persona</strong>") {
		t.Fatalf("markdown not rendered")
	}
	if !strings.Contains(body, "better answer") {
		t.Fatalf("comparison missing")
	}
}

func TestScoreClass(t *testing.T) {
	if scoreClass(20, 25) != "good" || scoreClass(13, 25) != "warn" || scoreClass(5, 25) != "bad" {
		t.Fatalf("score classes wrong")
	}
}

func TestClampPct(t *testing.T) {
	if clampPct(50, 100) != 50 || clampPct(120, 100) != 100 || clampPct(-5, 100) != 0 {
		t.Fatalf("clamp wrong")
	}
}
