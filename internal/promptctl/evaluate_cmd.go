package promptctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"promptlab/config"
	"promptlab/evaluator"
	"promptlab/internal/terminalui"
	"promptlab/llm"
	"promptlab/model"
)

func runEvaluate(opts options) error {
	prompt, err := readPrompt(opts.prompt, opts.promptFile)
	if err != nil {
		return err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("empty prompt; pass -prompt, -prompt-file or pipe text on stdin")
	}

	cfg := resolveConfig(opts)
	client := llm.NewOllamaClientWithTimeout(cfg.BaseURL, cfg.Model, cfg.Timeout)
	eval := evaluator.New(client)

	// Budget for one evaluation plus, when comparing, two answers.
	budget := cfg.Timeout + 30*time.Second
	if opts.compare {
		budget = 3*cfg.Timeout + 30*time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()

	ev, err := eval.Evaluate(ctx, prompt)
	if err != nil {
		return err
	}

	var cmp *model.Comparison
	if opts.compare {
		if !ev.HasImprovedPrompt() {
			log.Printf("[WARN] the evaluation produced no improved prompt; skipping comparison\n")
		} else {
			cmp, err = eval.Compare(ctx, ev)
			if err != nil {
				return err
			}
		}
	}

	return emitEvaluation(ev, cmp, opts)
}

func runAnswer(opts options) error {
	prompt, err := readPrompt(opts.prompt, opts.promptFile)
	if err != nil {
		return err
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("empty prompt; pass -prompt, -prompt-file or pipe text on stdin")
	}

	cfg := resolveConfig(opts)
	client := llm.NewOllamaClientWithTimeout(cfg.BaseURL, cfg.Model, cfg.Timeout)
	eval := evaluator.New(client)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+30*time.Second)
	defer cancel()

	answer, err := eval.Answer(ctx, prompt)
	if err != nil {
		return err
	}

	return emitAnswer(answer, opts.outPath)
}

func emitAnswer(answer, outPath string) error {
	out := strings.TrimSpace(answer)
	if outPath == "" {
		_, err := io.WriteString(os.Stdout, out+"\n")
		return err
	}
	if err := ensureParentDir(outPath); err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(out+"\n"), 0o644)
}

func emitEvaluation(ev *model.Evaluation, cmp *model.Comparison, opts options) error {
	if opts.jsonOut {
		b, err := marshalEvaluation(ev, cmp)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	} else {
		terminalui.Render(terminalui.Snapshot{
			Evaluation:  ev,
			Comparison:  cmp,
			ShowAnswers: cmp != nil,
		})
	}

	if opts.outPath != "" {
		if err := writeEvaluationJSON(opts.outPath, ev, cmp); err != nil {
			return err
		}
		log.Printf("[CTL] evaluation JSON written to %s\n", opts.outPath)
	}
	if opts.htmlPath != "" {
		if err := writeEvaluationHTML(opts.htmlPath, ev, cmp); err != nil {
			return err
		}
		log.Printf("[CTL] HTML report written to %s\n", opts.htmlPath)
	}
	return nil
}

func marshalEvaluation(ev *model.Evaluation, cmp *model.Comparison) ([]byte, error) {
	payload := struct {
		Evaluation *model.Evaluation `json:"evaluation"`
		Comparison *model.Comparison `json:"comparison,omitempty"`
	}{ev, cmp}
	return json.MarshalIndent(payload, "", "  ")
}

func writeEvaluationJSON(path string, ev *model.Evaluation, cmp *model.Comparison) error {
	b, err := marshalEvaluation(ev, cmp)
	if err != nil {
		return err
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

func readPrompt(prompt, promptFile string) (string, error) {
	if strings.TrimSpace(prompt) != "" {
		return prompt, nil
	}
	if strings.TrimSpace(promptFile) != "" {
		b, err := os.ReadFile(promptFile)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	// stdin
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func resolveConfig(opts options) *config.Config {
	path := opts.configPath
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	cfg := config.GetConfig(path)
	if opts.llmURL != "" {
		cfg.BaseURL = opts.llmURL
	}
	if opts.llmModel != "" {
		cfg.Model = opts.llmModel
	}
	if opts.llmTimeout > 0 {
		cfg.Timeout = opts.llmTimeout
	}
	return cfg
}
