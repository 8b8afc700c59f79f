package promptctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"promptlab/evaluator"
	"promptlab/model"
)

type evaluateResp struct {
	Code int               `json:"code"`
	Data *model.Evaluation `json:"data"`
}

type compareResp struct {
	Code int               `json:"code"`
	Data *model.Comparison `json:"data"`
}

type answerResp struct {
	Code int `json:"code"`
	Data struct {
		Answer string `json:"answer"`
	} `json:"data"`
}

type sessionResp struct {
	Code int             `json:"code"`
	Data evaluator.State `json:"data"`
}

type promptBody struct {
	Prompt string `json:"prompt"`
}

// runRemote drives a running promptd instead of calling the model
// directly, so the result lands in the service session too.
func runRemote(serverURL string, opts options) error {
	base := strings.TrimRight(strings.TrimSpace(serverURL), "/")
	if base == "" {
		base = "http://localhost:8787"
	}

	cfg := resolveConfig(opts)
	client := &http.Client{Timeout: remoteBudget(cfg.Timeout, opts.compare)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if opts.answer {
		prompt, err := readPrompt(opts.prompt, opts.promptFile)
		if err != nil {
			return err
		}
		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			return fmt.Errorf("empty prompt; pass -prompt, -prompt-file or pipe text on stdin")
		}
		var resp answerResp
		if err := postJSON(ctx, client, base+"/api/answer", promptBody{Prompt: prompt}, &resp); err != nil {
			return err
		}
		return emitAnswer(resp.Data.Answer, opts.outPath)
	}

	var ev *model.Evaluation
	if opts.evaluate {
		prompt, err := readPrompt(opts.prompt, opts.promptFile)
		if err != nil {
			return err
		}
		prompt = strings.TrimSpace(prompt)
		if prompt == "" {
			return fmt.Errorf("empty prompt; pass -prompt, -prompt-file or pipe text on stdin")
		}
		var resp evaluateResp
		if err := postJSON(ctx, client, base+"/api/evaluate", promptBody{Prompt: prompt}, &resp); err != nil {
			return err
		}
		ev = resp.Data
	} else {
		// compare-only: reuse the evaluation held by the service session
		var resp sessionResp
		if err := getJSON(ctx, client, base+"/api/session", &resp); err != nil {
			return err
		}
		ev = resp.Data.Evaluation
		if ev == nil {
			return fmt.Errorf("the service session has no evaluation; run -evaluate first")
		}
	}

	var cmp *model.Comparison
	if opts.compare {
		if !ev.HasImprovedPrompt() {
			log.Printf("[WARN] the evaluation produced no improved prompt; skipping comparison\n")
		} else {
			var resp compareResp
			if err := postJSON(ctx, client, base+"/api/compare", struct{}{}, &resp); err != nil {
				return err
			}
			cmp = resp.Data
		}
	}

	return emitEvaluation(ev, cmp, opts)
}

// remoteBudget caps one daemon request. Compare answers the original and
// improved prompts sequentially server-side, so it gets two chat timeouts.
func remoteBudget(timeout time.Duration, compare bool) time.Duration {
	if compare {
		return 2*timeout + 30*time.Second
	}
	return timeout + 30*time.Second
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", url, apiErr.Error)
		}
		return fmt.Errorf("%s: http %d", url, resp.StatusCode)
	}
	return json.Unmarshal(data, out)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: http %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
