package promptctl

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"promptlab/model"
)

const remoteEvalJSON = `{
	"id": "ev-1",
	"prompt": "Explain ML",
	"total_score": 61,
	"scores": {"persona": 5, "task": 20, "context": 12, "constraints": 12, "clarity": 12},
	"diagnosis": {"persona": "none", "task": "clear", "context": "thin", "constraints": "ok", "clarity": "ok"},
	"improvements": ["add a persona"],
	"improved_prompt": "You are a tutor. Explain ML.",
	"short_explanation": "Solid but impersonal."
}`

const remoteCompareJSON = `{"evaluation_id":"ev-1","original_answer":"plain answer","improved_answer":"better answer"}`

func TestRemoteBudgetCoversCompare(t *testing.T) {
	if got := remoteBudget(180*time.Second, false); got != 210*time.Second {
		t.Fatalf("single-call budget = %v", got)
	}
	got := remoteBudget(180*time.Second, true)
	if got != 390*time.Second {
		t.Fatalf("compare budget = %v", got)
	}
	if got < 2*180*time.Second {
		t.Fatalf("compare budget %v does not cover two sequential answers", got)
	}
}

func TestRunRemoteEvaluateAndCompare(t *testing.T) {
	var evaluateBody promptBody
	var compareHits int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/evaluate", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&evaluateBody); err != nil {
			t.Errorf("decode evaluate body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":` + remoteEvalJSON + `}`))
	})
	mux.HandleFunc("/api/compare", func(w http.ResponseWriter, r *http.Request) {
		compareHits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":` + remoteCompareJSON + `}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "eval.json")
	opts := options{
		evaluate:   true,
		compare:    true,
		prompt:     "Explain ML",
		jsonOut:    true,
		outPath:    out,
		llmTimeout: time.Second,
	}
	if err := runRemote(srv.URL, opts); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if evaluateBody.Prompt != "Explain ML" {
		t.Fatalf("evaluate body = %+v", evaluateBody)
	}
	if compareHits != 1 {
		t.Fatalf("compare hits = %d, want 1", compareHits)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got struct {
		Evaluation *model.Evaluation `json:"evaluation"`
		Comparison *model.Comparison `json:"comparison"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Evaluation == nil || got.Evaluation.ID != "ev-1" {
		t.Fatalf("evaluation missing from output: %+v", got.Evaluation)
	}
	if got.Comparison == nil || got.Comparison.ImprovedAnswer != "better answer" {
		t.Fatalf("comparison missing from output: %+v", got.Comparison)
	}
}

func TestRunRemoteCompareOnlyUsesSession(t *testing.T) {
	var sessionHits, compareHits int

	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, r *http.Request) {
		sessionHits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":{"evaluation":` + remoteEvalJSON + `,"comparison":null}}`))
	})
	mux.HandleFunc("/api/compare", func(w http.ResponseWriter, r *http.Request) {
		compareHits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":` + remoteCompareJSON + `}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "eval.json")
	opts := options{
		compare:    true,
		jsonOut:    true,
		outPath:    out,
		llmTimeout: time.Second,
	}
	if err := runRemote(srv.URL, opts); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sessionHits != 1 || compareHits != 1 {
		t.Fatalf("hits = %d session / %d compare, want 1/1", sessionHits, compareHits)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var got struct {
		Evaluation *model.Evaluation `json:"evaluation"`
		Comparison *model.Comparison `json:"comparison"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.Evaluation == nil || got.Evaluation.ID != "ev-1" || got.Comparison == nil {
		t.Fatalf("session evaluation not reused: %+v", got)
	}
}

func TestRunRemoteCompareOnlyWithoutSessionEvaluation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"data":{"evaluation":null,"comparison":null}}`))
	}))
	defer srv.Close()

	err := runRemote(srv.URL, options{compare: true, jsonOut: true, llmTimeout: time.Second})
	if err == nil || !strings.Contains(err.Error(), "no evaluation") {
		t.Fatalf("err = %v, want no-evaluation guidance", err)
	}
}

func TestRunRemoteSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Please write a prompt before evaluating it."}`))
	}))
	defer srv.Close()

	err := runRemote(srv.URL, options{evaluate: true, prompt: "x", jsonOut: true, llmTimeout: time.Second})
	if err == nil || !strings.Contains(err.Error(), "write a prompt") {
		t.Fatalf("server error not surfaced: %v", err)
	}
}
