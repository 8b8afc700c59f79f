package promptctl

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"promptlab/llm"
)

type options struct {
	evaluate bool
	answer   bool
	compare  bool

	prompt     string
	promptFile string

	configPath string
	llmURL     string
	llmModel   string
	llmTimeout time.Duration

	jsonOut  bool
	outPath  string
	htmlPath string
}

func Run(args []string) int {
	fs := flag.NewFlagSet("promptctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		evaluateMode bool
		answerMode   bool
		compareMode  bool

		promptText string
		promptFile string

		serverURL  string
		configPath string

		llmURL     string
		llmModel   string
		llmTimeout time.Duration

		jsonOut  bool
		outPath  string
		htmlPath string
	)

	fs.BoolVar(&evaluateMode, "evaluate", false, "score a prompt against the quality rubric and exit")
	fs.BoolVar(&answerMode, "answer", false, "answer a prompt directly and exit")
	fs.BoolVar(&compareMode, "compare", false, "also answer the original and improved prompts (with -evaluate, or alone against -server)")
	fs.StringVar(&promptText, "prompt", "", "prompt text (takes priority over -prompt-file/stdin)")
	fs.StringVar(&promptFile, "prompt-file", "", "path of a file holding the prompt")
	fs.StringVar(&serverURL, "server", "", "promptd HTTP base URL (e.g. http://localhost:8787); when set, requests go through the service session")
	fs.StringVar(&configPath, "config", "", "config file path (YAML), defaults to ./config.yaml when present")
	fs.StringVar(&llmURL, "url", "", "chat endpoint base URL (overrides config)")
	fs.StringVar(&llmModel, "model", "", "model name (overrides config)")
	fs.DurationVar(&llmTimeout, "timeout", 0, "chat request timeout, e.g. 180s or 3m (overrides config)")
	fs.BoolVar(&jsonOut, "json", false, "print the result as JSON instead of the terminal report")
	fs.StringVar(&outPath, "out", "", "also write the evaluation JSON to this path")
	fs.StringVar(&htmlPath, "html", "", "also write an HTML report to this path")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Mutually exclusive modes.
	if evaluateMode && answerMode {
		log.Printf("[ERROR] -evaluate and -answer cannot be combined\n")
		return 2
	}
	if compareMode && answerMode {
		log.Printf("[ERROR] -compare and -answer cannot be combined\n")
		return 2
	}
	if compareMode && !evaluateMode && serverURL == "" {
		log.Printf("[ERROR] -compare needs a prior evaluation: combine it with -evaluate, or point -server at a running promptd\n")
		return 2
	}

	if !evaluateMode && !answerMode && !compareMode {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  promptctl -evaluate [-prompt \"...\" | -prompt-file p.txt] [-compare] [-json] [-out eval.json] [-html report.html]")
		fmt.Fprintln(os.Stderr, "  promptctl -answer [-prompt \"...\" | -prompt-file p.txt]")
		fmt.Fprintln(os.Stderr, "  promptctl -compare -server http://localhost:8787")
		fmt.Fprintln(os.Stderr, "  promptctl ... [-config config.yaml] [-url http://localhost:11434] [-model llama3.3] [-timeout 180s]")
		return 2
	}

	opts := options{
		evaluate:   evaluateMode,
		answer:     answerMode,
		compare:    compareMode,
		prompt:     promptText,
		promptFile: promptFile,
		configPath: configPath,
		llmURL:     llmURL,
		llmModel:   llmModel,
		llmTimeout: llmTimeout,
		jsonOut:    jsonOut,
		outPath:    outPath,
		htmlPath:   htmlPath,
	}

	if serverURL != "" {
		if err := runRemote(serverURL, opts); err != nil {
			log.Printf("[ERROR] request failed: %v\n", err)
			return 1
		}
		return 0
	}

	if answerMode {
		if err := runAnswer(opts); err != nil {
			if llm.IsTimeout(err) {
				log.Printf("[ERROR] the model took too long to respond; try again or use a shorter prompt\n")
			} else {
				log.Printf("[ERROR] answer failed: %v\n", err)
			}
			return 1
		}
		return 0
	}

	if err := runEvaluate(opts); err != nil {
		if llm.IsTimeout(err) {
			log.Printf("[ERROR] the model took too long to respond; try again or use a shorter prompt\n")
		} else {
			log.Printf("[ERROR] evaluation failed: %v\n", err)
		}
		return 1
	}
	return 0
}
