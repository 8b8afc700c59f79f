package promptd

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"promptlab"
	"promptlab/api"
	"promptlab/config"
	"promptlab/evaluator"
	"promptlab/llm"
)

func Run(args []string) int {
	flags := flag.NewFlagSet("promptd", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var (
		configPath string
		port       int
	)

	flags.StringVar(&configPath, "config", "", "config file path (YAML), defaults to ./config.yaml when present")
	flags.IntVar(&port, "port", 0, "HTTP port (overrides config)")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		}
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.GetConfig(configPath)
	if port > 0 {
		cfg.Port = port
	}

	client := llm.NewOllamaClientWithTimeout(cfg.BaseURL, cfg.Model, cfg.Timeout)
	eval := evaluator.New(client)
	session := evaluator.NewSession()

	log.Println("=== prompt evaluation service (promptd) ===")
	log.Printf("[AI] chat endpoint %s, model %s, timeout %s\n", cfg.BaseURL, cfg.Model, cfg.Timeout)

	staticFS, err := promptlab.GetStaticFS()
	if err != nil {
		log.Printf("[WARN] cannot load web assets: %v (API only)\n", err)
	}

	var sfs fs.FS
	if err == nil {
		sfs = staticFS
	}

	server := api.NewServer(cfg, eval, session, sfs)
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("[ERROR] HTTP server failed: %v\n", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("shutting down...")
	_ = server.Shutdown()
	log.Println("server stopped")
	return 0
}
