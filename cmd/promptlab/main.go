package main

import (
	"os"
	"strings"

	_ "go.uber.org/automaxprocs"

	"promptlab/internal/promptctl"
	"promptlab/internal/promptd"
)

// Version is injected by build scripts via -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	args := os.Args[1:]
	if shouldRouteToCtl(args) {
		os.Exit(promptctl.Run(args))
	}
	os.Exit(promptd.Run(args))
}

func shouldRouteToCtl(args []string) bool {
	for _, a := range args {
		if a == "" {
			continue
		}
		if a == "-evaluate" || a == "--evaluate" {
			return true
		}
		if a == "-answer" || a == "--answer" {
			return true
		}
		if a == "-compare" || a == "--compare" {
			return true
		}
		if strings.HasPrefix(a, "-prompt") || strings.HasPrefix(a, "--prompt") {
			return true
		}
		if strings.HasPrefix(a, "-server") || strings.HasPrefix(a, "--server") {
			return true
		}
	}
	return false
}
