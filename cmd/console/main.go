package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/niknshinde/Traditional-Rag/internal/ui/client"
	"github.com/niknshinde/Traditional-Rag/internal/ui/console"
	"github.com/niknshinde/Traditional-Rag/internal/ui/controller"
)

func main() {
	_ = godotenv.Load()

	defaultBase := os.Getenv("API_BASE_URL")
	if defaultBase == "" {
		defaultBase = "http://localhost:5000"
	}
	baseURL := flag.String("api", defaultBase, "base URL of the document-QA backend")
	flag.Parse()

	api := client.New(*baseURL)
	view := console.NewView(os.Stdout)
	ctrl := controller.New(api, view)

	repl := console.NewREPL(ctrl, view, os.Stdin, os.Stdout)
	if err := repl.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "console error: %v\n", err)
		os.Exit(1)
	}
}
