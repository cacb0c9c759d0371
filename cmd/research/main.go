package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/bububa/research-agents/app"
	"github.com/bububa/research-agents/config"
	"github.com/bububa/research-agents/research"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := zap.NewNop()
	if *verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	defer logger.Sync()

	ctx := context.Background()
	pipeline, err := app.BuildPipeline(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup error:", err)
		os.Exit(1)
	}
	session := research.NewSession(pipeline)

	color.Cyan("Research agent ready. Type 'exit' or 'quit' to end the session.")
	prompt := color.New(color.FgGreen, color.Bold)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "exit", "quit":
			color.Cyan("Goodbye!")
			return
		case "":
			continue
		}
		color.Yellow("Agent is thinking...")
		answer, err := session.Ask(ctx, input)
		if err != nil {
			color.Red("Sorry, something went wrong while researching your question: %v", err)
			continue
		}
		fmt.Println()
		fmt.Println(answer.Text)
		if len(answer.Sources) > 0 {
			color.Cyan("\nSources:")
			for i, src := range answer.Sources {
				fmt.Printf("  [%d] %s (%s)\n", i+1, src.Title, src.URL)
			}
		}
		fmt.Println()
	}
}
