package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/wealth/agent"
	"github.com/etnz/wealth/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

// Name returns the name of the command.
func (*assistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*assistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*assistCmd) Usage() string {
	return `wlt assist [<question>...]

  Start an interactive session with the AI assistant. The assistant reads the
  asset book through the holding, analysis and tx reports.

  The Gemini API key is read from the configuration, or from the
  GEMINI_API_KEY environment variable.
`
}

// SetFlags sets the flags for the command.
func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

// Execute executes the command.
func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	app, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening asset book: %v\n", err)
		return subcommands.ExitFailure
	}
	defer app.Close()
	ctx = app.context(ctx)

	var cc *genai.ClientConfig
	if key := app.cfg.Gemini.APIKey; key != "" {
		cc = &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		fmt.Fprintln(stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := app.cfg.Gemini.Model
	if model == "" {
		model = agent.DefaultModel
	}
	trader := agent.NewTrader(model)
	accountant := agent.NewAccountant(model, reports{app})
	a := agent.New(stdout, os.Stdin, model, format, trader, accountant)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

// format styles a markdown answer for the terminal, unless -markdown is set.
func format(md string) string {
	if *rawMarkdown {
		return md
	}
	out, err := renderer.Terminal(md, 100)
	if err != nil {
		return md
	}
	return out
}
