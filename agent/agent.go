package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w           io.Writer
	r           *bufio.Reader
	format      func(string) string
	Facilitator *Expert
	Experts     []*Expert
}

// New creates a new Agent talking to the user through w and r, and answering
// with the help of experts. Chats are created on Start.
//
// Answers are markdown, format turns them into what is printed to w.
func New(w io.Writer, r io.Reader, model string, format func(string) string, experts ...*Expert) *Agent {
	if format == nil {
		format = func(s string) string { return s }
	}
	return &Agent{
		w:           w,
		r:           bufio.NewReader(r),
		format:      format,
		Experts:     experts,
		Facilitator: newFacilitator(model, experts...),
	}
}

// Start creates the chat sessions of every expert and of the facilitator.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// quit lists the inputs ending the session.
var quit = []string{"bye", "exit", "quit"}

// Run starts the chats if needed, then answers prompts first and the lines
// read from the user next, until the user quits or the input ends.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.loop(ctx, prompts)
}

func (a *Agent) loop(ctx context.Context, prompts []string) error {
	fmt.Fprintf(a.w, "Welcome to wlt assist. Type '%s' to exit.\n", quit[0])
	for {
		fmt.Fprint(a.w, prompt)
		input, err := a.next(&prompts)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.w)
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case isQuit(input):
			return nil
		}

		answer, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			// The session survives a failed question.
			zerolog.Ctx(ctx).Error().Err(err).Msg("facilitator failed")
			fmt.Fprintf(a.w, "Error: %v\n", err)
			continue
		}
		fmt.Fprintln(a.w, a.format(answer))
	}
}

// next pops the next prompt, echoing it, or reads a line from the user.
func (a *Agent) next(prompts *[]string) (string, error) {
	if len(*prompts) > 0 {
		input := (*prompts)[0]
		*prompts = (*prompts)[1:]
		fmt.Fprintln(a.w, input)
		return input, nil
	}
	line, err := a.r.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}

func isQuit(input string) bool {
	for _, q := range quit {
		if strings.EqualFold(input, q) {
			return true
		}
	}
	return false
}
