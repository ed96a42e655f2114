package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/kadirpekel/agentwire/pkg/a2a"
)

// SendCmd sends one message and prints the resulting task.
type SendCmd struct {
	Text   string `arg:"" help:"Message text to send."`
	TaskID string `help:"Continue an existing task."`
	JSON   bool   `help:"Print the raw task object as JSON."`
}

func (c *SendCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	cl, err := cli.buildClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	task, err := cl.SendMessage(ctx, a2a.MessageSendParams{
		ID:      c.TaskID,
		Message: a2a.NewUserMessage(c.Text),
	})
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}

	if c.JSON {
		return printJSON(task)
	}

	if text := a2a.ExtractTaskText(task); text != "" {
		fmt.Println(text)
	}
	statusLine("task %s: %s", task.ID, task.Status.State)
	return nil
}

// SubscribeCmd sends one message and streams events until the stream ends
// or a final status arrives.
type SubscribeCmd struct {
	Text   string `arg:"" help:"Message text to send."`
	TaskID string `help:"Continue an existing task."`
	JSON   bool   `help:"Print each event as JSON."`
}

func (c *SubscribeCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	cl, err := cli.streamingClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	for ev, err := range cl.SendAndSubscribe(ctx, a2a.MessageSendParams{
		ID:      c.TaskID,
		Message: a2a.NewUserMessage(c.Text),
	}) {
		if err != nil {
			return err
		}

		if c.JSON {
			if err := printJSON(ev); err != nil {
				return err
			}
		} else {
			printEvent(ev)
		}

		if ev.Final() {
			break
		}
	}

	return nil
}

// CardCmd fetches and prints the agent card.
type CardCmd struct{}

func (c *CardCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	cl, err := cli.buildClient(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	card, err := cl.AgentCard(ctx)
	if err != nil {
		return err
	}

	return printJSON(card)
}

func printEvent(ev a2a.Event) {
	switch e := ev.(type) {
	case *a2a.StatusUpdateEvent:
		statusLine("task %s: %s", e.TaskID, e.Status.State)
		if e.Status.Message != nil {
			if text := a2a.ExtractText(*e.Status.Message); text != "" {
				fmt.Println(text)
			}
		}
	case *a2a.ArtifactUpdateEvent:
		for _, part := range e.Artifact.Parts {
			if part.Type == a2a.PartTypeText {
				fmt.Print(part.Text)
			}
		}
		if e.LastChunk {
			fmt.Println()
		}
	}
}

// statusLine writes progress chatter to stderr, and only when stderr is a
// terminal, keeping stdout clean for piped output.
func statusLine(format string, args ...interface{}) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
