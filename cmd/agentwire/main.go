// Command agentwire is a client CLI for A2A agents speaking the JSON-RPC
// HTTP+JSON transport.
//
// Usage:
//
//	agentwire send "hello" --endpoint http://localhost:8080
//	agentwire subscribe "summarize this repo" --endpoint http://localhost:8080
//	agentwire card --endpoint http://localhost:8080
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/agentwire"
	"github.com/kadirpekel/agentwire/pkg/client"
	"github.com/kadirpekel/agentwire/pkg/config"
	"github.com/kadirpekel/agentwire/pkg/logger"
)

// CLI defines the command-line interface.
type CLI struct {
	Send      SendCmd      `cmd:"" help:"Send a message and print the result."`
	Subscribe SubscribeCmd `cmd:"" help:"Send a message and stream events as they arrive."`
	Card      CardCmd      `cmd:"" help:"Fetch and print the agent card."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`

	Endpoint  string        `short:"e" help:"Agent JSON-RPC endpoint URL (overrides config)."`
	Config    string        `short:"c" help:"Path to config file." type:"path"`
	Token     string        `help:"Bearer token (overrides config auth)."`
	Timeout   time.Duration `help:"Request timeout for single-response calls." default:"60s"`
	LogLevel  string        `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string        `help:"Log format (text or json)." default:"text"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(agentwire.GetVersion().String())
	return nil
}

// loadConfig merges the config file (if any) with flag overrides.
func (cli *CLI) loadConfig() (*config.Config, error) {
	var cfg *config.Config

	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = &config.Config{}
	}

	if cli.Endpoint != "" {
		cfg.Endpoint = cli.Endpoint
	}
	if cli.Token != "" {
		cfg.Auth = config.AuthConfig{Scheme: "bearer", Token: cli.Token}
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("no endpoint: pass --endpoint or set it in the config file")
	}

	return cfg, nil
}

// buildClient assembles the transport client from the merged config.
func (cli *CLI) buildClient(cfg *config.Config) (*client.Client, error) {
	capability, err := buildCapability(cfg.Auth)
	if err != nil {
		return nil, err
	}

	timeout := cli.Timeout
	if cfg.Timeout != 0 {
		timeout = cfg.Timeout.Duration()
	}

	opts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if capability != nil {
		opts = append(opts, client.WithCapability(capability))
	}

	return client.New(cfg.Endpoint, opts...)
}

// streamingClient builds a client without a client-level timeout, so that
// subscriptions are bounded only by the command context.
func (cli *CLI) streamingClient(cfg *config.Config) (*client.Client, error) {
	capability, err := buildCapability(cfg.Auth)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithHTTPClient(&http.Client{}),
	}
	if capability != nil {
		opts = append(opts, client.WithCapability(capability))
	}

	return client.New(cfg.Endpoint, opts...)
}

func (cli *CLI) setupLogging() error {
	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		return err
	}
	_, err = logger.Setup(level, cli.LogFormat, os.Stderr)
	return err
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("agentwire"),
		kong.Description("Client CLI for A2A agents over JSON-RPC HTTP+JSON."),
		kong.UsageOnError(),
	)

	if err := cli.setupLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := ctx.Run(cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
