package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/enthus-golang/cloudprint"
	"github.com/enthus-golang/cloudprint/internal/config"
	"github.com/enthus-golang/cloudprint/internal/logging"
)

const usage = `Usage: cloudprint [-config path] [-v] <command> [arguments]

Commands:
  token                     exchange the configured refresh token and print the access token
  printers [query]          list printers, optionally filtered by query
  printer <printer-id>      show one printer
  submit [flags] <file|url> submit a print job (see "cloudprint submit -h")
  status <job-id>           print the status of a job
  jobs [flags]              list jobs (see "cloudprint jobs -h")
  delete <job-id>           delete a job
`

// errUsage marks command line mistakes; run reports them with exit code 2.
var errUsage = errors.New("usage error")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cloudprint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "config file path (default ~/.config/cloudprint/config.toml)")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cloudprint: %v\n", err)
		return 1
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "cloudprint: init logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	a := &app{
		cfg:    cfg,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
		client: cloudprint.New(clientOptions(cfg)...),
	}

	command, commandArgs := fs.Arg(0), fs.Args()[1:]
	if err := a.dispatch(ctx, command, commandArgs); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "cloudprint: %v\n", err)
			return 2
		}
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(stderr, "cloudprint: %v\n", err)
		return 1
	}
	return 0
}

func clientOptions(cfg config.Config) []cloudprint.Option {
	opts := []cloudprint.Option{
		cloudprint.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		cloudprint.WithAccessToken(cfg.AccessToken),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, cloudprint.WithBaseURL(cfg.BaseURL))
	}
	return opts
}

type app struct {
	cfg    config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	client *cloudprint.Client
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "token":
		return a.token(ctx, args)
	case "printers", "printer", "submit", "status", "jobs", "delete":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	if err := a.authenticate(ctx); err != nil {
		return err
	}

	switch command {
	case "printers":
		return a.printers(ctx, args)
	case "printer":
		return a.printer(ctx, args)
	case "submit":
		return a.submit(ctx, args)
	case "status":
		return a.status(ctx, args)
	case "jobs":
		return a.jobs(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	}
	return nil
}

// authenticate exchanges the refresh token when no access token is configured.
func (a *app) authenticate(ctx context.Context) error {
	if a.client.GetAccessToken() != "" || !a.cfg.CanRefresh() {
		return nil
	}

	token, err := a.exchange(ctx)
	if err != nil {
		return err
	}
	a.client.SetAccessToken(token)
	return nil
}

func (a *app) exchange(ctx context.Context) (string, error) {
	if !a.cfg.CanRefresh() {
		return "", fmt.Errorf("%w: client_id and refresh_token must be configured", errUsage)
	}

	a.logger.Debug("exchanging refresh token", zap.String("token_url", a.cfg.TokenURL))
	fields := cloudprint.RefreshTokenFields(a.cfg.ClientID, a.cfg.ClientSecret, a.cfg.RefreshToken)
	token, err := a.client.ExchangeRefreshToken(ctx, a.cfg.TokenURL, fields)
	if err != nil {
		return "", fmt.Errorf("exchange refresh token: %w", err)
	}
	return token, nil
}
