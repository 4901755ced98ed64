package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/nucleus/httpfs/internal/config"
	connhttp "github.com/nucleus/httpfs/internal/connector/http"
	"github.com/nucleus/httpfs/internal/connector/httpfs"
	"github.com/nucleus/httpfs/internal/connector/minio"
	"github.com/nucleus/httpfs/internal/logger"
	"github.com/nucleus/httpfs/pkg/metrics"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// app carries what a command needs to run.
type app struct {
	cfg    *config.Config
	client *httpfs.Client
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"ls":     {"ls PATH", runList},
	"cat":    {"cat PATH", runCat},
	"rm":     {"rm PATH", runRemove},
	"rmdir":  {"rmdir [-recursive] PATH", runRemoveDir},
	"mkdir":  {"mkdir [-permission OCTAL] PATH", runMkdir},
	"put":    {"put [-overwrite] [-permission OCTAL] LOCAL|- PATH", runPut},
	"import": {"import [-overwrite] [-permission OCTAL] BUCKET KEY PATH", runImport},
	"export": {"export PATH BUCKET KEY", runExport},
}

// usageError is reported with exit code 2.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("httpfs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	fs.Usage = func() { printUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	if name == "config" {
		return report(stderr, runConfig(stdout, stderr, rest))
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	logger.SetLevel(cfg.Logging.Level)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	client, err := httpfs.New(cfg.GatewayConfig(),
		httpfs.WithHTTPClient(connhttp.NewClient(cfg.ClientConfig())),
		httpfs.WithMetrics(metrics.NewHTTPFSMetrics()),
	)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	a := &app{cfg: cfg, client: client, stdin: stdin, stdout: stdout, stderr: stderr}
	err = cmd.run(ctx, a, rest)

	if cfg.Metrics.Enabled {
		if mErr := metrics.WriteText(stderr); mErr != nil {
			logger.Warn("failed to write metrics: %v", mErr)
		}
	}

	var uErr *usageError
	if errors.As(err, &uErr) {
		fmt.Fprintf(stderr, "usage: httpfs %s\n", cmd.usage)
	}
	return report(stderr, err)
}

// report prints err and maps it to an exit code. Gateway errors are printed
// as "KIND: message (path)". Transient object store errors get a retry hint.
func report(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}

	var uErr *usageError
	if errors.As(err, &uErr) {
		fmt.Fprintf(w, "error: %s\n", uErr.msg)
		return exitUsage
	}

	var gwErr *httpfs.GatewayError
	if errors.As(err, &gwErr) {
		msg := gwErr.Message
		if msg == "" {
			msg = err.Error()
		}
		fmt.Fprintf(w, "%s: %s (%s)\n", gwErr.Kind, msg, gwErr.Path)
		if gwErr.Err != nil {
			logger.Debug("cause: %v", gwErr.Err)
		}
		return exitError
	}

	fmt.Fprintf(w, "error: %v\n", err)
	var storeErr *minio.Error
	if errors.As(err, &storeErr) && storeErr.Retryable {
		fmt.Fprintf(w, "%s is transient, the command can be retried\n", storeErr.Code)
	}
	return exitError
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: httpfs [-config FILE] COMMAND [FLAGS] ARGS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w, "  config init [-force] [PATH]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
