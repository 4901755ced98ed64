package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/nucleus/httpfs/internal/config"
	"github.com/nucleus/httpfs/internal/connector/minio"
	"github.com/nucleus/httpfs/internal/transfer"
)

// parseArgs parses command flags and checks the positional argument count.
func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, usagef("%s: %v", fs.Name(), err)
	}
	if fs.NArg() != want {
		return nil, usagef("%s: expected %d argument(s), got %d", fs.Name(), want, fs.NArg())
	}
	return fs.Args(), nil
}

// permissionFlag registers -permission and validates it as an octal mode.
type permissionFlag string

func (p *permissionFlag) String() string { return string(*p) }

func (p *permissionFlag) Set(v string) error {
	if _, err := strconv.ParseUint(v, 8, 32); err != nil {
		return fmt.Errorf("permission must be octal, got %q", v)
	}
	*p = permissionFlag(v)
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(flag.NewFlagSet("ls", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}

	listing, err := a.client.ListDirectory(ctx, pos[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 1, ' ', 0)
	for _, e := range listing.Entries {
		kind := "-"
		if e.IsDir() {
			kind = "d"
		}
		modified := time.UnixMilli(e.ModificationTime).UTC().Format("2006-01-02 15:04")
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%d\t%s\t%s\n",
			kind, e.Permission, e.Owner, e.Group, e.Length, modified, e.PathSuffix)
	}
	return tw.Flush()
}

func runCat(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(flag.NewFlagSet("cat", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}

	data, err := a.client.OpenFile(ctx, pos[0])
	if err != nil {
		return err
	}
	_, err = a.stdout.Write(data)
	return err
}

func runRemove(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(flag.NewFlagSet("rm", flag.ContinueOnError), args, 1)
	if err != nil {
		return err
	}
	_, err = a.client.DeleteFile(ctx, pos[0])
	return err
}

func runRemoveDir(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("rmdir", flag.ContinueOnError)
	recursive := fs.Bool("recursive", false, "Delete the directory contents as well")
	pos, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	_, err = a.client.DeleteDirectory(ctx, pos[0], *recursive)
	return err
}

func runMkdir(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("mkdir", flag.ContinueOnError)
	var permission permissionFlag
	fs.Var(&permission, "permission", "Octal permission of the new directory")
	pos, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	_, err = a.client.CreateDirectory(ctx, pos[0], string(permission))
	return err
}

func runPut(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	overwrite := fs.Bool("overwrite", false, "Replace an existing file")
	var permission permissionFlag
	fs.Var(&permission, "permission", "Octal permission of the new file")
	pos, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	var content []byte
	if pos[0] == "-" {
		content, err = io.ReadAll(a.stdin)
	} else {
		content, err = os.ReadFile(pos[0])
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", pos[0], err)
	}

	created, err := a.client.CreateFile(ctx, pos[1], content, *overwrite, string(permission))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %d bytes written\n", pos[1], len(content))
	if created.Redirects > 0 {
		fmt.Fprintf(a.stderr, "followed %d redirect(s) to %s\n", created.Redirects, created.URL)
	}
	return nil
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	overwrite := fs.Bool("overwrite", false, "Replace an existing file")
	var permission permissionFlag
	fs.Var(&permission, "permission", "Octal permission of the new file")
	pos, err := parseArgs(fs, args, 3)
	if err != nil {
		return err
	}

	store, err := openStore(a.cfg)
	if err != nil {
		return err
	}
	_, err = transfer.NewImporter(store, a.client).Import(ctx, pos[0], pos[1], pos[2], *overwrite, string(permission))
	return err
}

func runExport(ctx context.Context, a *app, args []string) error {
	pos, err := parseArgs(flag.NewFlagSet("export", flag.ContinueOnError), args, 3)
	if err != nil {
		return err
	}

	store, err := openStore(a.cfg)
	if err != nil {
		return err
	}
	n, err := transfer.NewExporter(a.client, store).Export(ctx, pos[0], pos[1], pos[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s/%s: %d bytes written\n", pos[1], pos[2], n)
	return nil
}

func openStore(cfg *config.Config) (minio.ObjectStore, error) {
	mcfg, err := minio.ParseConfig(cfg.Transfer.MinIO)
	if err != nil {
		return nil, err
	}
	store, err := minio.NewStore(mcfg)
	if err != nil {
		return nil, fmt.Errorf("transfer.minio: %w", err)
	}
	return store, nil
}

func runConfig(stdout, stderr io.Writer, args []string) error {
	if len(args) == 0 || args[0] != "init" {
		return usagef("config: expected subcommand init")
	}

	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args[1:]); err != nil {
		return usagef("config init: %v", err)
	}
	if fs.NArg() > 1 {
		return usagef("config init: expected at most one PATH")
	}

	path, err := config.WriteDefault(fs.Arg(0), *force)
	if errors.Is(err, config.ErrConfigExists) {
		fmt.Fprintln(stderr, "use -force to overwrite")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return nil
}
