// Command sprig scaffolds, packages and installs sprig games.
//
//	sprig init [-root dir] [-name name]
//	sprig make [-root dir]
//	sprig build [-root dir] <name>
//	sprig install [-root dir] [-dest dir]
//	sprig uninstall [-root dir] [-dest dir]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

type command struct {
	summary string
	run     func(env *env, args []string) error
}

var commands = map[string]command{
	"init":      {"create data/ and assets/ with default files", runInit},
	"make":      {"rebuild data/sql/db.sqlite from data/sql/*.sql", runMake},
	"build":     {"compile the game into dist/<name>", runBuild},
	"install":   {"copy data/ and assets/ to the user config directory", runInstall},
	"uninstall": {"remove the installed copy", runUninstall},
}

// env is what a command may touch.
type env struct {
	stdout, stderr io.Writer
	// configDir returns the per-user configuration directory.
	configDir func() (string, error)
	// goBuild compiles the package in dir into out.
	goBuild func(dir, out string) error
}

// errUsage reports a bad invocation; its usage was already printed.
var errUsage = errors.New("bad usage")

func main() {
	e := &env{stdout: os.Stdout, stderr: os.Stderr, configDir: os.UserConfigDir, goBuild: goBuild}
	os.Exit(run(e, os.Args[1:]))
}

// run executes a sub-command and returns the exit status.
func run(e *env, args []string) int {
	if len(args) == 0 {
		usage(e.stderr)
		return 1
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(e.stderr, "sprig: unknown command %q\n", args[0])
		usage(e.stderr)
		return 1
	}
	if err := cmd.run(e, args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(e.stderr, "sprig:", err)
		}
		return 1
	}
	return 0
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: sprig <command> [flags] [args]")
	fmt.Fprintln(out, "Commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(out, "  %-10s %s\n", n, commands[n].summary)
	}
}

// newFlagSet returns a flag set printing its own usage to stderr.
func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("sprig "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

// parse parses args, mapping flag errors to errUsage.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return nil
}
