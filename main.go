package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&compileCmd{}, "")
	subcommands.Register(&tokensCmd{}, "")
	subcommands.Register(&grammarCmd{}, "")

	// compile is the default: running the binary with no recognized
	// subcommand name (or none at all) falls through to a compile run
	// over the remaining arguments, matching the teacher's main.go
	// default-to-run behavior.
	args := os.Args[1:]
	if len(args) == 0 || !isKnownSubcommand(args[0]) {
		os.Args = append([]string{os.Args[0], "compile"}, args...)
	}

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func isKnownSubcommand(name string) bool {
	switch name {
	case "compile", "tokens", "grammar", "help", "flags", "commands":
		return true
	default:
		return false
	}
}
