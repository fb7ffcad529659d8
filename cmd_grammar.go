package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/google/subcommands"

	"oolangc/config"
	"oolangc/grammar"
)

// grammarCmd is the "grammar" debug subcommand: it loads a grammar file in
// isolation and prints its FIRST/FOLLOW sets, or the LL(1) conflict that
// rejected it, without touching any source file.
type grammarCmd struct {
	followCap int
}

func (*grammarCmd) Name() string     { return "grammar" }
func (*grammarCmd) Synopsis() string { return "load a grammar file and print FIRST/FOLLOW sets" }
func (*grammarCmd) Usage() string {
	return `grammar <file>:
  Load file as a grammar and print FIRST/FOLLOW sets, or the LL(1)
  conflict that rejects it.
`
}

func (c *grammarCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.followCap, "follow-expansion-cap", 0, "FOLLOW fixpoint expansion cap (0 = default)")
}

func (c *grammarCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := config.DefaultGrammar
	if f.NArg() > 0 {
		path = f.Arg(0)
	}

	g, err := grammar.Load(path, c.followCap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "grammar: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, nt := range g.Order {
		fmt.Printf("FIRST(%s)  = %s\n", nt, formatSet(g.FirstOf(nt)))
		fmt.Printf("FOLLOW(%s) = %s\n", nt, formatSet(g.FollowOf(nt)))
	}

	if _, err := grammar.BuildParseTable(g); err != nil {
		fmt.Fprintf(os.Stderr, "grammar: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println("grammar is LL(1)")
	return subcommands.ExitSuccess
}

func formatSet(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	out := "{"
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + "}"
}
