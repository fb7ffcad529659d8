package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"oolangc/config"
	"oolangc/lexer"
)

// tokensCmd is the "tokens" debug subcommand: it scans a single source file
// and prints the token stream and any lexical errors to stdout, without
// running the parser or any later phase.
type tokensCmd struct {
	tokens   string
	keywords string
}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "scan a single file and print its token stream" }
func (*tokensCmd) Usage() string {
	return `tokens <file>:
  Scan file and print its lexical tokens and errors to stdout.
`
}

func (c *tokensCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tokens, "tokens", config.DefaultTokens, "lexical rules file")
	f.StringVar(&c.keywords, "keywords", config.DefaultKeywords, "keywords file")
}

func (c *tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "tokens: missing source file")
		return subcommands.ExitUsageError
	}

	rules, warnings, err := lexer.LoadRules(c.tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	keywords, err := lexer.LoadKeywords(c.keywords)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
		return subcommands.ExitFailure
	}

	src, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
		return subcommands.ExitFailure
	}
	defer src.Close()

	sc, err := lexer.New(src, rules, keywords)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
		return subcommands.ExitFailure
	}

	for {
		tok, err := sc.Next()
		if err != nil {
			break
		}
		fmt.Println(tok.String())
		if tok.Kind == "EOS" {
			break
		}
	}

	if errs := sc.Errors(); len(errs) > 0 {
		fmt.Println("--- lexical errors ---")
		for _, e := range errs {
			fmt.Printf("Lexical error: %s %q: line %d col %d\n", e.Kind, e.Lexeme, e.Line, e.Col)
		}
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
