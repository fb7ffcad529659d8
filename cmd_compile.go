package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/subcommands"

	"oolangc/config"
)

// compileCmd implements the default "compile" subcommand: a directory-level
// fan-out over every source file (SPEC_FULL.md §5), each run through an
// independent single-threaded pipeline by a worker in a
// runtime.GOMAXPROCS(0)-sized pool. Nothing but the read-only toolchain
// (lexical rules, keywords, grammar, parse table) is shared across workers.
type compileCmd struct {
	output     string
	tokens     string
	keywords   string
	grammar    string
	configPath string
}

func (*compileCmd) Name() string     { return "compile" }
func (*compileCmd) Synopsis() string { return "compile every source file in a directory" }
func (*compileCmd) Usage() string {
	return `compile [directory]:
  Compile every source file in directory (default test_sources), writing
  .outlextokens, .outlexerrors, .outderivation, .outast, .outsyntaxerrors,
  .outsymboltable, .outsemanticerrors, and .m files to --output.
`
}

func (c *compileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "output", config.DefaultOutputDir, "output directory")
	f.StringVar(&c.tokens, "tokens", config.DefaultTokens, "lexical rules file")
	f.StringVar(&c.keywords, "keywords", config.DefaultKeywords, "keywords file")
	f.StringVar(&c.grammar, "grammar", config.DefaultGrammar, "grammar file")
	f.StringVar(&c.configPath, "config", "", "compiler.toml path (optional)")
}

func (c *compileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	srcDir := config.DefaultSourceDir
	if f.NArg() > 0 {
		srcDir = f.Arg(0)
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return subcommands.ExitFailure
	}

	tc, err := loadToolchain(c.tokens, c.keywords, c.grammar, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return subcommands.ExitFailure
	}

	files, err := sourceFiles(srcDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "compile: no source files found under %s\n", srcDir)
		return subcommands.ExitFailure
	}

	if err := os.MkdirAll(c.output, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "compile: creating output directory: %v\n", err)
		return subcommands.ExitFailure
	}

	results := runWorkerPool(tc, files, c.output)

	anyFatal, anyErr := false, false
	for _, r := range results {
		if r.fatal != nil {
			anyFatal = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", r.path, r.fatal)
			continue
		}
		if r.hasErr {
			anyErr = true
		}
	}

	switch {
	case anyFatal:
		return subcommands.ExitFailure
	case anyErr:
		return subcommands.ExitFailure
	default:
		return subcommands.ExitSuccess
	}
}

// sourceFiles walks dir non-recursively for ".src" files, sorted for
// deterministic worker assignment.
func sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".src") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// runWorkerPool fans srcFiles out across runtime.GOMAXPROCS(0) workers, each
// calling compileFile independently. The toolchain is read-only and shared;
// every other piece of pipeline state (register pools, label counters) lives
// entirely inside a single compileFile call.
func runWorkerPool(tc *toolchain, srcFiles []string, outDir string) []compileResult {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(srcFiles) {
		workers = len(srcFiles)
	}

	jobs := make(chan string)
	results := make([]compileResult, len(srcFiles))

	var wg sync.WaitGroup
	var mu sync.Mutex
	pending := map[string]int{}
	for i, path := range srcFiles {
		pending[path] = i
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				res := compileFile(tc, path, outDir)
				mu.Lock()
				idx := pending[path]
				mu.Unlock()
				results[idx] = res
			}
		}()
	}

	for _, path := range srcFiles {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	return results
}
