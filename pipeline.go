package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dekarrin/rosed"

	"oolangc/ast"
	"oolangc/check"
	"oolangc/config"
	"oolangc/diag"
	"oolangc/emit"
	"oolangc/grammar"
	"oolangc/lexer"
	"oolangc/parser"
	"oolangc/symtab"
	"oolangc/token"
)

// derivationWrapWidth is the terminal width .outderivation is wrapped to
// (SPEC_FULL.md §2A); no other output is wrapped.
const derivationWrapWidth = 100

// toolchain bundles the inputs every file in a compile run shares: the
// compiled lexical rules and keyword set, and the loaded grammar plus its
// parse table. Building these once per run (not once per file) is what
// makes the directory-level worker pool of SPEC_FULL.md §5 cheap to fan
// out over.
type toolchain struct {
	rules    []lexer.Rule
	keywords map[string]struct{}
	grammar  *grammar.Grammar
	table    *grammar.ParseTable
	cfg      config.Config
}

func loadToolchain(tokensPath, keywordsPath, grammarPath string, cfg config.Config) (*toolchain, error) {
	rules, warnings, err := lexer.LoadRules(tokensPath)
	if err != nil {
		return nil, fmt.Errorf("loading lexical rules: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	keywords, err := lexer.LoadKeywords(keywordsPath)
	if err != nil {
		return nil, fmt.Errorf("loading keywords: %w", err)
	}
	g, err := grammar.Load(grammarPath, cfg.FollowExpansionCap)
	if err != nil {
		return nil, fmt.Errorf("loading grammar: %w", err)
	}
	table, err := grammar.BuildParseTable(g)
	if err != nil {
		return nil, fmt.Errorf("building parse table: %w", err)
	}
	return &toolchain{rules: rules, keywords: keywords, grammar: g, table: table, cfg: cfg}, nil
}

// recordingSource wraps a *lexer.Scanner as a parser.TokenSource, recording
// every token the parser actually consumes so the full stream can be
// written to .outlextokens once parsing finishes, without scanning the
// file twice.
type recordingSource struct {
	sc     *lexer.Scanner
	tokens []token.Token
}

func (r *recordingSource) Peek() (token.Token, error) { return r.sc.Peek() }
func (r *recordingSource) Next() (token.Token, error) {
	tok, err := r.sc.Next()
	if err != nil {
		return tok, err
	}
	r.tokens = append(r.tokens, tok)
	return tok, nil
}

// compileResult summarizes one file's run for the directory-level driver's
// exit-status decision.
type compileResult struct {
	path    string
	hasErr  bool
	fatal   error
}

// compileFile runs the full scan -> parse -> build -> check -> emit
// pipeline (SPEC_FULL.md §4, strict phase order) over one source file,
// writing every §6.2 output file under outDir using the source's basename
// as the stem. Emission is gated on zero Syntactic/SemanticError
// diagnostics (§7).
func compileFile(tc *toolchain, srcPath, outDir string) compileResult {
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	outPath := func(ext string) string { return filepath.Join(outDir, stem+ext) }

	f, err := os.Open(srcPath)
	if err != nil {
		return compileResult{path: srcPath, fatal: fmt.Errorf("opening source file: %w", err)}
	}
	defer f.Close()

	sc, err := lexer.New(f, tc.rules, tc.keywords)
	if err != nil {
		return compileResult{path: srcPath, fatal: fmt.Errorf("initializing scanner: %w", err)}
	}
	src := &recordingSource{sc: sc}

	p := parser.New(tc.grammar, tc.table, src)
	root, err := p.Parse()
	if err != nil {
		return compileResult{path: srcPath, fatal: fmt.Errorf("fatal parse error: %w", err)}
	}

	writeLexTokens(outPath(".outlextokens"), src.tokens)
	writeLexErrors(outPath(".outlexerrors"), sc.Errors())
	writeDerivation(outPath(".outderivation"), p.Derivation())

	if tc.cfg.EmitASTGraph {
		writeFile(outPath(".outast"), ast.DotGraph(root))
	}

	syntaxDiags := p.Diagnostics()
	writeDiagnostics(outPath(".outsyntaxerrors"), syntaxDiags, false)

	global, buildDiags := symtab.Build(root)
	writeFile(outPath(".outsymboltable"), global.Render())

	checkDiags := check.Check(global)

	semanticDiags := append(append([]diag.Diagnostic{}, buildDiags...), checkDiags...)
	if tc.cfg.SortSemanticErrors {
		diag.SortByPosition(semanticDiags)
	}
	writeDiagnostics(outPath(".outsemanticerrors"), semanticDiags, true)

	hasErr := anyError(syntaxDiags) || anyError(semanticDiags)
	if !hasErr {
		data, code := emit.Emit(root, global)
		var b strings.Builder
		for _, l := range code {
			b.WriteString(l)
			b.WriteString("\n")
		}
		for _, l := range data {
			b.WriteString(l)
			b.WriteString("\n")
		}
		writeFile(outPath(".m"), b.String())
	}

	return compileResult{path: srcPath, hasErr: hasErr}
}

func anyError(ds []diag.Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

func writeFile(path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing %s: %v\n", path, err)
	}
}

func writeLexTokens(path string, tokens []token.Token) {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
		b.WriteString("\n")
	}
	writeFile(path, b.String())
}

func writeLexErrors(path string, errs []token.Token) {
	var b strings.Builder
	for _, e := range errs {
		fmt.Fprintf(&b, "Lexical error: %s %q: line %d col %d\n", e.Kind, e.Lexeme, e.Line, e.Col)
	}
	writeFile(path, b.String())
}

func writeDerivation(path string, derivation []string) {
	text := strings.Join(derivation, "\n")
	writeFile(path, rosed.Edit(text).Wrap(derivationWrapWidth).String())
}

func writeDiagnostics(path string, diags []diag.Diagnostic, semantic bool) {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	writeFile(path, b.String())
}
