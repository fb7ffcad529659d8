package lexer

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coregx/coregex"
)

// Rule is one compiled lexical rule: a regex "DFA" (SPEC_FULL.md §2B/§4.1),
// the token kind it produces, whether a match is itself an error token, and
// whether the rule wants backtrack semantics (reserved for rules whose
// longest match may need to give back trailing lookahead; unused by any
// rule in the default lexical-rules file, kept for file-format fidelity
// with original_source/lexical_analyzer/src/lexical_rule.rs).
type Rule struct {
	Kind         string
	Pattern      string
	Regex        *coregex.Regex
	IsErrorToken bool
	Backtrack    bool
}

// LoadRules reads a lexical-rules file. Paths ending in ".toml" use the
// structured [[rule]] alternative (SPEC_FULL.md §6.1); anything else uses
// the bespoke "@"-separated line format. Malformed lines are skipped and
// reported as warnings, not fatal errors.
func LoadRules(path string) ([]Rule, []string, error) {
	if strings.HasSuffix(path, ".toml") {
		return loadRulesTOML(path)
	}
	return loadRulesText(path)
}

func loadRulesText(path string) ([]Rule, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("lexer: opening lexical rules file: %w", err)
	}
	defer f.Close()

	var rules []Rule
	var warnings []string
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "@")
		if len(fields) != 4 {
			warnings = append(warnings, fmt.Sprintf("lexical rules line %d: expected 4 '@'-separated fields, got %d", lineNo, len(fields)))
			continue
		}
		pattern := strings.TrimSpace(fields[0])
		isErr, errOK := parseBool(strings.TrimSpace(fields[1]))
		backtrack, btOK := parseBool(strings.TrimSpace(fields[2]))
		kind := strings.TrimSpace(fields[3])
		if !errOK || !btOK || pattern == "" || kind == "" {
			warnings = append(warnings, fmt.Sprintf("lexical rules line %d: malformed rule, skipping", lineNo))
			continue
		}
		re, err := coregex.Compile(anchorAtStart(pattern))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("lexical rules line %d: invalid regex %q: %v", lineNo, pattern, err))
			continue
		}
		rules = append(rules, Rule{Kind: kind, Pattern: pattern, Regex: re, IsErrorToken: isErr, Backtrack: backtrack})
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, fmt.Errorf("lexer: reading lexical rules file: %w", err)
	}
	return rules, warnings, nil
}

type tomlRuleFile struct {
	Rule []struct {
		Regex        string `toml:"regex"`
		IsErrorToken bool   `toml:"is_error_token"`
		Backtrack    bool   `toml:"backtrack"`
		TokenKind    string `toml:"token_kind"`
	} `toml:"rule"`
}

func loadRulesTOML(path string) ([]Rule, []string, error) {
	var doc tomlRuleFile
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, nil, fmt.Errorf("lexer: decoding TOML lexical rules: %w", err)
	}
	var rules []Rule
	var warnings []string
	for i, r := range doc.Rule {
		re, err := coregex.Compile(anchorAtStart(r.Regex))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("lexical rules [[rule]] #%d: invalid regex %q: %v", i, r.Regex, err))
			continue
		}
		rules = append(rules, Rule{
			Kind:         r.TokenKind,
			Pattern:      r.Regex,
			Regex:        re,
			IsErrorToken: r.IsErrorToken,
			Backtrack:    r.Backtrack,
		})
	}
	return rules, warnings, nil
}

// LoadKeywords reads a keyword file: one keyword per line (blank lines and
// lines starting with '#' are skipped), or a TOML `keywords = [...]` array
// when the path ends in ".toml".
func LoadKeywords(path string) (map[string]struct{}, error) {
	if strings.HasSuffix(path, ".toml") {
		var doc struct {
			Keywords []string `toml:"keywords"`
		}
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return nil, fmt.Errorf("lexer: decoding TOML keywords: %w", err)
		}
		out := make(map[string]struct{}, len(doc.Keywords))
		for _, kw := range doc.Keywords {
			out[kw] = struct{}{}
		}
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexer: opening keyword file: %w", err)
	}
	defer f.Close()

	out := map[string]struct{}{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		kw := strings.TrimSpace(scanner.Text())
		if kw == "" || strings.HasPrefix(kw, "#") {
			continue
		}
		out[kw] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("lexer: reading keyword file: %w", err)
	}
	return out, nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}

// anchorAtStart wraps a pattern so FindIndex only ever reports a match
// starting at offset 0 of the window handed to it, which is what the
// scanner's "latest_match" selection (SPEC_FULL.md §4.1) needs: it queries
// each rule against the same window and compares match lengths, not
// match positions.
func anchorAtStart(pattern string) string {
	return "^(?:" + pattern + ")"
}
