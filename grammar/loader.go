package grammar

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads a grammar file (SPEC_FULL.md §6.1): one production per
// non-blank line, `<LHS> ::= RHS`; lines starting with '#' are skipped. Paths ending in ".toml" use the
// structured [[production]] alternative instead (SPEC_FULL.md §2B).
func Load(path string, maxFollowExpansions int) (*Grammar, error) {
	var productions map[string][]Sentence
	var order []string
	var start string
	var err error

	if strings.HasSuffix(path, ".toml") {
		productions, order, start, err = loadTOML(path)
	} else {
		productions, order, start, err = loadText(path)
	}
	if err != nil {
		return nil, err
	}
	return New(start, productions, order, maxFollowExpansions)
}

func loadText(path string) (map[string][]Sentence, []string, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("grammar: opening grammar file: %w", err)
	}
	defer f.Close()

	productions := map[string][]Sentence{}
	var order []string
	start := ""

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lhs, rhs, ok := strings.Cut(line, "::=")
		if !ok {
			return nil, nil, "", fmt.Errorf("grammar: line %d: missing '::=': %q", lineNo, line)
		}
		lhsName, err := parseLHS(strings.TrimSpace(lhs))
		if err != nil {
			return nil, nil, "", fmt.Errorf("grammar: line %d: %w", lineNo, err)
		}
		sentence, err := parseRHS(strings.TrimSpace(rhs))
		if err != nil {
			return nil, nil, "", fmt.Errorf("grammar: line %d: %w", lineNo, err)
		}
		if _, seen := productions[lhsName]; !seen {
			order = append(order, lhsName)
			if start == "" {
				start = lhsName
			}
		}
		productions[lhsName] = append(productions[lhsName], sentence)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, "", fmt.Errorf("grammar: reading grammar file: %w", err)
	}
	if start == "" {
		return nil, nil, "", fmt.Errorf("grammar: file contains no productions")
	}
	return productions, order, start, nil
}

type tomlGrammarFile struct {
	Production []struct {
		LHS string `toml:"lhs"`
		RHS string `toml:"rhs"`
	} `toml:"production"`
}

func loadTOML(path string) (map[string][]Sentence, []string, string, error) {
	var doc tomlGrammarFile
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, nil, "", fmt.Errorf("grammar: decoding TOML grammar: %w", err)
	}
	productions := map[string][]Sentence{}
	var order []string
	start := ""
	for i, p := range doc.Production {
		sentence, err := parseRHS(p.RHS)
		if err != nil {
			return nil, nil, "", fmt.Errorf("grammar: [[production]] #%d: %w", i, err)
		}
		if _, seen := productions[p.LHS]; !seen {
			order = append(order, p.LHS)
			if start == "" {
				start = p.LHS
			}
		}
		productions[p.LHS] = append(productions[p.LHS], sentence)
	}
	if start == "" {
		return nil, nil, "", fmt.Errorf("grammar: TOML file contains no productions")
	}
	return productions, order, start, nil
}

func parseLHS(field string) (string, error) {
	if !strings.HasPrefix(field, "<") || !strings.HasSuffix(field, ">") || len(field) < 3 {
		return "", fmt.Errorf("left-hand side %q must be of the form <Name>", field)
	}
	return field[1 : len(field)-1], nil
}

func parseRHS(rhs string) (Sentence, error) {
	fields := strings.Fields(rhs)
	if len(fields) == 0 {
		return nil, fmt.Errorf("right-hand side is empty; use EPSILON explicitly")
	}
	sentence := make(Sentence, 0, len(fields))
	for _, field := range fields {
		sym, err := parseSymbol(field)
		if err != nil {
			return nil, err
		}
		sentence = append(sentence, sym)
	}
	return sentence, nil
}

func parseSymbol(field string) (Symbol, error) {
	switch {
	case field == "EPSILON":
		return NewEpsilon(), nil
	case strings.HasPrefix(field, "<") && strings.HasSuffix(field, ">") && len(field) >= 3:
		return NewNonTerminal(field[1 : len(field)-1]), nil
	case strings.HasPrefix(field, "'") && strings.HasSuffix(field, "'") && len(field) >= 2:
		return NewTerminal(field[1 : len(field)-1]), nil
	case strings.HasPrefix(field, "@") && strings.HasSuffix(field, "@") && len(field) >= 2:
		op, err := ParseActionOp(field[1 : len(field)-1])
		if err != nil {
			return Symbol{}, err
		}
		return NewAction(op), nil
	default:
		return Symbol{}, fmt.Errorf("unrecognized grammar symbol %q", field)
	}
}
