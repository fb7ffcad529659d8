package symtab

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// frameWidth is the fixed outer-frame column budget for every rendered
// table, matching original_source/semantic_analyzer/src/symbol_table/
// symbol_table.rs's `impl fmt::Display` (`self.lines(83)`).
const frameWidth = 83

// nestIndent is the column indent applied to a nested table rendered
// beneath the table that owns it (SPEC_FULL.md §4.5A: "indented by 3 columns").
const nestIndent = 3

// Render renders t as a bordered rosed table titled "table: [scope::]name",
// one row per entry. Each Class/Function entry's own table is rendered
// recursively and indented; the nested tables follow the whole parent
// table, in entry order.
func (t *Table) Render() string {
	return strings.Join(t.lines(frameWidth), "\n")
}

func (t *Table) title() string {
	if t.Scope != "" {
		return fmt.Sprintf("table: %s::%s", t.Scope, t.Name)
	}
	return fmt.Sprintf("table: %s", t.Name)
}

func (t *Table) lines(width int) []string {
	data := [][]string{{t.title()}}
	for _, e := range t.Values {
		data = append(data, []string{e.String()})
	}

	opts := rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}
	body := rosed.Edit("").InsertTableOpts(0, data, width, opts).String()
	out := strings.Split(body, "\n")

	for _, e := range t.Values {
		nested := nestedTableOf(e)
		if nested == nil {
			continue
		}
		for _, l := range nested.lines(width - nestIndent) {
			out = append(out, strings.Repeat(" ", nestIndent)+l)
		}
	}
	return out
}

// nestedTableOf returns an entry's own symbol table, if it carries one.
func nestedTableOf(e Entry) *Table {
	switch v := e.(type) {
	case *Class:
		return v.Table
	case *Function:
		return v.Table
	default:
		return nil
	}
}
