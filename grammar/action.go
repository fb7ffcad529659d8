package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseActionOp parses the inner text of a grammar file's @...@ token into
// an ActionOp. Accepted spellings (case-sensitive). The makenode/makesibling
// /rename spellings follow
// original_source/syntactic_analyzer/src/semantic_action.rs directly; that
// draft's MakeFamily carries only a count, but SPEC_FULL.md §3.3 specifies
// MakeFamily(kind, n) with an explicit result kind, so this grammar-file
// convention (our own artifact, not the original's) spells it with both:
//
//	makenode~KIND
//	makenode~KIND~list
//	makefamily~KIND~N
//	makesibling
//	rename
//	makeepsilon~KIND
//
// makeepsilon is this grammar file convention's own addition, not present
// in the original draft: several optional AST fields (SPEC_FULL.md §3.2's
// "Epsilon if absent" fields on ifStat/funcDef/varDecl/returnStat) need a
// genuine Epsilon-payload placeholder node when the optional production
// is empty, which none of makenode's payload-from-previous-token branches
// can produce.
func ParseActionOp(inner string) (ActionOp, error) {
	parts := strings.Split(inner, "~")
	switch parts[0] {
	case "makenode":
		if len(parts) < 2 {
			return ActionOp{}, fmt.Errorf("grammar: makenode action requires a kind: %q", inner)
		}
		list := len(parts) == 3 && parts[2] == "list"
		return ActionOp{Op: "makenode", Kind: parts[1], List: list}, nil
	case "makefamily":
		if len(parts) != 3 {
			return ActionOp{}, fmt.Errorf("grammar: makefamily action requires a kind and a count: %q", inner)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return ActionOp{}, fmt.Errorf("grammar: makefamily count %q is not an integer: %w", parts[2], err)
		}
		return ActionOp{Op: "makefamily", Kind: parts[1], N: n}, nil
	case "makesibling":
		return ActionOp{Op: "makesibling"}, nil
	case "rename":
		return ActionOp{Op: "rename"}, nil
	case "makeepsilon":
		if len(parts) != 2 {
			return ActionOp{}, fmt.Errorf("grammar: makeepsilon action requires a kind: %q", inner)
		}
		return ActionOp{Op: "makeepsilon", Kind: parts[1]}, nil
	default:
		return ActionOp{}, fmt.Errorf("grammar: unrecognized semantic action %q", inner)
	}
}
