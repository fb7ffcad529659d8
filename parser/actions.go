package parser

import (
	"fmt"
	"strconv"

	"oolangc/ast"
	"oolangc/grammar"
	"oolangc/token"
)

// execute runs one semantic action against the semantic stack, using
// previous as the most recently consumed terminal (SPEC_FULL.md §4.3).
func execute(stack *[]*ast.Node, op grammar.ActionOp, previous token.Token) error {
	switch op.Op {
	case "makenode":
		return execMakeNode(stack, op, previous)
	case "makefamily":
		return execMakeFamily(stack, op)
	case "makesibling":
		return execMakeSibling(stack)
	case "rename":
		return execRename(stack, previous)
	case "makeepsilon":
		*stack = append(*stack, ast.NewLeaf(op.Kind, ast.EpsilonPayload(), previous.Line, previous.Col))
		return nil
	default:
		return fmt.Errorf("parser: unknown semantic action %q", op.Op)
	}
}

func execMakeNode(stack *[]*ast.Node, op grammar.ActionOp, previous token.Token) error {
	if op.List {
		*stack = append(*stack, ast.NewList(op.Kind, nil, previous.Line, previous.Col))
		return nil
	}

	var payload ast.Payload
	switch previous.Kind {
	case "intLit":
		v, err := strconv.ParseInt(previous.Lexeme, 10, 64)
		if err != nil {
			return fmt.Errorf("parser: makenode~%s: %q is not a valid integer literal: %w", op.Kind, previous.Lexeme, err)
		}
		payload = ast.IntegerPayload(v)
	case "floatLit":
		v, err := strconv.ParseFloat(previous.Lexeme, 64)
		if err != nil {
			return fmt.Errorf("parser: makenode~%s: %q is not a valid float literal: %w", op.Kind, previous.Lexeme, err)
		}
		payload = ast.FloatPayload(v)
	default:
		payload = ast.StringPayload(previous.Lexeme)
	}
	*stack = append(*stack, ast.NewLeaf(op.Kind, payload, previous.Line, previous.Col))
	return nil
}

func execMakeFamily(stack *[]*ast.Node, op grammar.ActionOp) error {
	if len(*stack) < op.N {
		return fmt.Errorf("parser: makefamily~%s~%d: semantic stack has only %d nodes", op.Kind, op.N, len(*stack))
	}
	start := len(*stack) - op.N
	children := append([]*ast.Node{}, (*stack)[start:]...)
	*stack = (*stack)[:start]

	line, col := 0, 0
	if len(children) > 0 {
		line, col = children[0].Line, children[0].Col
	}
	*stack = append(*stack, ast.NewList(op.Kind, children, line, col))
	return nil
}

func execMakeSibling(stack *[]*ast.Node) error {
	if len(*stack) < 2 {
		return fmt.Errorf("parser: makesibling: semantic stack has only %d nodes", len(*stack))
	}
	sibling := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]
	list := (*stack)[len(*stack)-1]
	if list.Payload.Kind != ast.Children {
		return fmt.Errorf("parser: makesibling: top-of-stack node %q is not a list node", list.Kind)
	}
	list.Append(sibling)
	return nil
}

func execRename(stack *[]*ast.Node, previous token.Token) error {
	if len(*stack) == 0 {
		return fmt.Errorf("parser: rename: semantic stack is empty")
	}
	(*stack)[len(*stack)-1].Kind = previous.Kind
	return nil
}
