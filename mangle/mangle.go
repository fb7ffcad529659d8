// Package mangle implements the single name-mangling rule of SPEC_FULL.md
// §4.6, exposed as named helpers rather than ad hoc string concatenation at
// each call site. Grounded on
// original_source/semantic_analyzer/src/mangling.rs.
package mangle

import (
	"strconv"
	"strings"
)

// Function mangles a function's own label: "_" + [class "_"]? + id +
// ("_" + param-type)*.
func Function(class, id string, paramTypes []string) string {
	var b strings.Builder
	b.WriteString("_")
	if class != "" {
		b.WriteString(class)
		b.WriteString("_")
	}
	b.WriteString(id)
	for _, pt := range paramTypes {
		b.WriteString("_")
		b.WriteString(pt)
	}
	return b.String()
}

// ID mangles a local/param/temp identifier scoped to a function:
// "_" + function-mangle + "_" + id.
func ID(functionMangle, id string) string {
	return "_" + functionMangle + "_" + id
}

// FunctionReturn is the per-function return-value landmark:
// function-mangle + "_ret".
func FunctionReturn(functionMangle string) string {
	return functionMangle + "_ret"
}

// FunctionExit is the per-function exit-label landmark:
// function-mangle + "_exit".
func FunctionExit(functionMangle string) string {
	return functionMangle + "_exit"
}

// FunctionParameter is the per-parameter landmark:
// function-mangle + "_p" + index.
func FunctionParameter(functionMangle string, index int) string {
	return functionMangle + "_" + paramSuffix(index)
}

func paramSuffix(index int) string {
	return "p" + strconv.Itoa(index)
}
