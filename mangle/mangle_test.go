package mangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionMangling(t *testing.T) {
	assert.Equal(t, "_f_integer", Function("", "f", []string{"integer"}))
	assert.Equal(t, "_Shape_area", Function("Shape", "area", nil))
	assert.Equal(t, "_Shape_scale_integer_float", Function("Shape", "scale", []string{"integer", "float"}))
}

func TestIDMangling(t *testing.T) {
	fn := Function("", "f", []string{"integer"})
	assert.Equal(t, "__f_integer_x", ID(fn, "x"))
}

func TestLandmarks(t *testing.T) {
	fn := Function("", "main", nil)
	assert.Equal(t, "_main_ret", FunctionReturn(fn))
	assert.Equal(t, "_main_exit", FunctionExit(fn))
	assert.Equal(t, "_main_p0", FunctionParameter(fn, 0))
}
