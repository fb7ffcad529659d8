// Package emit implements the single-pass code emitter of SPEC_FULL.md
// §4.7: a syntax-directed walk over the type-annotated AST that produces
// target-VM assembly text, split into a data segment and a code segment.
//
// Grounded on original_source/code_gen/src/{register,moon_instructions,
// visitor,macros}.rs — the real (if partially sketched) code generator this
// module's spec distills. The emitter performs no type-checking of its own
// (§4.7: "the emitter does NOT re-check types; it assumes the AST has been
// fully annotated"); every error here is a programming error in an earlier
// pass and is reported with a panic, matching the Rust original's own
// liberal use of `panic!()` at "this should already have been validated"
// points.
package emit

import "fmt"

// maxRegister mirrors original_source/code_gen/src/register.rs's
// RegisterPool::MAX: registers r1..r12 are available for rental (the pool
// panics before handing out a 13th).
const maxRegister = 12

// Reserved, non-pooled registers (SPEC_FULL.md §3.7/§4.7).
const (
	R0  = "r0"
	R13 = "r13" // comparison/call-result register
	R14 = "r14" // stack pointer
	R15 = "r15" // return address
)

// RegisterPool hands out r1, r2, ... LIFO, exactly as
// original_source/code_gen/src/register.rs's RegisterPool.
type RegisterPool struct {
	next int
}

// NewRegisterPool returns a pool with every register available.
func NewRegisterPool() *RegisterPool { return &RegisterPool{next: 1} }

// RegisterRental is the receipt Reserve hands back; Release must be given
// the same rental it came from.
type RegisterRental struct{ n int }

// Reserve earmarks n registers for later Pop calls and returns a rental to
// hand to Release once they're no longer needed.
func (p *RegisterPool) Reserve(n int) RegisterRental { return RegisterRental{n: n} }

// Release returns every register a rental reserved, regardless of how many
// were actually popped — matching the original's release-by-count rather
// than release-by-handle.
func (p *RegisterPool) Release(r RegisterRental) {
	for i := 0; i < r.n; i++ {
		p.push()
	}
}

// Pop hands out the next available register name. Panics if every pooled
// register is already rented — a programming error in the emitter, per
// §4.7's failure policy.
func (p *RegisterPool) Pop() string {
	if p.next > maxRegister {
		panic("emit: requesting more registers than available")
	}
	r := p.next
	p.next++
	return fmt.Sprintf("r%d", r)
}

func (p *RegisterPool) push() {
	if p.next == 1 {
		panic("emit: returning more registers than available")
	}
	p.next--
}
