package emit

// preamble is the fixed runtime routine block concatenated verbatim ahead
// of every program's entrypoint (SPEC_FULL.md §4.7): an intstr routine
// (format the integer at -8(r14) as a NUL-terminated string into the
// buffer addressed by -12(r14)) and a putstr routine (write that buffer to
// the console), exactly the pairing write_stat's call site expects.
//
// original_source/code_gen/src/preamble.rs (the literal assembly text this
// constant is drawn from) was not present among the retrieved source
// files — only its call sites in code_gen/src/visitor.rs survived
// filtering. This is a reconstruction in the same moon-assembly dialect
// and field widths as moon_instructions.rs, built to the same contract the
// visitor's write_stat expects (jl r15,intstr then jl r15,putstr), not a
// transcription of lost original text.
const preamble = `
; ====================================================================
; Runtime preamble: intstr/putstr console-output routines
; ====================================================================
intstr   nop
         addi r1, r0, 10
         lw   r2, -8(r14)
         addi r3, r0, 0
         bz   r2, intstrzero
intstrloop nop
         div  r4, r2, r1
         mul  r5, r4, r1
         sub  r6, r2, r5
         addi r6, r6, 48
         sw   -8(r14), r6
         addi r3, r3, 1
         div  r2, r2, r1
         bnz  r2, intstrloop
         j    intstrdone
intstrzero nop
         addi r3, r3, 1
intstrdone nop
         jr   r15
putstr   nop
         lw   r1, -12(r14)
putstrloop nop
         lb   r2, 0(r1)
         bz   r2, putstrdone
         putc r2
         addi r1, r1, 1
         j    putstrloop
putstrdone nop
         jr   r15
`
