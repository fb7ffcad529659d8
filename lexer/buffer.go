package lexer

import "io"

// BufferSize is the fixed capacity of each of the two alternating buffers,
// per SPEC_FULL.md §4.1. A lexeme longer than this is a LexemeTooLong error.
const BufferSize = 4096

// doubleBuffer holds two fixed-size buffers that are filled alternately from
// a source reader, giving the scanner a cursor that can look ahead up to one
// full buffer without re-reading the source.
//
// Grounded on original_source/lexical_analyzer/src/double_buffer.rs's
// DoubleFixedBuffer/DoubleFixedBufferCursor design; the byte-by-byte DFA walk
// described there is approximated here by handing coregex a contiguous
// window (see Window) rather than feeding one byte at a time to a
// hand-rolled automaton (see DESIGN.md, package lexer).
type doubleBuffer struct {
	r    io.Reader
	bufs [2][]byte
	size [2]int
	cur  int
	pos  int
	err  error
}

func newDoubleBuffer(r io.Reader) (*doubleBuffer, error) {
	db := &doubleBuffer{
		r:    r,
		bufs: [2][]byte{make([]byte, BufferSize), make([]byte, BufferSize)},
	}
	if err := db.fill(0); err != nil {
		return nil, err
	}
	return db, nil
}

// fill performs a bounded read into bufs[idx]. A short read (including zero
// bytes) marks end-of-input for that buffer, which is not itself an error;
// only a genuine I/O failure is fatal, per SPEC_FULL.md §4.1.
func (db *doubleBuffer) fill(idx int) error {
	n, err := io.ReadFull(db.r, db.bufs[idx])
	db.size[idx] = n
	if err == io.ErrUnexpectedEOF || err == io.EOF || err == nil {
		return nil
	}
	db.err = err
	return err
}

// Window returns up to maxLen bytes starting at the cursor, stitching the
// tail of the active buffer to the head of the other buffer when the
// window crosses the boundary, loading the other buffer on demand.
func (db *doubleBuffer) Window(maxLen int) []byte {
	avail := db.size[db.cur] - db.pos
	if avail <= 0 {
		return nil
	}
	if avail >= maxLen || db.size[db.cur] < BufferSize {
		end := db.pos + maxLen
		if end > db.size[db.cur] {
			end = db.size[db.cur]
		}
		return db.bufs[db.cur][db.pos:end]
	}
	other := 1 - db.cur
	if db.size[db.cur] == BufferSize {
		_ = db.fill(other)
	}
	window := make([]byte, 0, maxLen)
	window = append(window, db.bufs[db.cur][db.pos:db.size[db.cur]]...)
	remaining := maxLen - len(window)
	if remaining > db.size[other] {
		remaining = db.size[other]
	}
	window = append(window, db.bufs[other][:remaining]...)
	return window
}

// Advance moves the cursor forward n bytes, flipping the active buffer and
// refilling the one that fell behind whenever the cursor crosses the
// buffer boundary.
func (db *doubleBuffer) Advance(n int) {
	for n > 0 {
		remaining := db.size[db.cur] - db.pos
		if n <= remaining {
			db.pos += n
			return
		}
		n -= remaining
		other := 1 - db.cur
		if db.size[other] == 0 && db.size[db.cur] == BufferSize {
			_ = db.fill(other)
		}
		db.cur = other
		db.pos = 0
	}
}

// AtEOF reports whether the cursor has consumed every byte of input.
func (db *doubleBuffer) AtEOF() bool {
	return db.size[db.cur]-db.pos <= 0 && db.size[db.cur] < BufferSize
}

// Err returns the first fatal read error encountered, if any.
func (db *doubleBuffer) Err() error {
	return db.err
}
