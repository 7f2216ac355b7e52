package strbuf

import (
	"errors"

	"github.com/memkit/memkit/mem"
)

// ErrOverflow indicates an operation that would grow a string past its
// fixed storage.
var ErrOverflow = errors.New("strbuf: fixed buffer full")

// A Buffer is the byte-string capability the dynamic and fixed strings
// share.
type Buffer interface {
	Set(s string) error
	Append(s string) error
	Bytes() []byte
	Len() int
}

var (
	_ Buffer = (*String)(nil)
	_ Buffer = (*Fixed)(nil)
)

// Compare orders byte strings by length first and by the first differing
// byte only between equal lengths, so "b" sorts before "aa". The result is
// negative, zero, or positive in the usual way.
func Compare(a, b []byte) int {
	if d := len(a) - len(b); d != 0 {
		return d
	}
	for i := range a {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return 0
}

// String is a growable byte string whose storage comes from an allocator.
// The zero value is an empty string over mem.Default; NewString binds a
// different allocator.
type String struct {
	alloc mem.Allocator
	buf   []byte
	n     int
}

// NewString returns an empty string drawing storage from al, or from
// mem.Default when al is nil.
func NewString(al mem.Allocator) *String {
	if al == nil {
		al = mem.Default
	}
	return &String{alloc: al}
}

// Set replaces the content with s.
func (st *String) Set(s string) error {
	if err := st.ensure(len(s)); err != nil {
		return err
	}
	copy(st.buf, s)
	st.n = len(s)
	return nil
}

// Append adds s to the end.
func (st *String) Append(s string) error {
	if err := st.ensure(st.n + len(s)); err != nil {
		return err
	}
	copy(st.buf[st.n:], s)
	st.n += len(s)
	return nil
}

// Bytes returns a view of the live content. The view is invalidated by the
// next Set, Append, or Release.
func (st *String) Bytes() []byte {
	if st.buf == nil {
		return nil
	}
	return st.buf[:st.n]
}

// String returns a copy of the content.
func (st *String) String() string {
	return string(st.Bytes())
}

// Len returns the live length in bytes.
func (st *String) Len() int {
	return st.n
}

// At returns the byte at index i, with ok false when i is out of range.
func (st *String) At(i int) (byte, bool) {
	if i < 0 || i >= st.n {
		return 0, false
	}
	return st.buf[i], true
}

// Compare orders the string against b with the package's length-first
// order.
func (st *String) Compare(b []byte) int {
	return Compare(st.Bytes(), b)
}

// Reset empties the string without releasing its storage.
func (st *String) Reset() {
	st.n = 0
}

// Release returns the storage to the allocator and empties the string. The
// string stays usable; the next Set or Append allocates again.
func (st *String) Release() {
	if st.buf != nil {
		st.allocator().Free(st.buf)
		st.buf = nil
	}
	st.n = 0
}

// ensure grows the storage to hold at least need bytes, doubling to keep
// append runs amortized. The old storage goes back to the allocator after
// the content moved.
func (st *String) ensure(need int) error {
	if need <= len(st.buf) {
		return nil
	}
	newCap := 2 * len(st.buf)
	if newCap < need {
		newCap = need
	}
	grown, err := st.allocator().Allocate(newCap, nil)
	if err != nil {
		return err
	}
	copy(grown, st.buf[:st.n])
	if st.buf != nil {
		st.allocator().Free(st.buf)
	}
	st.buf = grown
	return nil
}

func (st *String) allocator() mem.Allocator {
	if st.alloc == nil {
		return mem.Default
	}
	return st.alloc
}

// Fixed is a byte string over a caller-supplied buffer. It never allocates
// and never grows: operations that would exceed the buffer fail with
// ErrOverflow and leave the content unchanged.
type Fixed struct {
	buf []byte
	n   int
}

// NewFixed wraps buf as empty string storage. The caller keeps ownership
// of buf; a buffer placed in arena or mapped memory works as well as a
// stack array.
func NewFixed(buf []byte) *Fixed {
	return &Fixed{buf: buf}
}

// Set replaces the content with s.
func (f *Fixed) Set(s string) error {
	if len(s) > len(f.buf) {
		return ErrOverflow
	}
	copy(f.buf, s)
	f.n = len(s)
	return nil
}

// Append adds s to the end.
func (f *Fixed) Append(s string) error {
	if f.n+len(s) > len(f.buf) {
		return ErrOverflow
	}
	copy(f.buf[f.n:], s)
	f.n += len(s)
	return nil
}

// Bytes returns a view of the live content.
func (f *Fixed) Bytes() []byte {
	if f.buf == nil {
		return nil
	}
	return f.buf[:f.n]
}

// String returns a copy of the content.
func (f *Fixed) String() string {
	return string(f.Bytes())
}

// Len returns the live length in bytes.
func (f *Fixed) Len() int {
	return f.n
}

// Cap returns the fixed capacity.
func (f *Fixed) Cap() int {
	return len(f.buf)
}

// At returns the byte at index i, with ok false when i is out of range.
func (f *Fixed) At(i int) (byte, bool) {
	if i < 0 || i >= f.n {
		return 0, false
	}
	return f.buf[i], true
}

// Compare orders the string against b with the package's length-first
// order.
func (f *Fixed) Compare(b []byte) int {
	return Compare(f.Bytes(), b)
}

// Reset empties the string.
func (f *Fixed) Reset() {
	f.n = 0
}
