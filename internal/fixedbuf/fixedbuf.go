// Package fixedbuf provides an append-only byte buffer over caller-owned
// memory that never reallocates.
package fixedbuf

import "github.com/pkg/errors"

var ErrOverflow = errors.New("fixed buffer overflow")

// Buffer appends into a fixed backing array. Every write either fits
// entirely or fails with ErrOverflow and leaves the buffer unchanged.
type Buffer struct {
	b []byte
}

func New(backing []byte) Buffer {
	return Buffer{b: backing[:0]}
}

func (w *Buffer) Len() int       { return len(w.b) }
func (w *Buffer) Available() int { return cap(w.b) - len(w.b) }
func (w *Buffer) Bytes() []byte  { return w.b }

func (w *Buffer) WriteByte(c byte) error {
	if w.Available() < 1 {
		return ErrOverflow
	}
	w.b = append(w.b, c)
	return nil
}

func (w *Buffer) Write(p []byte) (int, error) {
	if w.Available() < len(p) {
		return 0, ErrOverflow
	}
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *Buffer) WriteString(s string) (int, error) {
	if w.Available() < len(s) {
		return 0, ErrOverflow
	}
	w.b = append(w.b, s...)
	return len(s), nil
}

// Extend grows the buffer by n bytes and returns the new region for the
// caller to fill in place.
func (w *Buffer) Extend(n int) ([]byte, error) {
	if n < 0 || w.Available() < n {
		return nil, ErrOverflow
	}
	start := len(w.b)
	w.b = w.b[:start+n]
	return w.b[start : start+n], nil
}
