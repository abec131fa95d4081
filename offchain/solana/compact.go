package solana

import (
	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/internal/fixedbuf"
)

// Compact counts are the network's short-vec length prefix. Every count in a
// legacy transaction is bounded by the packet size, so two bytes always
// suffice and larger values are rejected.
const maxCompactLen = 1<<14 - 1

func compactLenSize(n int) int {
	if n < 0x80 {
		return 1
	}
	return 2
}

func putCompactLen(buf *fixedbuf.Buffer, n int) error {
	if n < 0 || n > maxCompactLen {
		return errors.Wrapf(ErrInvalid, "compact length %d out of range", n)
	}
	if n < 0x80 {
		return buf.WriteByte(byte(n))
	}
	_, err := buf.Write([]byte{byte(n&0x7f) | 0x80, byte(n >> 7)})
	return err
}

func decodeCompactLenAt(b []byte, off int) (int, int, error) {
	if off < 0 || off >= len(b) {
		return 0, off, errors.Wrap(ErrInvalid, "compact length: out of bounds")
	}
	lo := b[off]
	if lo&0x80 == 0 {
		return int(lo), off + 1, nil
	}
	if off+1 >= len(b) {
		return 0, off, errors.Wrap(ErrInvalid, "compact length: truncated")
	}
	hi := b[off+1]
	if hi&0x80 != 0 {
		return 0, off, errors.Wrap(ErrInvalid, "compact length: too long")
	}
	if hi == 0 {
		return 0, off, errors.Wrap(ErrInvalid, "compact length: non-canonical")
	}
	return int(lo&0x7f) | int(hi)<<7, off + 2, nil
}
