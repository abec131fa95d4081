package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdullah1738/solana-esp-go/internal/fixedbuf"
)

func TestPutCompactLen_Golden(t *testing.T) {
	tests := []struct {
		n    int
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{129, []byte{0x81, 0x01}},
		{300, []byte{0xac, 0x02}},
		{1232, []byte{0xd0, 0x09}},
		{16383, []byte{0xff, 0x7f}},
	}

	for _, tt := range tests {
		var backing [2]byte
		buf := fixedbuf.New(backing[:])
		if err := putCompactLen(&buf, tt.n); err != nil {
			t.Fatalf("putCompactLen(%d): %v", tt.n, err)
		}
		if string(buf.Bytes()) != string(tt.want) {
			t.Fatalf("putCompactLen(%d) = %x, want %x", tt.n, buf.Bytes(), tt.want)
		}
		if compactLenSize(tt.n) != len(tt.want) {
			t.Fatalf("compactLenSize(%d) = %d, want %d", tt.n, compactLenSize(tt.n), len(tt.want))
		}

		got, next, err := decodeCompactLenAt(tt.want, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.n, got)
		assert.Equal(t, len(tt.want), next)
	}
}

func TestPutCompactLen_OutOfRange(t *testing.T) {
	var backing [4]byte
	buf := fixedbuf.New(backing[:])
	assert.ErrorIs(t, putCompactLen(&buf, 16384), ErrInvalid)
	assert.ErrorIs(t, putCompactLen(&buf, -1), ErrInvalid)
	assert.Zero(t, buf.Len())
}

func TestPutCompactLen_Overflow(t *testing.T) {
	var backing [1]byte
	buf := fixedbuf.New(backing[:])
	assert.ErrorIs(t, putCompactLen(&buf, 200), fixedbuf.ErrOverflow)
	assert.Zero(t, buf.Len())
}

func TestDecodeCompactLenAt_Malformed(t *testing.T) {
	for name, in := range map[string][]byte{
		"empty":         {},
		"truncated":     {0x80},
		"three bytes":   {0x80, 0x80, 0x01},
		"non-canonical": {0x85, 0x00},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := decodeCompactLenAt(in, 0)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
