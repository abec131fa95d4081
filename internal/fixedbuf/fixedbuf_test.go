package fixedbuf

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_WritesWithinCapacity(t *testing.T) {
	var backing [8]byte
	buf := New(backing[:])

	require.NoError(t, buf.WriteByte(1))
	n, err := buf.Write([]byte{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = buf.WriteString("ab")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []byte{1, 2, 3, 'a', 'b'}, buf.Bytes())
	assert.Equal(t, 5, buf.Len())
	assert.Equal(t, 3, buf.Available())
}

func TestBuffer_OverflowLeavesContentsUntouched(t *testing.T) {
	var backing [4]byte
	buf := New(backing[:])
	_, err := buf.Write([]byte{9, 9, 9})
	require.NoError(t, err)

	_, err = buf.Write([]byte{1, 2})
	assert.True(t, errors.Is(err, ErrOverflow))
	assert.Equal(t, []byte{9, 9, 9}, buf.Bytes())

	require.NoError(t, buf.WriteByte(7))
	assert.ErrorIs(t, buf.WriteByte(8), ErrOverflow)
	_, err = buf.WriteString("x")
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, []byte{9, 9, 9, 7}, buf.Bytes())
}

func TestBuffer_Extend(t *testing.T) {
	var backing [6]byte
	buf := New(backing[:])
	require.NoError(t, buf.WriteByte('v'))

	region, err := buf.Extend(4)
	require.NoError(t, err)
	copy(region, "wxyz")
	assert.Equal(t, "vwxyz", string(buf.Bytes()))
	assert.Equal(t, 1, buf.Available())

	_, err = buf.Extend(2)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = buf.Extend(-1)
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, 5, buf.Len())
}
