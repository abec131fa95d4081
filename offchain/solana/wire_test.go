package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageMarshal_Golden(t *testing.T) {
	a, b, p := testKey(0xA1), testKey(0xB2), testKey(0xC3)
	bh := testKey(0x42)
	msg, err := CompileMessage(a, []Instruction{{
		ProgramID: p,
		Accounts:  []AccountMeta{Writable(a, true), Writable(b, false)},
		Data:      []byte{1, 2, 3},
	}}, Hash(bh))
	require.NoError(t, err)

	var want []byte
	want = append(want, 1, 0, 1, 3)
	want = append(want, a[:]...)
	want = append(want, b[:]...)
	want = append(want, p[:]...)
	want = append(want, bh[:]...)
	want = append(want, 1, 2, 2, 0, 1, 3, 1, 2, 3)

	got, err := msg.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), msg.SerializedSize())
	assert.Equal(t, 1+64+len(want), msg.TransactionSize())
}

func TestMessageMarshal_LongDataUsesTwoByteCount(t *testing.T) {
	payer, prog := testKey(1), testKey(2)
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(i)
	}
	msg, err := CompileMessage(payer, []Instruction{{ProgramID: prog, Data: data}}, Hash{})
	require.NoError(t, err)

	raw, err := msg.MarshalBinary()
	require.NoError(t, err)
	// header, key count, two keys, blockhash, ix count, program index,
	// account count, then the data length.
	off := 3 + 1 + 64 + 32 + 1 + 1 + 1
	assert.Equal(t, []byte{0xac, 0x02}, raw[off:off+2])
	assert.Equal(t, data, raw[off+2:])
}

func TestMessageMarshalInto_TooSmallWritesNothing(t *testing.T) {
	msg, err := CompileMessage(testKey(1), []Instruction{SystemTransfer(testKey(1), testKey(2), 10)}, Hash{})
	require.NoError(t, err)

	dst := make([]byte, msg.SerializedSize()-1)
	for i := range dst {
		dst[i] = 0xEE
	}
	n, err := msg.MarshalInto(dst)
	assert.ErrorIs(t, err, ErrTransactionTooLarge)
	assert.Zero(t, n)
	for i, v := range dst {
		if v != 0xEE {
			t.Fatalf("dst[%d]=%x, want untouched", i, v)
		}
	}
}

func TestMessageMarshal_RoundTrip(t *testing.T) {
	payer := testKey(1)
	var bh Hash
	for i := range bh {
		bh[i] = byte(i)
	}
	ixs := []Instruction{
		ComputeBudgetSetComputeUnitLimit(200_000),
		ComputeBudgetSetComputeUnitPrice(1_000),
		SystemTransfer(payer, testKey(2), 1_500_000_000),
		TokenTransfer(testKey(3), testKey(4), testKey(5), 42),
		Memo("round trip", payer, testKey(5)),
		{ProgramID: testKey(6), Data: make([]byte, 200)},
	}
	msg, err := CompileMessage(payer, ixs, bh)
	require.NoError(t, err)

	raw, err := msg.MarshalBinary()
	require.NoError(t, err)
	parsed, err := ParseLegacyMessage(raw)
	require.NoError(t, err)

	assert.Equal(t, msg.Header, parsed.Header)
	assert.Equal(t, msg.AccountKeys(), parsed.AccountKeys)
	assert.Equal(t, bh, parsed.RecentBlockhash)
	require.Len(t, parsed.Instructions, len(ixs))
	for i, ix := range msg.Instructions() {
		got := parsed.Instructions[i]
		assert.Equal(t, ix.ProgramIDIndex, got.ProgramIDIndex, "ix %d", i)
		assert.Equal(t, ixs[i].ProgramID, got.ProgramID, "ix %d", i)
		assert.Equal(t, []uint8(ix.Accounts), got.Accounts, "ix %d", i)
		assert.Equal(t, ix.Data, got.Data, "ix %d", i)
	}
}
