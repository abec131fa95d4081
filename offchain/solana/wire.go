package solana

import (
	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/internal/fixedbuf"
)

// SerializedSize is the number of bytes MarshalInto writes.
func (m *Message) SerializedSize() int {
	n := 3 + compactLenSize(m.nkeys) + m.nkeys*PubkeySize + HashSize + compactLenSize(m.nixs)
	for _, ix := range m.Instructions() {
		n += 1 + compactLenSize(len(ix.Accounts)) + len(ix.Accounts)
		n += compactLenSize(len(ix.Data)) + len(ix.Data)
	}
	return n
}

// TransactionSize is the size of the fully signed transaction carrying m.
func (m *Message) TransactionSize() int {
	sigs := int(m.Header.NumRequiredSignatures)
	return compactLenSize(sigs) + sigs*SignatureSize + m.SerializedSize()
}

// MarshalInto writes the wire form of m to the start of dst and returns the
// number of bytes written. If dst is too small nothing is written.
func (m *Message) MarshalInto(dst []byte) (int, error) {
	if size := m.SerializedSize(); size > len(dst) {
		return 0, errors.Wrapf(ErrTransactionTooLarge, "message needs %d bytes, buffer has %d", size, len(dst))
	}
	buf := fixedbuf.New(dst)
	if err := m.writeTo(&buf); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

// MarshalBinary returns the wire form of m in a new slice.
func (m *Message) MarshalBinary() ([]byte, error) {
	out := make([]byte, m.SerializedSize())
	n, err := m.MarshalInto(out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

func (m *Message) writeTo(buf *fixedbuf.Buffer) error {
	h := m.Header
	if _, err := buf.Write([]byte{h.NumRequiredSignatures, h.NumReadonlySignedAccounts, h.NumReadonlyUnsignedAccounts}); err != nil {
		return wireError(err)
	}
	if err := putCompactLen(buf, m.nkeys); err != nil {
		return wireError(err)
	}
	for i := 0; i < m.nkeys; i++ {
		if _, err := buf.Write(m.keys[i][:]); err != nil {
			return wireError(err)
		}
	}
	if _, err := buf.Write(m.RecentBlockhash[:]); err != nil {
		return wireError(err)
	}

	if err := putCompactLen(buf, m.nixs); err != nil {
		return wireError(err)
	}
	for _, ix := range m.Instructions() {
		if err := buf.WriteByte(ix.ProgramIDIndex); err != nil {
			return wireError(err)
		}
		if err := putCompactLen(buf, len(ix.Accounts)); err != nil {
			return wireError(err)
		}
		if _, err := buf.Write(ix.Accounts); err != nil {
			return wireError(err)
		}
		if err := putCompactLen(buf, len(ix.Data)); err != nil {
			return wireError(err)
		}
		if _, err := buf.Write(ix.Data); err != nil {
			return wireError(err)
		}
	}
	return nil
}

// wireError maps buffer exhaustion onto the capacity class.
func wireError(err error) error {
	if errors.Is(err, fixedbuf.ErrOverflow) {
		return withCause(ErrTransactionTooLarge, err)
	}
	return err
}
