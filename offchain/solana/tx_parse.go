package solana

import (
	"github.com/pkg/errors"
)

type ParsedInstruction struct {
	ProgramIDIndex uint8
	ProgramID      Pubkey
	Accounts       []uint8
	Data           []byte
}

type ParsedLegacyMessage struct {
	Header          MessageHeader
	AccountKeys     []Pubkey
	RecentBlockhash Hash
	Instructions    []ParsedInstruction
}

type ParsedLegacyTransaction struct {
	Signatures []Signature
	Message    ParsedLegacyMessage
	// MessageBytes aliases the input and is what the signatures cover.
	MessageBytes []byte
}

// ParseLegacyTransaction decodes a signed legacy transaction. Unlike the
// encoder it allocates; it exists for tooling and tests.
func ParseLegacyTransaction(tx []byte) (ParsedLegacyTransaction, error) {
	var out ParsedLegacyTransaction
	if len(tx) == 0 {
		return out, errors.Wrap(ErrInvalid, "empty tx")
	}
	if len(tx) > PacketDataSize {
		return out, errors.Wrapf(ErrTransactionTooLarge, "tx is %d bytes", len(tx))
	}

	sigCount, off, err := decodeCompactLenAt(tx, 0)
	if err != nil {
		return out, errors.Wrap(err, "decode signature count")
	}
	if off+sigCount*SignatureSize > len(tx) {
		return out, errors.Wrap(ErrInvalid, "signature section truncated")
	}
	out.Signatures = make([]Signature, sigCount)
	for i := range out.Signatures {
		copy(out.Signatures[i][:], tx[off:off+SignatureSize])
		off += SignatureSize
	}

	out.MessageBytes = tx[off:]
	out.Message, err = ParseLegacyMessage(out.MessageBytes)
	if err != nil {
		return out, err
	}
	if int(out.Message.Header.NumRequiredSignatures) != sigCount {
		return out, errors.Wrapf(ErrInvalid, "%d signatures for %d required signers", sigCount, out.Message.Header.NumRequiredSignatures)
	}
	return out, nil
}

// ParseLegacyMessage decodes a serialized message. Trailing bytes are an
// error.
func ParseLegacyMessage(msg []byte) (ParsedLegacyMessage, error) {
	var out ParsedLegacyMessage
	if len(msg) < 3 {
		return out, errors.Wrap(ErrInvalid, "message header truncated")
	}
	out.Header = MessageHeader{
		NumRequiredSignatures:       msg[0],
		NumReadonlySignedAccounts:   msg[1],
		NumReadonlyUnsignedAccounts: msg[2],
	}
	off := 3

	nKeys, off, err := decodeCompactLenAt(msg, off)
	if err != nil {
		return out, errors.Wrap(err, "decode account keys count")
	}
	if off+nKeys*PubkeySize > len(msg) {
		return out, errors.Wrap(ErrInvalid, "account keys truncated")
	}
	h := out.Header
	if int(h.NumRequiredSignatures) > nKeys ||
		h.NumReadonlySignedAccounts > h.NumRequiredSignatures ||
		int(h.NumRequiredSignatures)+int(h.NumReadonlyUnsignedAccounts) > nKeys {
		return out, errors.Wrap(ErrInvalid, "header inconsistent with account count")
	}
	if h.NumRequiredSignatures > 0 && h.NumReadonlySignedAccounts == h.NumRequiredSignatures {
		return out, errors.Wrap(ErrInvalid, "no writable fee payer")
	}
	out.AccountKeys = make([]Pubkey, nKeys)
	for i := range out.AccountKeys {
		copy(out.AccountKeys[i][:], msg[off:off+PubkeySize])
		off += PubkeySize
	}

	if off+HashSize > len(msg) {
		return out, errors.Wrap(ErrInvalid, "recent blockhash truncated")
	}
	copy(out.RecentBlockhash[:], msg[off:off+HashSize])
	off += HashSize

	nIxs, off, err := decodeCompactLenAt(msg, off)
	if err != nil {
		return out, errors.Wrap(err, "decode instruction count")
	}

	out.Instructions = make([]ParsedInstruction, 0, nIxs)
	for i := 0; i < nIxs; i++ {
		if off >= len(msg) {
			return out, errors.Wrap(ErrInvalid, "instruction truncated")
		}
		pidIndex := msg[off]
		off++
		if int(pidIndex) >= nKeys {
			return out, errors.Wrapf(ErrInvalid, "instruction %d: program id index %d out of range", i, pidIndex)
		}

		acctCount, next, err := decodeCompactLenAt(msg, off)
		if err != nil {
			return out, errors.Wrap(err, "decode instruction accounts count")
		}
		off = next
		if off+acctCount > len(msg) {
			return out, errors.Wrap(ErrInvalid, "instruction accounts truncated")
		}
		accounts := make([]uint8, acctCount)
		copy(accounts, msg[off:off+acctCount])
		off += acctCount
		for _, a := range accounts {
			if int(a) >= nKeys {
				return out, errors.Wrapf(ErrInvalid, "instruction %d: account index %d out of range", i, a)
			}
		}

		dataLen, next, err := decodeCompactLenAt(msg, off)
		if err != nil {
			return out, errors.Wrap(err, "decode instruction data len")
		}
		off = next
		if off+dataLen > len(msg) {
			return out, errors.Wrap(ErrInvalid, "instruction data truncated")
		}
		data := make([]byte, dataLen)
		copy(data, msg[off:off+dataLen])
		off += dataLen

		out.Instructions = append(out.Instructions, ParsedInstruction{
			ProgramIDIndex: pidIndex,
			ProgramID:      out.AccountKeys[pidIndex],
			Accounts:       accounts,
			Data:           data,
		})
	}

	if off != len(msg) {
		return out, errors.Wrapf(ErrInvalid, "%d trailing bytes", len(msg)-off)
	}
	return out, nil
}
