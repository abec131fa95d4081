package solana

import (
	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/internal/fixedbuf"
)

// Transaction pairs a compiled message with one signature per required
// signer, ordered like the message's signer accounts.
type Transaction struct {
	Message *Message

	signatures [MaxSignatures]Signature
	signed     bool
	generation uint64
}

func NewTransaction(msg *Message) *Transaction {
	return &Transaction{Message: msg}
}

// Sign signs the serialized message with every signer the message requires.
// Signers are matched to signature slots by public key, so their order does
// not matter. Signatures are committed only if all of them succeed.
func (tx *Transaction) Sign(signers ...Signer) error {
	if tx.Message == nil {
		return errors.Wrap(ErrInvalid, "transaction has no message")
	}
	var msgBuf [PacketDataSize]byte
	n, err := tx.Message.MarshalInto(msgBuf[:])
	if err != nil {
		return err
	}
	msg := msgBuf[:n]

	required := tx.Message.Signers()
	var sigs [MaxSignatures]Signature
	var have [MaxSignatures]bool
	for _, s := range signers {
		pk := s.PublicKey()
		slot := -1
		for i := range required {
			if required[i] == pk {
				slot = i
				break
			}
		}
		if slot < 0 {
			return errors.Wrapf(ErrUnexpectedSigner, "%s", pk)
		}
		sig, err := s.Sign(msg)
		if err != nil {
			if !errors.Is(err, ErrCrypto) {
				err = withCause(ErrCrypto, err)
			}
			return errors.Wrapf(err, "sign for %s", pk)
		}
		sigs[slot] = sig
		have[slot] = true
	}
	for i := range required {
		if !have[i] {
			return errors.Wrapf(ErrMissingSigner, "%s", required[i])
		}
	}

	tx.signatures = sigs
	tx.signed = true
	tx.generation = tx.Message.generation
	return nil
}

// checkSigned reports whether the signatures still belong to the current
// contents of the message.
func (tx *Transaction) checkSigned() error {
	switch {
	case !tx.signed || tx.Message == nil:
		return errors.Wrap(ErrMissingSigner, "transaction is not signed")
	case tx.generation != tx.Message.generation:
		return errors.Wrap(ErrMissingSigner, "message was recompiled after signing")
	}
	return nil
}

// Signatures returns the signatures in account-table order. It is empty
// until Sign succeeds and again once the message is recompiled.
func (tx *Transaction) Signatures() []Signature {
	if tx.checkSigned() != nil {
		return nil
	}
	return tx.signatures[:tx.Message.Header.NumRequiredSignatures]
}

// ID returns the first signature, which the network uses as the
// transaction id.
func (tx *Transaction) ID() (Signature, error) {
	if err := tx.checkSigned(); err != nil {
		return Signature{}, err
	}
	return tx.Signatures()[0], nil
}

// VerifySignatures checks every signature against its signer's public key.
func (tx *Transaction) VerifySignatures() error {
	if err := tx.checkSigned(); err != nil {
		return err
	}
	var msgBuf [PacketDataSize]byte
	n, err := tx.Message.MarshalInto(msgBuf[:])
	if err != nil {
		return err
	}
	for i, pk := range tx.Message.Signers() {
		if !Verify(pk, msgBuf[:n], tx.signatures[i]) {
			return errors.Wrapf(ErrCrypto, "signature %d does not verify for %s", i, pk)
		}
	}
	return nil
}

func (tx *Transaction) SerializedSize() int {
	return tx.Message.TransactionSize()
}

// MarshalInto writes the signed transaction to the start of dst and returns
// the number of bytes written. If dst is too small nothing is written.
func (tx *Transaction) MarshalInto(dst []byte) (int, error) {
	if err := tx.checkSigned(); err != nil {
		return 0, err
	}
	if size := tx.SerializedSize(); size > len(dst) {
		return 0, errors.Wrapf(ErrTransactionTooLarge, "transaction needs %d bytes, buffer has %d", size, len(dst))
	}
	buf := fixedbuf.New(dst)
	sigs := tx.Signatures()
	if err := putCompactLen(&buf, len(sigs)); err != nil {
		return 0, wireError(err)
	}
	for i := range sigs {
		if _, err := buf.Write(sigs[i][:]); err != nil {
			return 0, wireError(err)
		}
	}
	if err := tx.Message.writeTo(&buf); err != nil {
		return 0, err
	}
	return buf.Len(), nil
}

func (tx *Transaction) MarshalBinary() ([]byte, error) {
	out := make([]byte, tx.SerializedSize())
	n, err := tx.MarshalInto(out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// BuildAndSignLegacyTransaction compiles, signs and serializes a transaction
// into dst in one step. feePayer must be among signers.
func BuildAndSignLegacyTransaction(
	dst []byte,
	recentBlockhash Hash,
	feePayer Pubkey,
	signers []Signer,
	instructions []Instruction,
) ([]byte, error) {
	var msg Message
	if err := msg.Compile(feePayer, instructions, recentBlockhash); err != nil {
		return nil, err
	}
	tx := Transaction{Message: &msg}
	if err := tx.Sign(signers...); err != nil {
		return nil, err
	}
	n, err := tx.MarshalInto(dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
