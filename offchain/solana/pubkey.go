package solana

import (
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const (
	PubkeySize    = 32
	HashSize      = 32
	SignatureSize = 64

	// Longest base58 renderings of 32 and 64 byte values.
	MaxBase58PubkeyLen    = 44
	MaxBase58SignatureLen = 88
)

type (
	Pubkey    [PubkeySize]byte
	Hash      [HashSize]byte
	Signature [SignatureSize]byte
)

// TextCodec renders fixed-size values as text. Decode must reject characters
// outside its alphabet.
type TextCodec interface {
	Encode(src []byte) string
	Decode(s string) ([]byte, error)
}

type base58Codec struct{}

func (base58Codec) Encode(src []byte) string        { return base58.Encode(src) }
func (base58Codec) Decode(s string) ([]byte, error) { return base58.Decode(s) }

// Base58 is the codec used by String, MarshalText and the Parse functions.
var Base58 TextCodec = base58Codec{}

func decodeFixed(codec TextCodec, s string, out []byte, maxLen int) error {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxLen {
		return errors.Wrapf(ErrWrongSize, "text length %d", len(s))
	}
	b, err := codec.Decode(s)
	if err != nil {
		return withCause(ErrInvalidCharacter, err)
	}
	if len(b) != len(out) {
		return errors.Wrapf(ErrWrongSize, "decoded %d bytes, want %d", len(b), len(out))
	}
	copy(out, b)
	return nil
}

func ParsePubkey(s string) (Pubkey, error) { return ParsePubkeyWith(Base58, s) }

func ParsePubkeyWith(codec TextCodec, s string) (Pubkey, error) {
	var out Pubkey
	if err := decodeFixed(codec, s, out[:], MaxBase58PubkeyLen); err != nil {
		return Pubkey{}, errors.Wrap(err, "parse pubkey")
	}
	return out, nil
}

func MustParsePubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (k Pubkey) String() string { return Base58.Encode(k[:]) }
func (k Pubkey) IsZero() bool   { return k == Pubkey{} }

func (k Pubkey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Pubkey) UnmarshalText(text []byte) error {
	pk, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*k = pk
	return nil
}

func ParseHash(s string) (Hash, error) { return ParseHashWith(Base58, s) }

func ParseHashWith(codec TextCodec, s string) (Hash, error) {
	var out Hash
	if err := decodeFixed(codec, s, out[:], MaxBase58PubkeyLen); err != nil {
		return Hash{}, errors.Wrap(err, "parse hash")
	}
	return out, nil
}

func (h Hash) String() string { return Base58.Encode(h[:]) }
func (h Hash) IsZero() bool   { return h == Hash{} }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Hash) UnmarshalText(text []byte) error {
	v, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func ParseSignature(s string) (Signature, error) { return ParseSignatureWith(Base58, s) }

func ParseSignatureWith(codec TextCodec, s string) (Signature, error) {
	var out Signature
	if err := decodeFixed(codec, s, out[:], MaxBase58SignatureLen); err != nil {
		return Signature{}, errors.Wrap(err, "parse signature")
	}
	return out, nil
}

func (s Signature) String() string { return Base58.Encode(s[:]) }
func (s Signature) IsZero() bool   { return s == Signature{} }

func (s Signature) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Signature) UnmarshalText(text []byte) error {
	v, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
