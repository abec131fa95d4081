package solana

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
)

const (
	SeedSize = 32

	// hedgeNoiseSize is the amount of fresh randomness mixed into the nonce
	// of a hedged signature.
	hedgeNoiseSize = 16
)

var ErrInvalidKeypairFile = &classError{class: ErrInvalid, msg: "invalid keypair file"}

// Signer produces signatures over serialized message bytes.
type Signer interface {
	PublicKey() Pubkey
	Sign(message []byte) (Signature, error)
}

// Keypair is an Ed25519 identity. The expanded secret is derived once from
// the seed and never leaves the struct.
type Keypair struct {
	seed   [SeedSize]byte
	pub    Pubkey
	scalar edwards25519.Scalar
	prefix [32]byte
}

func NewKeypairFromSeed(seed [SeedSize]byte) *Keypair {
	k := &Keypair{seed: seed}
	h := sha512.Sum512(seed[:])
	if _, err := k.scalar.SetBytesWithClamping(h[:32]); err != nil {
		panic(err) // input is always 32 bytes
	}
	copy(k.prefix[:], h[32:])
	a := new(edwards25519.Point).ScalarBaseMult(&k.scalar)
	copy(k.pub[:], a.Bytes())
	return k
}

// GenerateKeypair draws a fresh seed from rand.
func GenerateKeypair(rand io.Reader) (*Keypair, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(rand, seed[:]); err != nil {
		return nil, withCause(ErrCrypto, err)
	}
	return NewKeypairFromSeed(seed), nil
}

func (k *Keypair) PublicKey() Pubkey { return k.pub }

func (k *Keypair) Seed() [SeedSize]byte { return k.seed }

// Sign returns the deterministic RFC 8032 signature of message.
func (k *Keypair) Sign(message []byte) (Signature, error) {
	return k.sign(nil, message)
}

// Hedged returns a Signer that mixes randomness from rand into every nonce.
// The signatures verify exactly like deterministic ones but differ on each
// call.
func (k *Keypair) Hedged(rand io.Reader) Signer {
	return hedgedSigner{key: k, rand: rand}
}

func (k *Keypair) sign(noise, message []byte) (Signature, error) {
	var sig Signature
	var digest [64]byte

	mh := sha512.New()
	mh.Write(noise)
	mh.Write(k.prefix[:])
	mh.Write(message)
	r, err := edwards25519.NewScalar().SetUniformBytes(mh.Sum(digest[:0]))
	if err != nil {
		return sig, withCause(ErrCrypto, err)
	}
	rb := new(edwards25519.Point).ScalarBaseMult(r).Bytes()

	kh := sha512.New()
	kh.Write(rb)
	kh.Write(k.pub[:])
	kh.Write(message)
	c, err := edwards25519.NewScalar().SetUniformBytes(kh.Sum(digest[:0]))
	if err != nil {
		return sig, withCause(ErrCrypto, err)
	}
	s := edwards25519.NewScalar().MultiplyAdd(c, &k.scalar, r)

	copy(sig[:32], rb)
	copy(sig[32:], s.Bytes())
	return sig, nil
}

type hedgedSigner struct {
	key  *Keypair
	rand io.Reader
}

func (h hedgedSigner) PublicKey() Pubkey { return h.key.pub }

func (h hedgedSigner) Sign(message []byte) (Signature, error) {
	var noise [hedgeNoiseSize]byte
	if _, err := io.ReadFull(h.rand, noise[:]); err != nil {
		return Signature{}, withCause(ErrCrypto, err)
	}
	return h.key.sign(noise[:], message)
}

// Verify reports whether sig is a valid signature of message by pub.
func Verify(pub Pubkey, message []byte, sig Signature) bool {
	return ed25519.Verify(pub[:], message, sig[:])
}

func DefaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// LoadKeypairFile reads a keypair in the Solana CLI format: a JSON array of
// 64 integers holding the seed followed by the public key.
func LoadKeypairFile(path string) (*Keypair, error) {
	if path == "" {
		return nil, errors.Wrap(ErrInvalid, "keypair path required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read keypair file")
	}

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, withCause(ErrInvalidKeypairFile, err)
	}
	if len(ints) != SeedSize+PubkeySize {
		return nil, errors.Wrapf(ErrInvalidKeypairFile, "%d bytes, want %d", len(ints), SeedSize+PubkeySize)
	}
	var key [SeedSize + PubkeySize]byte
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, errors.Wrapf(ErrInvalidKeypairFile, "byte %d out of range", i)
		}
		key[i] = byte(v)
	}

	var seed [SeedSize]byte
	copy(seed[:], key[:SeedSize])
	kp := NewKeypairFromSeed(seed)
	if string(kp.pub[:]) != string(key[SeedSize:]) {
		return nil, errors.Wrap(ErrInvalidKeypairFile, "public key does not match seed")
	}
	return kp, nil
}

// SaveKeypairFile writes k in the Solana CLI format with owner-only
// permissions, creating parent directories as needed.
func SaveKeypairFile(path string, k *Keypair) error {
	if path == "" {
		return errors.Wrap(ErrInvalid, "keypair path required")
	}
	ints := make([]int, 0, SeedSize+PubkeySize)
	for _, b := range k.seed {
		ints = append(ints, int(b))
	}
	for _, b := range k.pub {
		ints = append(ints, int(b))
	}
	raw, err := json.Marshal(ints)
	if err != nil {
		return errors.Wrap(err, "encode keypair")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create keypair directory")
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return errors.Wrap(err, "write keypair file")
	}
	return nil
}
