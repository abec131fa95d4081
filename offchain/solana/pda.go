package solana

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/pkg/errors"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

var (
	ErrInvalidSeeds = &classError{class: ErrInvalid, msg: "invalid seeds"}
	ErrOnCurve      = &classError{class: ErrInvalid, msg: "derived address is on-curve"}
)

func FindProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return Pubkey{}, 0, errors.Wrapf(ErrInvalidSeeds, "%d seeds leaves no room for a bump", len(seeds))
	}
	var withBump [MaxSeeds][]byte
	n := copy(withBump[:], seeds)
	bump := []byte{0}
	withBump[n] = bump
	for b := 255; b >= 0; b-- {
		bump[0] = uint8(b)
		pda, err := CreateProgramAddress(withBump[:n+1], programID)
		if err == nil {
			return pda, uint8(b), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return Pubkey{}, 0, err
		}
	}
	return Pubkey{}, 0, errors.Wrap(ErrInvalidSeeds, "no viable program address found")
}

func CreateProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return Pubkey{}, errors.Wrapf(ErrInvalidSeeds, "%d seeds, max %d", len(seeds), MaxSeeds)
	}

	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return Pubkey{}, errors.Wrapf(ErrInvalidSeeds, "seed %d is %d bytes", i, len(seed))
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte("ProgramDerivedAddress"))

	var out Pubkey
	h.Sum(out[:0])
	if isOnCurve(out) {
		return Pubkey{}, ErrOnCurve
	}
	return out, nil
}

// FindAssociatedTokenAddress derives the canonical token account that holds
// mint tokens for wallet.
func FindAssociatedTokenAddress(wallet, mint Pubkey) (Pubkey, uint8, error) {
	return FindProgramAddress(
		[][]byte{wallet[:], TokenProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
}

func isOnCurve(pk Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk[:])
	return err == nil
}
