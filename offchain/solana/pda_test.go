package solana

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
)

func TestCreateProgramAddress_RejectsInvalidSeeds(t *testing.T) {
	_, err := CreateProgramAddress(make([][]byte, 17), SystemProgramID)
	if !isErr(err, ErrInvalidSeeds) {
		t.Fatalf("want ErrInvalidSeeds, got %v", err)
	}

	seed := make([]byte, 33)
	_, err = CreateProgramAddress([][]byte{seed}, SystemProgramID)
	if !isErr(err, ErrInvalidSeeds) {
		t.Fatalf("want ErrInvalidSeeds, got %v", err)
	}

	_, _, err = FindProgramAddress(make([][]byte, 16), SystemProgramID)
	if !isErr(err, ErrInvalidSeeds) {
		t.Fatalf("want ErrInvalidSeeds, got %v", err)
	}
}

func TestFindProgramAddress_ReturnsOffCurve(t *testing.T) {
	seeds := [][]byte{[]byte("test")}
	pda, bump, err := FindProgramAddress(seeds, SystemProgramID)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	if isOnCurve(pda) {
		t.Fatalf("expected off-curve PDA")
	}
	if len(seeds) != 1 {
		t.Fatalf("caller seeds modified: %d", len(seeds))
	}

	again, err := CreateProgramAddress([][]byte{[]byte("test"), {bump}}, SystemProgramID)
	if err != nil {
		t.Fatalf("CreateProgramAddress: %v", err)
	}
	if again != pda {
		t.Fatalf("CreateProgramAddress=%s, want %s", again, pda)
	}

	want, wantBump, err := solanago.FindProgramAddress(seeds, solanago.PublicKeyFromBytes(SystemProgramID[:]))
	if err != nil {
		t.Fatalf("solana-go FindProgramAddress: %v", err)
	}
	if [32]byte(want) != [32]byte(pda) || wantBump != bump {
		t.Fatalf("pda=%s/%d, want %s/%d", pda, bump, want, wantBump)
	}
}

func TestFindAssociatedTokenAddress_MatchesSolanaGo(t *testing.T) {
	wallet := testKeypair(5).PublicKey()
	mint := MustParsePubkey("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	ata, bump, err := FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		t.Fatalf("FindAssociatedTokenAddress: %v", err)
	}
	want, wantBump, err := solanago.FindAssociatedTokenAddress(
		solanago.PublicKeyFromBytes(wallet[:]),
		solanago.PublicKeyFromBytes(mint[:]),
	)
	if err != nil {
		t.Fatalf("solana-go FindAssociatedTokenAddress: %v", err)
	}
	if [32]byte(want) != [32]byte(ata) || wantBump != bump {
		t.Fatalf("ata=%s/%d, want %s/%d", ata, bump, want, wantBump)
	}
}
