package solanafees

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

func TestPriorityFeeLamports(t *testing.T) {
	t.Parallel()

	got, err := PriorityFeeLamports(200_000, 1_000_000)
	if err != nil {
		t.Fatalf("PriorityFeeLamports: %v", err)
	}
	if got != 200_000 {
		t.Fatalf("got=%d want=200000", got)
	}

	got, err = PriorityFeeLamports(1, 1)
	if err != nil {
		t.Fatalf("PriorityFeeLamports: %v", err)
	}
	if got != 1 {
		t.Fatalf("got=%d want=1", got)
	}

	if _, err := PriorityFeeLamports(^uint32(0), ^uint64(0)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	if _, err := BaseFeeLamports(^uint64(0), 2); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func parsedMessage(t *testing.T, payer solana.Pubkey, ixs ...solana.Instruction) solana.ParsedLegacyMessage {
	t.Helper()
	msg, err := solana.CompileMessage(payer, ixs, solana.Hash{})
	if err != nil {
		t.Fatalf("CompileMessage: %v", err)
	}
	raw, err := msg.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	parsed, err := solana.ParseLegacyMessage(raw)
	if err != nil {
		t.Fatalf("ParseLegacyMessage: %v", err)
	}
	return parsed
}

func TestEstimate(t *testing.T) {
	t.Parallel()

	payer := solana.NewKeypairFromSeed([solana.SeedSize]byte{1}).PublicKey()
	cosigner := solana.NewKeypairFromSeed([solana.SeedSize]byte{2}).PublicKey()
	to := solana.NewKeypairFromSeed([solana.SeedSize]byte{3}).PublicKey()
	transfer := solana.SystemTransfer(payer, to, 1)

	cases := []struct {
		name string
		ixs  []solana.Instruction
		want TxFeeEstimate
	}{
		{
			name: "base fee only",
			ixs:  []solana.Instruction{transfer},
			want: TxFeeEstimate{LamportsPerSignature: 5000, Signatures: 1, BaseFeeLamports: 5000, ComputeUnitLimit: 200_000, TotalLamports: 5000},
		},
		{
			name: "price with default limit",
			ixs:  []solana.Instruction{solana.ComputeBudgetSetComputeUnitPrice(10), transfer, solana.Memo("x", cosigner)},
			want: TxFeeEstimate{LamportsPerSignature: 5000, Signatures: 2, BaseFeeLamports: 10_000, ComputeUnitLimit: 400_000, MicroLamportsPerCU: 10, PriorityFeeLamports: 4, TotalLamports: 10_004},
		},
		{
			name: "explicit limit",
			ixs:  []solana.Instruction{solana.ComputeBudgetSetComputeUnitLimit(1_000), solana.ComputeBudgetSetComputeUnitPrice(1_500), transfer},
			want: TxFeeEstimate{LamportsPerSignature: 5000, Signatures: 1, BaseFeeLamports: 5000, ComputeUnitLimit: 1_000, MicroLamportsPerCU: 1_500, PriorityFeeLamports: 2, TotalLamports: 5002},
		},
		{
			name: "limit clamped",
			ixs:  []solana.Instruction{solana.ComputeBudgetSetComputeUnitLimit(2_000_000), solana.ComputeBudgetSetComputeUnitPrice(1_000_000), transfer},
			want: TxFeeEstimate{LamportsPerSignature: 5000, Signatures: 1, BaseFeeLamports: 5000, ComputeUnitLimit: MaxComputeUnitLimit, MicroLamportsPerCU: 1_000_000, PriorityFeeLamports: 1_400_000, TotalLamports: 1_405_000},
		},
	}
	for _, tc := range cases {
		got, err := Estimate(parsedMessage(t, payer, tc.ixs...), DefaultLamportsPerSignature)
		if err != nil {
			t.Fatalf("%s: Estimate: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got=%+v want=%+v", tc.name, got, tc.want)
		}
	}
}

func TestEstimate_MalformedComputeBudget(t *testing.T) {
	t.Parallel()

	payer := solana.NewKeypairFromSeed([solana.SeedSize]byte{1}).PublicKey()
	bad := solana.Instruction{ProgramID: solana.ComputeBudgetProgramID, Data: []byte{2, 1}}
	_, err := Estimate(parsedMessage(t, payer, bad), DefaultLamportsPerSignature)
	if !errors.Is(err, ErrInvalidComputeBudget) || !errors.Is(err, solana.ErrInvalid) {
		t.Fatalf("expected invalid compute budget, got %v", err)
	}
}

func TestTxFeeEstimateString(t *testing.T) {
	t.Parallel()

	e := TxFeeEstimate{BaseFeeLamports: 5000, PriorityFeeLamports: 2, MicroLamportsPerCU: 1500, ComputeUnitLimit: 1000, TotalLamports: 5002}
	const want = "total=5002 lamports (base=5000, priority=2 @ 1500 microLamports/CU, limit=1000)"
	if got := e.String(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}
