// Package solanafees estimates the fee a legacy transaction will be charged.
package solanafees

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
)

const (
	DefaultLamportsPerSignature = 5000

	// Runtime defaults when no SetComputeUnitLimit instruction is present.
	DefaultInstructionComputeUnits = 200_000
	MaxComputeUnitLimit            = 1_400_000
)

var (
	ErrOverflow             = errors.New("overflow")
	ErrInvalidComputeBudget = errors.Wrap(solana.ErrInvalid, "invalid compute budget instruction")
)

type TxFeeEstimate struct {
	LamportsPerSignature uint64 `json:"lamports_per_signature"`
	Signatures           uint64 `json:"signatures"`
	BaseFeeLamports      uint64 `json:"base_fee_lamports"`

	ComputeUnitLimit    uint32 `json:"compute_unit_limit"`
	MicroLamportsPerCU  uint64 `json:"micro_lamports_per_cu"`
	PriorityFeeLamports uint64 `json:"priority_fee_lamports"`

	TotalLamports uint64 `json:"total_lamports"`
}

// PriorityFeeLamports rounds up to a whole lamport.
func PriorityFeeLamports(computeUnitLimit uint32, microLamportsPerCU uint64) (uint64, error) {
	if computeUnitLimit == 0 || microLamportsPerCU == 0 {
		return 0, nil
	}
	hi, lo := bits.Mul64(uint64(computeUnitLimit), microLamportsPerCU)
	if hi != 0 {
		return 0, ErrOverflow
	}
	const denom = uint64(1_000_000)
	q, r := lo/denom, lo%denom
	if r != 0 {
		q++
	}
	return q, nil
}

func BaseFeeLamports(lamportsPerSignature uint64, signatures uint64) (uint64, error) {
	hi, lo := bits.Mul64(lamportsPerSignature, signatures)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// Estimate reads the compute budget instructions of msg and prices it. It
// takes a parsed message so it applies to freshly signed transactions and to
// ones read back from the wire alike.
func Estimate(msg solana.ParsedLegacyMessage, lamportsPerSignature uint64) (TxFeeEstimate, error) {
	var (
		limit    uint32
		hasLimit bool
		price    uint64
		others   uint64
	)
	for _, ix := range msg.Instructions {
		if ix.ProgramID != solana.ComputeBudgetProgramID {
			others++
			continue
		}
		if len(ix.Data) == 0 {
			return TxFeeEstimate{}, ErrInvalidComputeBudget
		}
		switch ix.Data[0] {
		case 2:
			if len(ix.Data) != 5 {
				return TxFeeEstimate{}, errors.Wrap(ErrInvalidComputeBudget, "SetComputeUnitLimit")
			}
			limit, hasLimit = binary.LittleEndian.Uint32(ix.Data[1:]), true
		case 3:
			if len(ix.Data) != 9 {
				return TxFeeEstimate{}, errors.Wrap(ErrInvalidComputeBudget, "SetComputeUnitPrice")
			}
			price = binary.LittleEndian.Uint64(ix.Data[1:])
		}
	}
	if !hasLimit {
		limit = uint32(min(others*DefaultInstructionComputeUnits, MaxComputeUnitLimit))
	}
	limit = min(limit, MaxComputeUnitLimit)

	signatures := uint64(msg.Header.NumRequiredSignatures)
	base, err := BaseFeeLamports(lamportsPerSignature, signatures)
	if err != nil {
		return TxFeeEstimate{}, err
	}
	priority, err := PriorityFeeLamports(limit, price)
	if err != nil {
		return TxFeeEstimate{}, err
	}
	total, carry := bits.Add64(base, priority, 0)
	if carry != 0 {
		return TxFeeEstimate{}, ErrOverflow
	}

	return TxFeeEstimate{
		LamportsPerSignature: lamportsPerSignature,
		Signatures:           signatures,
		BaseFeeLamports:      base,
		ComputeUnitLimit:     limit,
		MicroLamportsPerCU:   price,
		PriorityFeeLamports:  priority,
		TotalLamports:        total,
	}, nil
}

func (e TxFeeEstimate) String() string {
	return fmt.Sprintf("total=%d lamports (base=%d, priority=%d @ %d microLamports/CU, limit=%d)",
		e.TotalLamports,
		e.BaseFeeLamports,
		e.PriorityFeeLamports,
		e.MicroLamportsPerCU,
		e.ComputeUnitLimit,
	)
}
