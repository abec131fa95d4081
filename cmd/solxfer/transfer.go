package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
	"github.com/Abdullah1738/solana-esp-go/offchain/solanafees"
	"github.com/Abdullah1738/solana-esp-go/offchain/solanarpc"
)

const solDecimals = 9

var maxAmount = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// parseAmount converts a decimal UI amount into base units. Amounts finer than
// one base unit are rejected rather than rounded.
func parseAmount(s string, decimals int32) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(err, "amount %q", s)
	}
	if d.Sign() <= 0 {
		return 0, errors.Errorf("amount %q must be positive", s)
	}
	units := d.Shift(decimals)
	if !units.IsInteger() {
		return 0, errors.Errorf("amount %q has more than %d decimal places", s, decimals)
	}
	if units.GreaterThan(maxAmount) {
		return 0, errors.Errorf("amount %q overflows u64", s)
	}
	return units.BigInt().Uint64(), nil
}

type sendFlags struct {
	memo          string
	cuLimit       uint32
	cuPrice       uint64
	blockhash     string
	async         bool
	skipPreflight bool
	dryRun        bool
	maxFee        uint64
}

func (f *sendFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.memo, "memo", "", "attach a memo signed by the payer")
	fs.Uint32Var(&f.cuLimit, "compute-unit-limit", 0, "set a compute unit limit")
	fs.Uint64Var(&f.cuPrice, "compute-unit-price", 0, "priority fee in micro-lamports per compute unit")
	fs.StringVar(&f.blockhash, "blockhash", "", "sign against this blockhash instead of fetching one")
	fs.BoolVar(&f.async, "async", false, "overlap the blockhash fetch with signing setup")
	fs.BoolVar(&f.skipPreflight, "skip-preflight", false, "skip the node's preflight simulation")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the signed transaction (base64) instead of sending it")
	fs.Uint64Var(&f.maxFee, "max-fee", 0, "refuse to send when the estimated fee exceeds this many lamports")
}

// instructions wraps the payload with the optional compute budget and memo
// instructions.
func (f *sendFlags) instructions(payer solana.Pubkey, payload ...solana.Instruction) []solana.Instruction {
	ixs := make([]solana.Instruction, 0, len(payload)+3)
	if f.cuLimit > 0 {
		ixs = append(ixs, solana.ComputeBudgetSetComputeUnitLimit(f.cuLimit))
	}
	if f.cuPrice > 0 {
		ixs = append(ixs, solana.ComputeBudgetSetComputeUnitPrice(f.cuPrice))
	}
	ixs = append(ixs, payload...)
	if f.memo != "" {
		ixs = append(ixs, solana.Memo(f.memo, payer))
	}
	return ixs
}

type plan func() (*solana.Keypair, []solana.Instruction, error)

// send builds, signs and submits the transaction described by prepare. With
// --async the blockhash request is already on the wire while prepare runs.
func (a *app) send(cmd *cobra.Command, f *sendFlags, prepare plan) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var fixed *solana.Hash
	if f.blockhash != "" {
		bh, err := solana.ParseHash(f.blockhash)
		if err != nil {
			return errors.Wrap(err, "--blockhash")
		}
		fixed = &bh
	}
	commitment, err := a.commitment()
	if err != nil {
		return err
	}

	var (
		kp  *solana.Keypair
		ixs []solana.Instruction
		bh  solana.Hash
		raw []byte
		buf [solana.PacketDataSize]byte
	)
	sign := func() (err error) {
		raw, err = solana.BuildAndSignLegacyTransaction(buf[:], bh, kp.PublicKey(),
			[]solana.Signer{kp.Hedged(rand.Reader)}, ixs)
		if err != nil {
			return err
		}
		return a.checkFee(raw, f.maxFee)
	}

	if f.async {
		client, err := a.asyncClient(f.skipPreflight)
		if err != nil {
			return err
		}
		var pending *solanarpc.Call[solana.Hash]
		if fixed == nil {
			pending = client.GetLatestBlockhash(ctx, commitment)
		}
		if kp, ixs, err = prepare(); err != nil {
			return err
		}
		if fixed != nil {
			bh = *fixed
		} else if bh, err = pending.Await(ctx); err != nil {
			return err
		}
		if err := sign(); err != nil {
			return err
		}
		if f.dryRun {
			return a.printTransaction(cmd, raw)
		}
		sig, err := client.SendRawTransaction(ctx, raw).Await(ctx)
		if err != nil {
			return err
		}
		return a.printSignature(cmd, sig)
	}

	client, err := a.client(f.skipPreflight)
	if err != nil {
		return err
	}
	if kp, ixs, err = prepare(); err != nil {
		return err
	}
	if fixed != nil {
		bh = *fixed
	} else if bh, err = client.GetLatestBlockhash(ctx, commitment); err != nil {
		return err
	}
	if err := sign(); err != nil {
		return err
	}
	if f.dryRun {
		return a.printTransaction(cmd, raw)
	}
	sig, err := client.SendRawTransaction(ctx, raw)
	if err != nil {
		return err
	}
	return a.printSignature(cmd, sig)
}

func (a *app) checkFee(raw []byte, maxFee uint64) error {
	parsed, err := solana.ParseLegacyTransaction(raw)
	if err != nil {
		return err
	}
	fee, err := solanafees.Estimate(parsed.Message, solanafees.DefaultLamportsPerSignature)
	if err != nil {
		return err
	}
	a.log.Info().
		Int("bytes", len(raw)).
		Uint64("fee_lamports", fee.TotalLamports).
		Uint32("compute_unit_limit", fee.ComputeUnitLimit).
		Msg("signed transaction")
	if maxFee > 0 && fee.TotalLamports > maxFee {
		return errors.Errorf("estimated fee %s exceeds --max-fee %d", fee, maxFee)
	}
	return nil
}

func (a *app) printTransaction(cmd *cobra.Command, raw []byte) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(raw))
	return err
}

func (a *app) printSignature(cmd *cobra.Command, sig solana.Signature) error {
	a.log.Info().Str("signature", sig.String()).Msg("transaction sent")
	_, err := fmt.Fprintln(cmd.OutOrStdout(), sig)
	return err
}

func transferCmd(a *app) *cobra.Command {
	var f sendFlags
	cmd := &cobra.Command{
		Use:   "transfer RECIPIENT AMOUNT_SOL",
		Short: "Transfer SOL from the configured keypair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := solana.ParsePubkey(args[0])
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			lamports, err := parseAmount(args[1], solDecimals)
			if err != nil {
				return err
			}
			return a.send(cmd, &f, func() (*solana.Keypair, []solana.Instruction, error) {
				kp, err := a.keypair()
				if err != nil {
					return nil, nil, err
				}
				return kp, f.instructions(kp.PublicKey(), solana.SystemTransfer(kp.PublicKey(), to, lamports)), nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func tokenTransferCmd(a *app) *cobra.Command {
	var (
		f        sendFlags
		decimals uint8
	)
	cmd := &cobra.Command{
		Use:   "token-transfer MINT RECIPIENT_WALLET AMOUNT",
		Short: "Transfer SPL tokens between associated token accounts",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := solana.ParsePubkey(args[0])
			if err != nil {
				return errors.Wrap(err, "mint")
			}
			recipient, err := solana.ParsePubkey(args[1])
			if err != nil {
				return errors.Wrap(err, "recipient")
			}
			amount, err := parseAmount(args[2], int32(decimals))
			if err != nil {
				return err
			}
			return a.send(cmd, &f, func() (*solana.Keypair, []solana.Instruction, error) {
				kp, err := a.keypair()
				if err != nil {
					return nil, nil, err
				}
				source, _, err := solana.FindAssociatedTokenAddress(kp.PublicKey(), mint)
				if err != nil {
					return nil, nil, err
				}
				destination, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
				if err != nil {
					return nil, nil, err
				}
				a.log.Debug().
					Str("source", source.String()).
					Str("destination", destination.String()).
					Uint64("amount", amount).
					Msg("token transfer")
				ix := solana.TokenTransfer(source, destination, kp.PublicKey(), amount)
				return kp, f.instructions(kp.PublicKey(), ix), nil
			})
		},
	}
	f.register(cmd)
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "mint decimals")
	_ = cmd.MarkFlagRequired("decimals")
	return cmd
}
