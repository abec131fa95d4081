package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Abdullah1738/solana-esp-go/internal/config"
	"github.com/Abdullah1738/solana-esp-go/offchain/solana"
	"github.com/Abdullah1738/solana-esp-go/offchain/solanafees"
)

func keygenCmd(a *app) *cobra.Command {
	var (
		outfile string
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a keypair file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := outfile
			if path == "" {
				path = a.cfg.Keypair
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return errors.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			kp, err := solana.GenerateKeypair(rand.Reader)
			if err != nil {
				return err
			}
			if err := solana.SaveKeypairFile(path, kp); err != nil {
				return err
			}
			a.log.Info().Str("path", path).Str("pubkey", kp.PublicKey().String()).Msg("keypair written")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), kp.PublicKey())
			return err
		},
	}
	cmd.Flags().StringVarP(&outfile, "outfile", "o", "", "output path (defaults to the configured keypair)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func pubkeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey",
		Short: "Print the public key of the configured keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kp, err := a.keypair()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), kp.PublicKey())
			return err
		},
	}
}

func blockhashCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blockhash",
		Short: "Fetch the latest blockhash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			commitment, err := a.commitment()
			if err != nil {
				return err
			}
			client, err := a.client(false)
			if err != nil {
				return err
			}
			bh, err := client.GetLatestBlockhash(cmd.Context(), commitment)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), bh)
			return err
		},
	}
}

type decodedInstruction struct {
	ProgramID solana.Pubkey   `json:"programId"`
	Accounts  []solana.Pubkey `json:"accounts"`
	Data      string          `json:"data"`
}

type decodedSignature struct {
	Signer    solana.Pubkey    `json:"signer"`
	Signature solana.Signature `json:"signature"`
	Valid     bool             `json:"valid"`
}

type decodedTransaction struct {
	Signatures      []decodedSignature        `json:"signatures"`
	Header          solana.MessageHeader      `json:"header"`
	AccountKeys     []solana.Pubkey           `json:"accountKeys"`
	RecentBlockhash solana.Hash               `json:"recentBlockhash"`
	Instructions    []decodedInstruction      `json:"instructions"`
	Fee             *solanafees.TxFeeEstimate `json:"fee,omitempty"`
}

func decodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode [BASE64_TX]",
		Short: "Decode a base64 legacy transaction (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var encoded string
			if len(args) == 1 {
				encoded = args[0]
			} else {
				raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 4*solana.PacketDataSize))
				if err != nil {
					return errors.Wrap(err, "read stdin")
				}
				encoded = string(raw)
			}
			raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
			if err != nil {
				return errors.Wrap(err, "decode base64")
			}
			parsed, err := solana.ParseLegacyTransaction(raw)
			if err != nil {
				return err
			}

			msg := parsed.Message
			out := decodedTransaction{
				Header:          msg.Header,
				AccountKeys:     msg.AccountKeys,
				RecentBlockhash: msg.RecentBlockhash,
			}
			for i, sig := range parsed.Signatures {
				signer := msg.AccountKeys[i]
				out.Signatures = append(out.Signatures, decodedSignature{
					Signer:    signer,
					Signature: sig,
					Valid:     solana.Verify(signer, parsed.MessageBytes, sig),
				})
			}
			for _, ix := range msg.Instructions {
				accounts := make([]solana.Pubkey, 0, len(ix.Accounts))
				for _, idx := range ix.Accounts {
					accounts = append(accounts, msg.AccountKeys[idx])
				}
				out.Instructions = append(out.Instructions, decodedInstruction{
					ProgramID: ix.ProgramID,
					Accounts:  accounts,
					Data:      base64.StdEncoding.EncodeToString(ix.Data),
				})
			}
			if fee, err := solanafees.Estimate(msg, solanafees.DefaultLamportsPerSignature); err == nil {
				out.Fee = &fee
			} else {
				a.log.Warn().Err(err).Msg("fee estimate unavailable")
			}
			a.log.Debug().Int("bytes", len(raw)).Int("instructions", len(out.Instructions)).Msg("decoded transaction")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the solxfer config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteDefault(a.configPath, force); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
