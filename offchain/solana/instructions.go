package solana

import (
	"encoding/binary"
)

const LamportsPerSOL = 1_000_000_000

var (
	SystemProgramID          = MustParsePubkey("11111111111111111111111111111111")
	ComputeBudgetProgramID   = MustParsePubkey("ComputeBudget111111111111111111111111111111")
	TokenProgramID           = MustParsePubkey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	AssociatedTokenProgramID = MustParsePubkey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	MemoProgramID            = MustParsePubkey("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

// AccountMeta references an account from an instruction. The flags are
// independent; the compiler merges them across references to the same key.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

func Writable(pk Pubkey, signer bool) AccountMeta {
	return AccountMeta{Pubkey: pk, IsSigner: signer, IsWritable: true}
}

func Readonly(pk Pubkey, signer bool) AccountMeta {
	return AccountMeta{Pubkey: pk, IsSigner: signer, IsWritable: false}
}

type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// SystemTransfer moves lamports between two system accounts. from must sign.
func SystemTransfer(from, to Pubkey, lamports uint64) Instruction {
	var data [12]byte
	binary.LittleEndian.PutUint32(data[0:4], 2)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	return Instruction{
		ProgramID: SystemProgramID,
		Accounts: []AccountMeta{
			Writable(from, true),
			Writable(to, false),
		},
		Data: data[:],
	}
}

// TokenTransfer is the SPL Token Transfer instruction (tag 3).
func TokenTransfer(source, destination, owner Pubkey, amount uint64) Instruction {
	var data [9]byte
	data[0] = 3
	binary.LittleEndian.PutUint64(data[1:], amount)
	return Instruction{
		ProgramID: TokenProgramID,
		Accounts: []AccountMeta{
			Writable(source, false),
			Writable(destination, false),
			Readonly(owner, true),
		},
		Data: data[:],
	}
}

func ComputeBudgetSetComputeUnitLimit(limit uint32) Instruction {
	var data [5]byte
	data[0] = 2
	binary.LittleEndian.PutUint32(data[1:], limit)
	return Instruction{
		ProgramID: ComputeBudgetProgramID,
		Data:      data[:],
	}
}

func ComputeBudgetSetComputeUnitPrice(microLamports uint64) Instruction {
	var data [9]byte
	data[0] = 3
	binary.LittleEndian.PutUint64(data[1:], microLamports)
	return Instruction{
		ProgramID: ComputeBudgetProgramID,
		Data:      data[:],
	}
}

// Memo attaches UTF-8 text to a transaction. Each signer is recorded by the
// memo program as having approved the memo.
func Memo(text string, signers ...Pubkey) Instruction {
	accounts := make([]AccountMeta, 0, len(signers))
	for _, s := range signers {
		accounts = append(accounts, Readonly(s, true))
	}
	return Instruction{
		ProgramID: MemoProgramID,
		Accounts:  accounts,
		Data:      []byte(text),
	}
}
