package solana

import (
	"github.com/pkg/errors"
)

const (
	// PacketDataSize is the largest serialized transaction the network accepts.
	PacketDataSize = 1232

	MaxAccounts     = 35
	MaxInstructions = 64

	// 64-byte signatures plus the smallest possible message rule out more
	// than this many signers within one packet.
	MaxSignatures = 12
)

type MessageHeader struct {
	NumRequiredSignatures       uint8
	NumReadonlySignedAccounts   uint8
	NumReadonlyUnsignedAccounts uint8
}

// CompiledInstruction references accounts by their position in the message's
// account table. Data aliases the source instruction's data.
type CompiledInstruction struct {
	ProgramIDIndex uint8
	Accounts       []uint8
	Data           []byte
}

// Message is a compiled legacy message. All storage is inline so that a
// Message can live on the stack or in a static and be recompiled in place.
// A compiled Message must not be copied: its instructions index into it.
type Message struct {
	Header          MessageHeader
	RecentBlockhash Hash

	keys  [MaxAccounts]Pubkey
	nkeys int

	ixs  [MaxInstructions]CompiledInstruction
	nixs int

	indexPool [PacketDataSize]uint8

	// generation changes every time the message is recompiled.
	generation uint64
}

type accountEntry struct {
	pubkey   Pubkey
	signer   bool
	writable bool
}

// accountTable keeps accounts in first-seen order. Lookups are linear; the
// table never holds more than MaxAccounts entries.
type accountTable struct {
	entries [MaxAccounts]accountEntry
	n       int
}

func (t *accountTable) touch(pk Pubkey, signer, writable bool) error {
	for i := 0; i < t.n; i++ {
		e := &t.entries[i]
		if e.pubkey == pk {
			e.signer = e.signer || signer
			e.writable = e.writable || writable
			return nil
		}
	}
	if t.n == len(t.entries) {
		return errors.Wrapf(ErrTooManyAccounts, "more than %d distinct accounts", MaxAccounts)
	}
	t.entries[t.n] = accountEntry{pubkey: pk, signer: signer, writable: writable}
	t.n++
	return nil
}

// CompileMessage compiles instructions into a new Message. payer becomes the
// first writable signer.
func CompileMessage(payer Pubkey, instructions []Instruction, recentBlockhash Hash) (*Message, error) {
	m := new(Message)
	if err := m.Compile(payer, instructions, recentBlockhash); err != nil {
		return nil, err
	}
	return m, nil
}

// Compile replaces the contents of m. On error m is left empty.
func (m *Message) Compile(payer Pubkey, instructions []Instruction, recentBlockhash Hash) error {
	m.reset()
	if err := m.compile(payer, instructions, recentBlockhash); err != nil {
		m.reset()
		return err
	}
	return nil
}

func (m *Message) reset() {
	m.generation++
	m.Header = MessageHeader{}
	m.RecentBlockhash = Hash{}
	m.nkeys = 0
	for i := 0; i < m.nixs; i++ {
		m.ixs[i] = CompiledInstruction{}
	}
	m.nixs = 0
}

func (m *Message) compile(payer Pubkey, instructions []Instruction, recentBlockhash Hash) error {
	if len(instructions) == 0 {
		return ErrNoInstructions
	}
	if len(instructions) > MaxInstructions {
		return errors.Wrapf(ErrTransactionTooLarge, "%d instructions, max %d", len(instructions), MaxInstructions)
	}

	var table accountTable
	if err := table.touch(payer, true, true); err != nil {
		return err
	}
	for _, ix := range instructions {
		if err := table.touch(ix.ProgramID, false, false); err != nil {
			return err
		}
		for _, am := range ix.Accounts {
			if err := table.touch(am.Pubkey, am.IsSigner, am.IsWritable); err != nil {
				return err
			}
		}
	}

	// Stable partition: writable signers, readonly signers, writable
	// non-signers, readonly non-signers.
	var counts [4]int
	for bucket := 0; bucket < 4; bucket++ {
		wantSigner := bucket < 2
		wantWritable := bucket%2 == 0
		for i := 0; i < table.n; i++ {
			e := &table.entries[i]
			if e.signer == wantSigner && e.writable == wantWritable {
				m.keys[m.nkeys] = e.pubkey
				m.nkeys++
				counts[bucket]++
			}
		}
	}

	numSigners := counts[0] + counts[1]
	if numSigners > MaxSignatures {
		return errors.Wrapf(ErrTransactionTooLarge, "%d required signatures, max %d", numSigners, MaxSignatures)
	}
	m.Header = MessageHeader{
		NumRequiredSignatures:       uint8(numSigners),
		NumReadonlySignedAccounts:   uint8(counts[1]),
		NumReadonlyUnsignedAccounts: uint8(counts[3]),
	}
	m.RecentBlockhash = recentBlockhash

	pool := 0
	for _, ix := range instructions {
		if pool+len(ix.Accounts) > len(m.indexPool) {
			return errors.Wrap(ErrTransactionTooLarge, "instruction account indices exceed packet size")
		}
		accounts := m.indexPool[pool : pool+len(ix.Accounts) : pool+len(ix.Accounts)]
		for j, am := range ix.Accounts {
			accounts[j] = m.mustIndex(am.Pubkey)
		}
		pool += len(ix.Accounts)

		m.ixs[m.nixs] = CompiledInstruction{
			ProgramIDIndex: m.mustIndex(ix.ProgramID),
			Accounts:       accounts,
			Data:           ix.Data,
		}
		m.nixs++
	}

	if size := m.TransactionSize(); size > PacketDataSize {
		return errors.Wrapf(ErrTransactionTooLarge, "transaction is %d bytes, max %d", size, PacketDataSize)
	}
	return nil
}

// mustIndex panics if pk was not recorded during compilation, which would be
// a bug in compile rather than bad input.
func (m *Message) mustIndex(pk Pubkey) uint8 {
	for i := 0; i < m.nkeys; i++ {
		if m.keys[i] == pk {
			return uint8(i)
		}
	}
	panic("solana: compiled account table is missing " + pk.String())
}

// AccountKeys returns the canonical account table. The slice aliases m.
func (m *Message) AccountKeys() []Pubkey { return m.keys[:m.nkeys] }

// Instructions returns the compiled instructions. The slice aliases m.
func (m *Message) Instructions() []CompiledInstruction { return m.ixs[:m.nixs] }

// Signers returns the accounts whose signatures the message requires, in
// signature order.
func (m *Message) Signers() []Pubkey { return m.keys[:m.Header.NumRequiredSignatures] }

func (m *Message) IsSigner(i int) bool {
	return i >= 0 && i < int(m.Header.NumRequiredSignatures)
}

func (m *Message) IsWritable(i int) bool {
	if i < 0 || i >= m.nkeys {
		return false
	}
	h := m.Header
	if i < int(h.NumRequiredSignatures) {
		return i < int(h.NumRequiredSignatures)-int(h.NumReadonlySignedAccounts)
	}
	return i < m.nkeys-int(h.NumReadonlyUnsignedAccounts)
}
