package digest

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	domainTypeHash = crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	domainName     = crypto.Keccak256Hash([]byte("EtherFiSafe"))
	domainVersion  = crypto.Keccak256Hash([]byte("1"))
)

// DomainSeparator binds signed payloads to one safe on one chain.
func DomainSeparator(chainID uint64, safe common.Address) common.Hash {
	enc := NewEncoder().
		Word(domainTypeHash).
		Word(domainName).
		Word(domainVersion).
		Uint64(chainID).
		Address(safe)
	return enc.Hash()
}

// StructHash is Hash(MethodTag || ChainId || SafeAddress || Nonce || argsHash).
func StructHash(m Method, chainID uint64, safe common.Address, nonce uint64, argsHash common.Hash) common.Hash {
	enc := NewEncoder().
		Word(m.Tag()).
		Uint64(chainID).
		Address(safe).
		Uint64(nonce).
		Word(argsHash)
	return enc.Hash()
}

// Build computes the digest signers sign for operation m at the given nonce:
// Hash(DomainSeparator || StructHash).
func Build(chainID uint64, safe common.Address, m Method, nonce uint64, argsHash common.Hash) common.Hash {
	sep := DomainSeparator(chainID, safe)
	return crypto.Keccak256Hash(sep.Bytes(), StructHash(m, chainID, safe, nonce, argsHash).Bytes())
}

// Encoder concatenates 32-byte words. Arrays contribute a single word: the hash of
// the concatenated per-element hashes.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) word(w [32]byte) *Encoder {
	e.buf = append(e.buf, w[:]...)
	return e
}

// Word appends h verbatim.
func (e *Encoder) Word(h common.Hash) *Encoder {
	return e.word(h)
}

// Address appends a left-padded to 32 bytes.
func (e *Encoder) Address(a common.Address) *Encoder {
	return e.word(common.BytesToHash(a.Bytes()))
}

// Uint64 appends v as a big-endian uint256.
func (e *Encoder) Uint64(v uint64) *Encoder {
	var w [32]byte
	binary.BigEndian.PutUint64(w[24:], v)
	return e.word(w)
}

// Int64 encodes v as a sign-extended two's complement int256
func (e *Encoder) Int64(v int64) *Encoder {
	var w [32]byte
	if v < 0 {
		for i := range w {
			w[i] = 0xff
		}
	}
	binary.BigEndian.PutUint64(w[24:], uint64(v))
	return e.word(w)
}

// Bool appends 1 or 0.
func (e *Encoder) Bool(b bool) *Encoder {
	var v uint64
	if b {
		v = 1
	}
	return e.Uint64(v)
}

// AddressArray appends the hash of the encoded addresses.
func (e *Encoder) AddressArray(as []common.Address) *Encoder {
	hashes := make([][]byte, len(as))
	for i, a := range as {
		hashes[i] = NewEncoder().Address(a).Hash().Bytes()
	}
	return e.word(crypto.Keccak256Hash(hashes...))
}

// BoolArray appends the hash of the encoded flags.
func (e *Encoder) BoolArray(bs []bool) *Encoder {
	hashes := make([][]byte, len(bs))
	for i, b := range bs {
		hashes[i] = NewEncoder().Bool(b).Hash().Bytes()
	}
	return e.word(crypto.Keccak256Hash(hashes...))
}

// Uint64Array appends the hash of the encoded values.
func (e *Encoder) Uint64Array(vs []uint64) *Encoder {
	hashes := make([][]byte, len(vs))
	for i, v := range vs {
		hashes[i] = NewEncoder().Uint64(v).Hash().Bytes()
	}
	return e.word(crypto.Keccak256Hash(hashes...))
}

// BytesArray hashes each element's raw bytes
func (e *Encoder) BytesArray(bs [][]byte) *Encoder {
	hashes := make([][]byte, len(bs))
	for i, b := range bs {
		hashes[i] = crypto.Keccak256(b)
	}
	return e.word(crypto.Keccak256Hash(hashes...))
}

// Bytes returns the encoded words
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Hash returns keccak256 of the encoded words
func (e *Encoder) Hash() common.Hash {
	return crypto.Keccak256Hash(e.buf)
}
