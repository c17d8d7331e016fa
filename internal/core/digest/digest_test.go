package digest

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	safeAddr = common.HexToAddress("0x5afe000000000000000000000000000000000001")
	ownerA   = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	ownerB   = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

func TestDomainTypeHash(t *testing.T) {
	assert.Equal(t,
		common.HexToHash("0x8b73c3c69bb8fe3d512ecc4cf759cc79239f7b179b0ffacaa9a75d522b39400f"),
		domainTypeHash,
	)
}

func TestDomainSeparator(t *testing.T) {
	word := func(b []byte) []byte { return common.LeftPadBytes(b, 32) }
	expected := crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		crypto.Keccak256([]byte("EtherFiSafe")),
		crypto.Keccak256([]byte("1")),
		word([]byte{0x01}),
		word(safeAddr.Bytes()),
	)
	assert.Equal(t, expected, DomainSeparator(1, safeAddr))
	assert.NotEqual(t, DomainSeparator(1, safeAddr), DomainSeparator(10, safeAddr))
	assert.NotEqual(t, DomainSeparator(1, safeAddr), DomainSeparator(1, ownerA))
}

func TestBuild(t *testing.T) {
	args := NewEncoder().Uint64(2).Hash()

	t.Run("matches manual construction", func(t *testing.T) {
		word := func(b []byte) []byte { return common.LeftPadBytes(b, 32) }
		structHash := crypto.Keccak256(
			crypto.Keccak256([]byte("SetThreshold")),
			word([]byte{0x01}),
			word(safeAddr.Bytes()),
			word([]byte{0x07}),
			args.Bytes(),
		)
		expected := crypto.Keccak256Hash(DomainSeparator(1, safeAddr).Bytes(), structHash)
		assert.Equal(t, expected, Build(1, safeAddr, SetThreshold, 7, args))
	})

	t.Run("nonce changes digest", func(t *testing.T) {
		assert.NotEqual(t, Build(1, safeAddr, SetThreshold, 0, args), Build(1, safeAddr, SetThreshold, 1, args))
	})

	t.Run("tags are distinct per method", func(t *testing.T) {
		seen := make(map[common.Hash]Method)
		for _, m := range Methods {
			d := Build(1, safeAddr, m, 0, args)
			prev, dup := seen[d]
			require.False(t, dup, "%s collides with %s", m, prev)
			seen[d] = m
		}
		assert.Len(t, seen, 15)
	})
}

func TestEncoder(t *testing.T) {
	t.Run("address array hashes element words", func(t *testing.T) {
		hA := crypto.Keccak256(common.LeftPadBytes(ownerA.Bytes(), 32))
		hB := crypto.Keccak256(common.LeftPadBytes(ownerB.Bytes(), 32))
		expected := crypto.Keccak256(hA, hB)

		enc := NewEncoder().AddressArray([]common.Address{ownerA, ownerB})
		assert.Equal(t, expected, enc.Bytes())
	})

	t.Run("array order matters", func(t *testing.T) {
		ab := NewEncoder().AddressArray([]common.Address{ownerA, ownerB}).Hash()
		ba := NewEncoder().AddressArray([]common.Address{ownerB, ownerA}).Hash()
		assert.NotEqual(t, ab, ba)
	})

	t.Run("negative int64 is sign extended", func(t *testing.T) {
		b := NewEncoder().Int64(-1).Bytes()
		require.Len(t, b, 32)
		for _, x := range b {
			assert.Equal(t, byte(0xff), x)
		}
	})

	t.Run("bool words", func(t *testing.T) {
		assert.Equal(t, common.LeftPadBytes([]byte{1}, 32), NewEncoder().Bool(true).Bytes())
		assert.Equal(t, make([]byte, 32), NewEncoder().Bool(false).Bytes())
	})

	t.Run("bytes array hashes raw bytes", func(t *testing.T) {
		data := [][]byte{{0x01, 0x02}, {}}
		expected := crypto.Keccak256(crypto.Keccak256([]byte{0x01, 0x02}), crypto.Keccak256([]byte{}))
		assert.Equal(t, expected, NewEncoder().BytesArray(data).Bytes())
	})
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in       string
		expected Method
	}{
		{"ConfigureOwners", ConfigureOwners},
		{"configureOwners", ConfigureOwners},
		{"configure-owners", ConfigureOwners},
		{"cancel_nonce", CancelNonce},
		{"toggle-recovery-enabled", ToggleRecoveryEnabled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}

	_, err := ParseMethod("selfDestruct")
	assert.ErrorIs(t, err, domain.ErrUnknownMethod)
}

func TestKebab(t *testing.T) {
	assert.Equal(t, "configure-owners", ConfigureOwners.Kebab())
	assert.Equal(t, "set-user-recovery-signers", SetUserRecoverySigners.Kebab())
	for _, m := range Methods {
		parsed, err := ParseMethod(m.Kebab())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}
