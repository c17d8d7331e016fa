package interactive

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSafeNonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	ctx := context.Background()
	one := &models.SafeAccount{Address: common.HexToAddress("0x01")}
	two := &models.SafeAccount{Address: common.HexToAddress("0x02")}

	got, err := s.SelectSafe(ctx, []*models.SafeAccount{one}, "pick")
	require.NoError(t, err)
	assert.Same(t, one, got)

	_, err = s.SelectSafe(ctx, []*models.SafeAccount{one, two}, "pick")
	assert.ErrorContains(t, err, "non-interactive")

	_, err = s.SelectSafe(ctx, nil, "pick")
	assert.Error(t, err)

	ok, err := s.Confirm(ctx, "proceed")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSafeSearcher(t *testing.T) {
	safes := []*models.SafeAccount{
		{Address: common.HexToAddress("0xAbC0000000000000000000000000000000000001"), Owners: make([]common.Address, 3), Threshold: 2},
		{Address: common.HexToAddress("0xdef0000000000000000000000000000000000002"), Owners: make([]common.Address, 1), Threshold: 1, Nonce: 7},
	}
	labels := []string{safeLabel(safes[0]), safeLabel(safes[1])}
	assert.Equal(t, "0xabc0000000000000000000000000000000000001 2-of-3 nonce 0", labels[0])

	search := safeSearcher(labels)
	assert.True(t, search("", 0))
	assert.True(t, search("ABC", 0))
	assert.False(t, search("abc", 1))
	assert.True(t, search("d2", 1))
	assert.True(t, search("nonce 7", 1))
	assert.False(t, search("nonce 7", 0))
}
