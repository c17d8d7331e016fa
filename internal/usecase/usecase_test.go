package usecase_test

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/etherfi-protocol/cash-safe/internal/adapters/clock"
	"github.com/etherfi-protocol/cash-safe/internal/adapters/signer"
	"github.com/etherfi-protocol/cash-safe/internal/core/cash"
	"github.com/etherfi-protocol/cash-safe/internal/core/quorum"
	"github.com/etherfi-protocol/cash-safe/internal/core/safe"
	"github.com/etherfi-protocol/cash-safe/internal/core/signature"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSafeStore is a mock implementation of SafeStore
type MockSafeStore struct {
	mock.Mock
}

func (m *MockSafeStore) GetSafe(ctx context.Context, addr common.Address) (*models.SafeAccount, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SafeAccount), args.Error(1)
}

func (m *MockSafeStore) ListSafes(ctx context.Context) ([]*models.SafeAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SafeAccount), args.Error(1)
}

func (m *MockSafeStore) CreateSafe(ctx context.Context, acct *models.SafeAccount) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

func (m *MockSafeStore) SaveSafe(ctx context.Context, acct *models.SafeAccount) error {
	args := m.Called(ctx, acct)
	return args.Error(0)
}

// memoryStore is a SafeStore keeping copies in memory
type memoryStore struct {
	mu    sync.Mutex
	safes map[common.Address]*models.SafeAccount
}

func newMemoryStore() *memoryStore {
	return &memoryStore{safes: make(map[common.Address]*models.SafeAccount)}
}

func (s *memoryStore) GetSafe(_ context.Context, addr common.Address) (*models.SafeAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.safes[addr]
	if !ok {
		return nil, domain.ErrSafeNotFound
	}
	return acct.Clone(), nil
}

func (s *memoryStore) ListSafes(context.Context) ([]*models.SafeAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.SafeAccount
	for _, acct := range s.safes {
		out = append(out, acct.Clone())
	}
	return out, nil
}

func (s *memoryStore) CreateSafe(ctx context.Context, acct *models.SafeAccount) error {
	s.mu.Lock()
	_, exists := s.safes[acct.Address]
	s.mu.Unlock()
	if exists {
		return domain.ErrSafeAlreadyExists
	}
	return s.SaveSafe(ctx, acct)
}

func (s *memoryStore) SaveSafe(_ context.Context, acct *models.SafeAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.safes[acct.Address] = acct.Clone()
	return nil
}

type allowAll struct{}

func (allowAll) IsWhitelistedModule(context.Context, common.Address) (bool, error) { return true, nil }

var start = time.Date(2024, time.August, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	cfg    *config.RuntimeConfig
	core   *safe.Core
	clock  *clock.FakeClock
	locks  *usecase.SafeLocks
	log    *slog.Logger
	keys   []*ecdsa.PrivateKey
	owners []common.Address
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := &config.RuntimeConfig{
		ChainID: 1,
		Modules: config.ModulesConfig{CashModule: common.HexToAddress("0xca5e")},
		Recovery: config.RecoveryConfig{
			Delay:           time.Hour,
			PlatformSigners: []common.Address{common.HexToAddress("0x0e01")},
			Threshold:       1,
		},
		Cash: config.CashConfig{
			ModeDelay:           time.Hour,
			WithdrawalDelay:     time.Hour,
			LimitDelay:          time.Hour,
			DefaultDailyLimit:   1_000e6,
			DefaultMonthlyLimit: 5_000e6,
		},
	}
	e := &env{
		cfg:   cfg,
		clock: clock.NewFakeClock(start),
		locks: usecase.NewSafeLocks(),
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e.core = safe.NewCore(quorum.NewEngine(signature.NewVerifier(nil)), allowAll{}, cfg.Recovery, safe.Settings{
		PrimaryModule: cfg.Modules.CashModule,
		CashDelays:    cash.Delays{Mode: cfg.Cash.ModeDelay, Withdrawal: cfg.Cash.WithdrawalDelay, Limit: cfg.Cash.LimitDelay},
	})
	for i := 0; i < 3; i++ {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		e.keys = append(e.keys, key)
		e.owners = append(e.owners, crypto.PubkeyToAddress(key.PublicKey))
	}
	return e
}

func (e *env) newSafe(t *testing.T, store usecase.SafeStore, salt byte) *models.SafeAccount {
	t.Helper()
	res, err := usecase.NewCreateSafe(store, e.locks, e.core, e.clock, e.cfg, e.log).Run(context.Background(), usecase.CreateSafeParams{
		Salt:      common.Hash{salt},
		Owners:    e.owners,
		Threshold: 2,
	})
	require.NoError(t, err)
	return res.Safe
}

func (e *env) prove(t *testing.T, acct *models.SafeAccount, op safe.Operation, idx ...int) safe.Proof {
	t.Helper()
	d := e.core.Digest(acct, op)
	var p safe.Proof
	for _, i := range idx {
		sig, err := crypto.Sign(d.Bytes(), e.keys[i])
		require.NoError(t, err)
		p.Signers = append(p.Signers, e.owners[i])
		p.Signatures = append(p.Signatures, sig)
	}
	return p
}

func TestCreateSafe(t *testing.T) {
	e := newEnv(t)
	store := newMemoryStore()

	acct := e.newSafe(t, store, 1)
	assert.Equal(t, usecase.DeriveSafeAddress(1, e.owners, 2, common.Hash{1}), acct.Address)
	assert.Equal(t, uint64(1_000e6), acct.Cash.SpendingLimit.DailyLimit)
	assert.Equal(t, e.cfg.Recovery.PlatformSigners, acct.Recovery.PlatformSigners)
	assert.True(t, acct.Recovery.Enabled)

	_, err := usecase.NewCreateSafe(store, e.locks, e.core, e.clock, e.cfg, e.log).Run(context.Background(), usecase.CreateSafeParams{
		Salt:      common.Hash{1},
		Owners:    e.owners,
		Threshold: 2,
	})
	assert.ErrorIs(t, err, domain.ErrSafeAlreadyExists)

	other := e.newSafe(t, store, 2)
	assert.NotEqual(t, acct.Address, other.Address)
}

func TestExecuteOperation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	acct := e.newSafe(t, newMemoryStore(), 1)

	t.Run("commits and advances nonce", func(t *testing.T) {
		store := new(MockSafeStore)
		store.On("GetSafe", ctx, acct.Address).Return(acct.Clone(), nil)
		store.On("SaveSafe", ctx, mock.MatchedBy(func(a *models.SafeAccount) bool {
			return a.Nonce == 1 && a.Threshold == 3
		})).Return(nil)

		op := safe.SetThreshold{Threshold: 3}
		uc := usecase.NewExecuteOperation(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
		res, err := uc.Run(ctx, usecase.ExecuteOperationParams{
			Safe:      acct.Address,
			Operation: op,
			Proof:     e.prove(t, acct, op, 0, 1),
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(0), res.Nonce)
		assert.Equal(t, e.core.Digest(acct, op), res.Digest)
		require.Len(t, res.Events, 1)
		assert.Equal(t, domain.EventThresholdSet, res.Events[0].Type)
		store.AssertExpectations(t)
	})

	t.Run("rejected operation is not saved", func(t *testing.T) {
		store := new(MockSafeStore)
		store.On("GetSafe", ctx, acct.Address).Return(acct.Clone(), nil)

		op := safe.SetThreshold{Threshold: 3}
		uc := usecase.NewExecuteOperation(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
		_, err := uc.Run(ctx, usecase.ExecuteOperationParams{
			Safe:      acct.Address,
			Operation: op,
			Proof:     e.prove(t, acct, op, 0),
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientSigners)
		store.AssertNotCalled(t, "SaveSafe", mock.Anything, mock.Anything)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		store := new(MockSafeStore)
		store.On("GetSafe", ctx, acct.Address).Return(acct.Clone(), nil)
		store.On("SaveSafe", ctx, mock.Anything).Return(errors.New("disk full"))

		op := safe.CancelNonce{}
		uc := usecase.NewExecuteOperation(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
		_, err := uc.Run(ctx, usecase.ExecuteOperationParams{
			Safe:      acct.Address,
			Operation: op,
			Proof:     e.prove(t, acct, op, 0, 2),
		})
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("unknown safe", func(t *testing.T) {
		store := new(MockSafeStore)
		store.On("GetSafe", ctx, mock.Anything).Return(nil, domain.ErrSafeNotFound)

		uc := usecase.NewExecuteOperation(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
		_, err := uc.Run(ctx, usecase.ExecuteOperationParams{Safe: common.HexToAddress("0x01"), Operation: safe.CancelNonce{}})
		assert.ErrorIs(t, err, domain.ErrSafeNotFound)
	})
}

func TestConcurrentSubmissionsCommitOnce(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := newMemoryStore()
	acct := e.newSafe(t, store, 1)
	other := e.newSafe(t, store, 2)

	uc := usecase.NewExecuteOperation(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
	op := safe.CancelNonce{}
	proof := e.prove(t, acct, op, 0, 1)
	otherProof := e.prove(t, other, op, 1, 2)

	var committed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := uc.Run(ctx, usecase.ExecuteOperationParams{Safe: acct.Address, Operation: op, Proof: proof}); err == nil {
				committed.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = uc.Run(ctx, usecase.ExecuteOperationParams{Safe: other.Address, Operation: op, Proof: otherProof})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), committed.Load())
	stored, err := store.GetSafe(ctx, acct.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.Nonce)

	stored, err = store.GetSafe(ctx, other.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.Nonce)
}

func TestRecoveryFinalizesOnRead(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := newMemoryStore()
	acct := e.newSafe(t, store, 1)

	// replace the platform signer with a key this test controls
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	acct.Recovery.PlatformSigners = []common.Address{crypto.PubkeyToAddress(key.PublicKey)}
	require.NoError(t, store.SaveSafe(ctx, acct))

	newOwner := common.HexToAddress("0x000000000000000000000000000000000000beef")
	op := safe.RecoverSafe{NewOwner: newOwner}
	sig, err := crypto.Sign(e.core.Digest(acct, op).Bytes(), key)
	require.NoError(t, err)

	exec := usecase.NewExecuteOperation(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
	_, err = exec.Run(ctx, usecase.ExecuteOperationParams{
		Safe:      acct.Address,
		Operation: op,
		Proof:     safe.Proof{Signers: acct.Recovery.PlatformSigners, Signatures: []hexutil.Bytes{sig}},
	})
	require.NoError(t, err)

	show := usecase.NewShowSafe(store, e.core, e.clock)
	view, err := show.Run(ctx, acct.Address)
	require.NoError(t, err)
	assert.Equal(t, e.owners, view.Safe.Owners)
	assert.Equal(t, newOwner, view.Safe.Recovery.PendingOwner)

	e.clock.Advance(time.Hour)
	view, err = show.Run(ctx, acct.Address)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{newOwner}, view.Safe.Owners)

	// the read did not persist the transition
	stored, err := store.GetSafe(ctx, acct.Address)
	require.NoError(t, err)
	assert.True(t, stored.Recovery.IsPending())
}

func TestSettleAndCheckSpending(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := newMemoryStore()
	acct := e.newSafe(t, store, 1)

	settle := usecase.NewSettleSpend(usecase.NewExecutor(store, e.locks, e.clock, e.log), e.core)
	check := usecase.NewCheckSpending(store, e.clock)

	report, err := check.Run(ctx, acct.Address, 600e6)
	require.NoError(t, err)
	assert.True(t, report.CanSpend)
	assert.Equal(t, uint64(1_000e6), report.MaxCanSpend)

	_, err = settle.Run(ctx, usecase.SpendParams{Safe: acct.Address, TxID: "t1", Amount: 600e6})
	require.NoError(t, err)

	report, err = check.Run(ctx, acct.Address, 600e6)
	require.NoError(t, err)
	assert.False(t, report.CanSpend)
	assert.Equal(t, "Daily available spending limit less than amount requested", report.Reason)
	assert.Equal(t, uint64(400e6), report.MaxCanSpend)

	_, err = settle.Run(ctx, usecase.SpendParams{Safe: acct.Address, TxID: "t1", Amount: 1})
	assert.ErrorIs(t, err, domain.ErrTransactionAlreadyCleared)
}

func TestProcessWithdrawal(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := newMemoryStore()
	acct := e.newSafe(t, store, 1)
	exec := usecase.NewExecutor(store, e.locks, e.clock, e.log)

	op := safe.RequestWithdrawal{
		Tokens:    []common.Address{common.HexToAddress("0x70")},
		Amounts:   []uint64{5},
		Recipient: e.owners[0],
	}
	_, err := usecase.NewExecuteOperation(exec, e.core).Run(ctx, usecase.ExecuteOperationParams{
		Safe: acct.Address, Operation: op, Proof: e.prove(t, acct, op, 1),
	})
	require.NoError(t, err)

	process := usecase.NewProcessWithdrawal(exec, e.core)
	_, err = process.Run(ctx, acct.Address)
	assert.ErrorIs(t, err, domain.ErrCannotProcessWithdrawalYet)

	e.clock.Advance(time.Hour)
	res, err := process.Run(ctx, acct.Address)
	require.NoError(t, err)
	require.NotNil(t, res.Withdrawal)
	assert.Equal(t, e.owners[0], res.Withdrawal.Recipient)
}

func TestSignOperation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	store := newMemoryStore()
	acct := e.newSafe(t, store, 1)

	s, err := signer.NewKeySigner(hex.EncodeToString(crypto.FromECDSA(e.keys[2])))
	require.NoError(t, err)

	op := safe.SetThreshold{Threshold: 1}
	res, err := usecase.NewSignOperation(usecase.NewComputeDigest(store, e.core)).Run(ctx, usecase.SignOperationParams{
		Safe:      acct.Address,
		Operation: op,
		Signer:    s,
	})
	require.NoError(t, err)
	assert.Equal(t, e.owners[2], res.Signer)
	assert.Equal(t, e.core.Digest(acct, op), res.Digest)

	ok := signature.NewVerifier(nil).IsValid(ctx, res.Digest, res.Signer, res.Signature)
	assert.True(t, ok)

	_, err = usecase.NewSignOperation(usecase.NewComputeDigest(store, e.core)).Run(ctx, usecase.SignOperationParams{
		Safe: acct.Address, Operation: op,
	})
	assert.Error(t, err)
}
