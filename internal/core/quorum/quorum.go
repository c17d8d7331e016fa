package quorum

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/samber/lo"
)

// Kind selects which error family an authority reports
type Kind int

const (
	Owners Kind = iota
	Admins
	Recovery
)

func (k Kind) String() string {
	switch k {
	case Owners:
		return "owners"
	case Admins:
		return "admins"
	case Recovery:
		return "recovery"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Authority is a signer set together with the number of valid signatures it requires
type Authority struct {
	Kind      Kind
	Members   []common.Address
	Threshold int
}

// Contains reports whether addr is a member
func (a Authority) Contains(addr common.Address) bool {
	return lo.Contains(a.Members, addr)
}

func (a Authority) errInsufficient() error {
	if a.Kind == Recovery {
		return domain.ErrInsufficientRecoverySignatures
	}
	return domain.ErrInsufficientSigners
}

func (a Authority) errNotMember() error {
	if a.Kind == Recovery {
		return domain.ErrInvalidRecoverySigner
	}
	return domain.ErrInvalidSigner
}

func (a Authority) errQuorum() error {
	if a.Kind == Recovery {
		return domain.ErrInvalidRecoverySignatures
	}
	return domain.ErrInvalidSignatures
}

// Verifier validates a single signature
type Verifier interface {
	Verify(ctx context.Context, digest common.Hash, signer common.Address, sig []byte) error
}

// Engine decides whether a (signers, signatures) pair satisfies an authority
type Engine struct {
	verifier Verifier
}

// NewEngine creates a quorum engine backed by verifier
func NewEngine(verifier Verifier) *Engine {
	return &Engine{verifier: verifier}
}

// Check validates shape, rejects duplicates, then walks the signers in order.
// It returns true as soon as Threshold signatures verify; entries after that
// are not inspected. A signer outside the authority fails immediately with its
// index, while a bad signature only stops counting toward the threshold.
func (e *Engine) Check(ctx context.Context, digest common.Hash, signers []common.Address, signatures [][]byte, auth Authority) (bool, error) {
	ok, _, err := e.check(ctx, digest, signers, signatures, auth)
	return ok, err
}

// Require is Check with an unmet quorum reported as a domain.QuorumError.
func (e *Engine) Require(ctx context.Context, digest common.Hash, signers []common.Address, signatures [][]byte, auth Authority) error {
	ok, res, err := e.check(ctx, digest, signers, signatures, auth)
	if err != nil {
		return err
	}
	if !ok {
		return domain.QuorumError{
			Kind:      auth.errQuorum(),
			Valid:     res.valid,
			Threshold: auth.Threshold,
			Failures:  res.failures,
		}
	}
	return nil
}

type result struct {
	valid    int
	failures []domain.SignatureFailure
}

func (e *Engine) check(ctx context.Context, digest common.Hash, signers []common.Address, signatures [][]byte, auth Authority) (bool, result, error) {
	var res result

	if auth.Threshold < 1 {
		return false, res, fmt.Errorf("%w: %s threshold is %d", domain.ErrInvalidThreshold, auth.Kind, auth.Threshold)
	}
	if len(signers) == 0 {
		return false, res, domain.ErrEmptySigners
	}
	if len(signers) != len(signatures) {
		return false, res, domain.ErrArrayLengthMismatch
	}
	if len(signers) < auth.Threshold {
		return false, res, auth.errInsufficient()
	}
	if i, dup := FirstDuplicate(signers); dup {
		return false, res, domain.AtIndex(domain.ErrDuplicateElementFound, i)
	}

	for i, signer := range signers {
		if !auth.Contains(signer) {
			return false, res, domain.AtIndex(auth.errNotMember(), i)
		}
		if err := e.verifier.Verify(ctx, digest, signer, signatures[i]); err != nil {
			res.failures = append(res.failures, domain.SignatureFailure{Index: i, Err: err})
			continue
		}
		res.valid++
		if res.valid >= auth.Threshold {
			return true, res, nil
		}
	}
	return false, res, nil
}

// FirstDuplicate returns the index of the first element that repeats an
// earlier one. The pairwise scan is fine for signer-sized lists.
func FirstDuplicate(addrs []common.Address) (int, bool) {
	for j := 1; j < len(addrs); j++ {
		for i := 0; i < j; i++ {
			if addrs[i] == addrs[j] {
				return j, true
			}
		}
	}
	return 0, false
}
