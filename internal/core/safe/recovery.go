package safe

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/core/quorum"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
)

func (c *Core) recoverSafe(ctx context.Context, acct *models.SafeAccount, o RecoverSafe, d common.Hash, proof Proof, now time.Time) ([]domain.Event, error) {
	r := &acct.Recovery
	if !r.Enabled {
		return nil, domain.ErrRecoveryDisabled
	}
	if r.DigestUsed(d) {
		return nil, domain.ErrRecoveryDigestUsed
	}
	if err := c.engine.Require(ctx, d, proof.Signers, proof.raw(), c.authority(acct, quorum.Recovery)); err != nil {
		return nil, err
	}

	var events []domain.Event
	if r.IsPending() {
		events = append(events, domain.NewEvent(domain.EventRecoveryCancelled, acct.Address,
			"pendingOwner", r.PendingOwner.Hex()))
	}

	r.PendingOwner = o.NewOwner
	r.PendingActivationTime = now.Add(c.delays.RecoveryDelayPeriod())
	r.UsedDigests = append(r.UsedDigests, d)

	return append(events, domain.NewEvent(domain.EventRecoveryInitiated, acct.Address,
		"newOwner", o.NewOwner.Hex(),
		"activationTime", r.PendingActivationTime.UTC().Format(time.RFC3339),
	)), nil
}

func cancelRecovery(acct *models.SafeAccount) []domain.Event {
	r := &acct.Recovery
	if !r.IsPending() {
		return nil
	}
	owner := r.PendingOwner
	r.ClearPending()
	return []domain.Event{domain.NewEvent(domain.EventRecoveryCancelled, acct.Address, "pendingOwner", owner.Hex())}
}

// checkRecoveryThreshold enforces threshold <= |effective signers|
func checkRecoveryThreshold(r models.RecoveryConfig) error {
	if n := len(r.Signers()); int(r.Threshold) > n {
		return fmt.Errorf("%w: %d signers, threshold %d", domain.ErrRecoverySignersLengthLessThanThreshold, n, r.Threshold)
	}
	return nil
}

func setUserRecoverySigners(acct *models.SafeAccount, o SetUserRecoverySigners) ([]domain.Event, error) {
	r := acct.Recovery
	r.UserSigners = applyMembership(r.UserSigners, o.Signers, o.ShouldAdd)
	if err := checkRecoveryThreshold(r); err != nil {
		return nil, err
	}
	acct.Recovery = r
	return []domain.Event{domain.NewEvent(domain.EventUserRecoverySignersConfigured, acct.Address,
		"signers", domain.JoinAddresses(o.Signers),
		"shouldAdd", formatFlags(o.ShouldAdd),
	)}, nil
}

func overrideRecoverySigners(acct *models.SafeAccount, o OverrideRecoverySigners) ([]domain.Event, error) {
	r := acct.Recovery
	r.OverrideSigners = append([]common.Address(nil), o.Signers...)
	if err := checkRecoveryThreshold(r); err != nil {
		return nil, err
	}
	acct.Recovery = r
	return []domain.Event{domain.NewEvent(domain.EventRecoverySignersOverridden, acct.Address,
		"signers", domain.JoinAddresses(o.Signers),
	)}, nil
}

func setRecoveryThreshold(acct *models.SafeAccount, o SetRecoveryThreshold) ([]domain.Event, error) {
	r := acct.Recovery
	r.Threshold = o.Threshold
	if err := checkRecoveryThreshold(r); err != nil {
		return nil, err
	}
	old := acct.Recovery.Threshold
	acct.Recovery = r
	return []domain.Event{domain.NewEvent(domain.EventRecoveryThresholdSet, acct.Address,
		"oldThreshold", strconv.Itoa(int(old)),
		"newThreshold", strconv.Itoa(int(o.Threshold)),
	)}, nil
}

// toggleRecoveryEnabled flips recovery. Enabling requires a signer set able
// to reach the threshold. Disabling also drops a pending ownership transfer so
// it cannot finalize while recovery is off.
func toggleRecoveryEnabled(acct *models.SafeAccount, o ToggleRecoveryEnabled) ([]domain.Event, error) {
	r := &acct.Recovery
	if r.Enabled == o.Enabled {
		return nil, fmt.Errorf("%w: recovery enabled is already %t", domain.ErrInvalidInput, o.Enabled)
	}
	if o.Enabled {
		if r.Threshold == 0 {
			return nil, fmt.Errorf("%w: recovery threshold is 0", domain.ErrInvalidThreshold)
		}
		if len(r.Signers()) == 0 {
			return nil, fmt.Errorf("%w: no recovery signers", domain.ErrRecoverySignersLengthLessThanThreshold)
		}
		if err := checkRecoveryThreshold(*r); err != nil {
			return nil, err
		}
	}
	var events []domain.Event
	if !o.Enabled {
		events = cancelRecovery(acct)
	}
	r.Enabled = o.Enabled
	return append(events, domain.NewEvent(domain.EventRecoveryToggled, acct.Address,
		"enabled", strconv.FormatBool(o.Enabled),
	)), nil
}
