package safe

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/samber/lo"
)

// applyMembership adds or removes each address in order. Adding a member or
// removing a non-member is a no-op.
func applyMembership(set []common.Address, addrs []common.Address, add []bool) []common.Address {
	out := append([]common.Address(nil), set...)
	for i, a := range addrs {
		if add[i] {
			if !lo.Contains(out, a) {
				out = append(out, a)
			}
			continue
		}
		out = lo.Without(out, a)
	}
	return out
}

func formatFlags(flags []bool) string {
	return fmt.Sprint(flags)
}

func configureOwners(acct *models.SafeAccount, o ConfigureOwners) ([]domain.Event, error) {
	owners := applyMembership(acct.Owners, o.Owners, o.ShouldAdd)
	if len(owners) == 0 {
		return nil, domain.ErrAllOwnersRemoved
	}
	if o.Threshold == 0 {
		return nil, domain.ErrInvalidThreshold
	}
	if len(owners) < int(o.Threshold) {
		return nil, fmt.Errorf("%w: %d owners, threshold %d", domain.ErrOwnersLessThanThreshold, len(owners), o.Threshold)
	}
	acct.Owners = owners
	acct.Threshold = o.Threshold

	return []domain.Event{domain.NewEvent(domain.EventOwnersConfigured, acct.Address,
		"owners", domain.JoinAddresses(o.Owners),
		"shouldAdd", formatFlags(o.ShouldAdd),
		"threshold", strconv.Itoa(int(o.Threshold)),
	)}, nil
}

func configureAdmins(acct *models.SafeAccount, o ConfigureAdmins) []domain.Event {
	acct.Admins = applyMembership(acct.Admins, o.Accounts, o.ShouldAdd)
	return []domain.Event{domain.NewEvent(domain.EventAdminsConfigured, acct.Address,
		"accounts", domain.JoinAddresses(o.Accounts),
		"shouldAdd", formatFlags(o.ShouldAdd),
	)}
}

func setThreshold(acct *models.SafeAccount, o SetThreshold) ([]domain.Event, error) {
	if int(o.Threshold) > len(acct.Owners) {
		return nil, fmt.Errorf("%w: %d owners, threshold %d", domain.ErrInvalidThreshold, len(acct.Owners), o.Threshold)
	}
	old := acct.Threshold
	acct.Threshold = o.Threshold
	return []domain.Event{domain.NewEvent(domain.EventThresholdSet, acct.Address,
		"oldThreshold", strconv.Itoa(int(old)),
		"newThreshold", strconv.Itoa(int(o.Threshold)),
	)}, nil
}
