package digest

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
)

// Method identifies a signed operation kind. Its keccak256 is the MethodTag.
type Method string

const (
	ConfigureOwners         Method = "ConfigureOwners"
	ConfigureAdmins         Method = "ConfigureAdmins"
	SetThreshold            Method = "SetThreshold"
	ConfigureModules        Method = "ConfigureModules"
	CancelNonce             Method = "CancelNonce"
	RecoverSafe             Method = "RecoverSafe"
	CancelRecovery          Method = "CancelRecovery"
	SetUserRecoverySigners  Method = "SetUserRecoverySigners"
	OverrideRecoverySigners Method = "OverrideRecoverySigners"
	SetRecoveryThreshold    Method = "SetRecoveryThreshold"
	ToggleRecoveryEnabled   Method = "ToggleRecoveryEnabled"
	SetMode                 Method = "SetMode"
	UpdateSpendingLimit     Method = "UpdateSpendingLimit"
	RequestWithdrawal       Method = "RequestWithdrawal"
	CancelWithdrawal        Method = "CancelWithdrawal"
)

// Methods lists every signed operation kind
var Methods = []Method{
	ConfigureOwners,
	ConfigureAdmins,
	SetThreshold,
	ConfigureModules,
	CancelNonce,
	RecoverSafe,
	CancelRecovery,
	SetUserRecoverySigners,
	OverrideRecoverySigners,
	SetRecoveryThreshold,
	ToggleRecoveryEnabled,
	SetMode,
	UpdateSpendingLimit,
	RequestWithdrawal,
	CancelWithdrawal,
}

// Tag returns the fixed per-operation constant mixed into the digest
func (m Method) Tag() common.Hash {
	return crypto.Keccak256Hash([]byte(m))
}

// ParseMethod accepts "ConfigureOwners", "configureOwners" or "configure-owners".
func ParseMethod(s string) (Method, error) {
	norm := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
	for _, m := range Methods {
		if strings.ToLower(string(m)) == norm {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrUnknownMethod, s)
}

// Kebab returns the CLI spelling of the method, e.g. "configure-owners"
func (m Method) Kebab() string {
	var b strings.Builder
	for i, r := range string(m) {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
