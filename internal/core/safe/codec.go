package safe

import (
	"encoding/json"
	"fmt"

	"github.com/etherfi-protocol/cash-safe/internal/core/digest"
	"github.com/etherfi-protocol/cash-safe/internal/domain"
)

// NewOperation returns a zero operation for m
func NewOperation(m digest.Method) (Operation, error) {
	switch m {
	case digest.ConfigureOwners:
		return ConfigureOwners{}, nil
	case digest.ConfigureAdmins:
		return ConfigureAdmins{}, nil
	case digest.SetThreshold:
		return SetThreshold{}, nil
	case digest.ConfigureModules:
		return ConfigureModules{}, nil
	case digest.CancelNonce:
		return CancelNonce{}, nil
	case digest.RecoverSafe:
		return RecoverSafe{}, nil
	case digest.CancelRecovery:
		return CancelRecovery{}, nil
	case digest.SetUserRecoverySigners:
		return SetUserRecoverySigners{}, nil
	case digest.OverrideRecoverySigners:
		return OverrideRecoverySigners{}, nil
	case digest.SetRecoveryThreshold:
		return SetRecoveryThreshold{}, nil
	case digest.ToggleRecoveryEnabled:
		return ToggleRecoveryEnabled{}, nil
	case digest.SetMode:
		return SetMode{}, nil
	case digest.UpdateSpendingLimit:
		return UpdateSpendingLimit{}, nil
	case digest.RequestWithdrawal:
		return RequestWithdrawal{}, nil
	case digest.CancelWithdrawal:
		return CancelWithdrawal{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMethod, m)
	}
}

// DecodeOperation parses the JSON arguments of method m. Empty args are
// accepted for operations without parameters.
func DecodeOperation(m digest.Method, args json.RawMessage) (Operation, error) {
	switch m {
	case digest.ConfigureOwners:
		return decode[ConfigureOwners](args)
	case digest.ConfigureAdmins:
		return decode[ConfigureAdmins](args)
	case digest.SetThreshold:
		return decode[SetThreshold](args)
	case digest.ConfigureModules:
		return decode[ConfigureModules](args)
	case digest.RecoverSafe:
		return decode[RecoverSafe](args)
	case digest.SetUserRecoverySigners:
		return decode[SetUserRecoverySigners](args)
	case digest.OverrideRecoverySigners:
		return decode[OverrideRecoverySigners](args)
	case digest.SetRecoveryThreshold:
		return decode[SetRecoveryThreshold](args)
	case digest.ToggleRecoveryEnabled:
		return decode[ToggleRecoveryEnabled](args)
	case digest.SetMode:
		return decode[SetMode](args)
	case digest.UpdateSpendingLimit:
		return decode[UpdateSpendingLimit](args)
	case digest.RequestWithdrawal:
		return decode[RequestWithdrawal](args)
	default:
		return NewOperation(m)
	}
}

func decode[T Operation](args json.RawMessage) (Operation, error) {
	var op T
	if len(args) == 0 {
		return op, nil
	}
	if err := json.Unmarshal(args, &op); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return op, nil
}
