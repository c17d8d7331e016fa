package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	EventOwnersConfigured              EventType = "OwnersConfigured"
	EventAdminsConfigured              EventType = "AdminsConfigured"
	EventThresholdSet                  EventType = "ThresholdSet"
	EventModulesConfigured             EventType = "ModulesConfigured"
	EventNonceCancelled                EventType = "NonceCancelled"
	EventRecoveryInitiated             EventType = "RecoveryInitiated"
	EventRecoveryFinalized             EventType = "RecoveryFinalized"
	EventRecoveryCancelled             EventType = "RecoveryCancelled"
	EventUserRecoverySignersConfigured EventType = "UserRecoverySignersConfigured"
	EventRecoverySignersOverridden     EventType = "RecoverySignersOverridden"
	EventRecoveryThresholdSet          EventType = "RecoveryThresholdSet"
	EventRecoveryToggled               EventType = "RecoveryToggled"
	EventModeSet                       EventType = "ModeSet"
	EventSpendingLimitChanged          EventType = "SpendingLimitChanged"
	EventWithdrawalRequested           EventType = "WithdrawalRequested"
	EventWithdrawalCancelled           EventType = "WithdrawalCancelled"
	EventWithdrawalProcessed           EventType = "WithdrawalProcessed"
	EventSpend                         EventType = "Spend"
	EventSafeCreated                   EventType = "SafeCreated"
)

// Event is a state change emitted by a committed safe operation
type Event struct {
	Type   EventType         `json:"type"`
	Safe   common.Address    `json:"safe"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewEvent creates an event from alternating key/value pairs.
func NewEvent(t EventType, safe common.Address, kv ...string) Event {
	e := Event{Type: t, Safe: safe}
	if len(kv) > 0 {
		e.Fields = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			e.Fields[kv[i]] = kv[i+1]
		}
	}
	return e
}

func (e Event) String() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: safe=%s", e.Type, e.Safe.Hex())
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + e.Fields[k]
	}
	return fmt.Sprintf("%s: safe=%s, %s", e.Type, e.Safe.Hex(), strings.Join(parts, ", "))
}

// JoinAddresses formats an address list for event fields
func JoinAddresses(addrs []common.Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.Hex()
	}
	return strings.Join(parts, ",")
}
