package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etherfi-protocol/cash-safe/internal/domain/config"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectSafe selects a safe from a list
func (s *SelectorAdapter) SelectSafe(_ context.Context, safes []*models.SafeAccount, prompt string) (*models.SafeAccount, error) {
	if len(safes) == 0 {
		return nil, fmt.Errorf("no safes provided for selection")
	}

	// If only one match, return it directly
	if len(safes) == 1 {
		return safes[0], nil
	}

	// In non-interactive mode, we can't select
	if s.config.NonInteractive {
		return nil, fmt.Errorf("%d safes match; interactive selection not available in non-interactive mode", len(safes))
	}

	labels := make([]string, len(safes))
	for i, acct := range safes {
		labels[i] = safeLabel(acct)
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Type to filter by address, ↑/↓ to move, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             formatSafeOptions(safes),
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          safeSearcher(labels),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return safes[index], nil
}

// Confirm asks a yes/no question. Non-interactive mode answers yes.
func (s *SelectorAdapter) Confirm(_ context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// safeLabel is the uncolored text a search runs against
func safeLabel(acct *models.SafeAccount) string {
	label := fmt.Sprintf("%s %d-of-%d nonce %d", strings.ToLower(acct.Address.Hex()), acct.Threshold, len(acct.Owners), acct.Nonce)
	if acct.Recovery.IsPending() {
		label += " recovery pending"
	}
	return label
}

// formatSafeOptions creates the colored rows shown in the prompt
func formatSafeOptions(safes []*models.SafeAccount) []string {
	addrStyle := color.New(color.FgWhite, color.Bold)
	detailStyle := color.New(color.FgBlue)
	pendingStyle := color.New(color.FgYellow)

	options := make([]string, len(safes))
	for i, acct := range safes {
		row := fmt.Sprintf("%s (%s)", addrStyle.Sprint(acct.Address.Hex()),
			detailStyle.Sprintf("%d-of-%d, nonce %d", acct.Threshold, len(acct.Owners), acct.Nonce))
		if acct.Recovery.IsPending() {
			row += " " + pendingStyle.Sprint("[recovery pending]")
		}
		options[i] = row
	}
	return options
}

// safeSearcher matches the input as a substring first, then as a fuzzy
// subsequence, against the plain labels.
func safeSearcher(labels []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			return true
		}
		if strings.Contains(labels[index], input) {
			return true
		}
		return len(fuzzy.Find(input, labels[index:index+1])) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.SafeSelector = (*SelectorAdapter)(nil)
