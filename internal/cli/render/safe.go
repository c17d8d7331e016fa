package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/etherfi-protocol/cash-safe/internal/domain/models"
	"github.com/etherfi-protocol/cash-safe/internal/usecase"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Color styles shared by the safe renderers
var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	labelStyle         = color.New(color.FgCyan)
	addressStyle       = color.New(color.FgWhite)
	pendingStyle       = color.New(color.FgYellow)
	enabledStyle       = color.New(color.FgGreen)
	disabledStyle      = color.New(color.FgRed)
	timestampStyle     = color.New(color.Faint)
)

var printer = message.NewPrinter(language.English)

// USD formats base units with thousands separators, e.g. "$12,500.00"
func USD(v uint64) string {
	s := models.FormatUSD(v)
	whole, frac, _ := strings.Cut(s, ".")
	n, _ := strconv.ParseUint(whole, 10, 64)
	return printer.Sprintf("$%d.%s", n, frac)
}

// SafeRenderer renders safe state
type SafeRenderer struct {
	out   io.Writer
	color bool
}

// NewSafeRenderer creates a new safe renderer
func NewSafeRenderer(out io.Writer, color bool) *SafeRenderer {
	return &SafeRenderer{
		out:   out,
		color: color,
	}
}

func (r *SafeRenderer) paint(c *color.Color, s string) string {
	if !r.color {
		return s
	}
	return c.Sprint(s)
}

func (r *SafeRenderer) section(title string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.paint(sectionHeaderStyle, title))
}

func (r *SafeRenderer) field(label string, value any) {
	fmt.Fprintf(r.out, "  %s %v\n", r.paint(labelStyle, fmt.Sprintf("%-22s", label+":")), value)
}

func (r *SafeRenderer) addresses(label string, addrs []common.Address) {
	if len(addrs) == 0 {
		r.field(label, "-")
		return
	}
	r.field(label, r.paint(addressStyle, addrs[0].Hex()))
	for _, a := range addrs[1:] {
		fmt.Fprintf(r.out, "  %-23s %s\n", "", r.paint(addressStyle, a.Hex()))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// RenderSafe renders the materialized view of one safe
func (r *SafeRenderer) RenderSafe(view *usecase.SafeView) error {
	acct := view.Safe

	fmt.Fprintf(r.out, "Safe %s\n", r.paint(color.New(color.Bold), acct.Address.Hex()))
	r.field("Chain ID", acct.ChainID)
	r.field("Nonce", acct.Nonce)
	r.field("As of", r.paint(timestampStyle, formatTime(view.AsOf)))

	r.section("Owners")
	r.field("Threshold", fmt.Sprintf("%d of %d", acct.Threshold, len(acct.Owners)))
	r.addresses("Owners", acct.Owners)
	r.addresses("Admins", acct.Admins)

	r.section("Modules")
	r.addresses("Enabled", view.EnabledModules)
	if disabled := lo.Without(acct.Modules, view.EnabledModules...); len(disabled) > 0 {
		r.addresses("Not allow-listed", disabled)
	}

	r.section("Recovery")
	if acct.Recovery.Enabled {
		r.field("Status", r.paint(enabledStyle, "enabled"))
	} else {
		r.field("Status", r.paint(disabledStyle, "disabled"))
	}
	r.field("Threshold", fmt.Sprintf("%d of %d", acct.Recovery.Threshold, len(view.RecoverySigners)))
	r.addresses("Signers", view.RecoverySigners)
	if acct.Recovery.IsPending() {
		r.field("Pending owner", r.paint(pendingStyle, acct.Recovery.PendingOwner.Hex()))
		r.field("Activates", r.paint(pendingStyle, formatTime(acct.Recovery.PendingActivationTime)))
	}

	r.section("Cash")
	r.renderCash(acct.Cash, view.MaxCanSpend)
	return nil
}

func (r *SafeRenderer) renderCash(cash models.CashState, maxCanSpend uint64) {
	mode := cases.Title(language.English).String(string(cash.Mode))
	if !cash.IncomingCreditModeStartTime.IsZero() {
		mode += r.paint(pendingStyle, " (credit from "+formatTime(cash.IncomingCreditModeStartTime)+")")
	}
	r.field("Mode", mode)

	l := cash.SpendingLimit
	r.field("Daily", fmt.Sprintf("%s of %s spent", USD(l.SpentToday), USD(l.DailyLimit)))
	r.field("Monthly", fmt.Sprintf("%s of %s spent", USD(l.SpentThisMonth), USD(l.MonthlyLimit)))
	if l.HasIncomingDailyLimit() {
		r.field("Incoming daily", r.paint(pendingStyle, fmt.Sprintf("%s at %s", USD(l.NewDailyLimit), formatTime(l.DailyLimitChangeActivationTime))))
	}
	if l.HasIncomingMonthlyLimit() {
		r.field("Incoming monthly", r.paint(pendingStyle, fmt.Sprintf("%s at %s", USD(l.NewMonthlyLimit), formatTime(l.MonthlyLimitChangeActivationTime))))
	}
	r.field("Max can spend", USD(maxCanSpend))
	r.field("Daily renewal", formatTime(l.DailyRenewalTimestamp))
	r.field("Monthly renewal", formatTime(l.MonthlyRenewalTimestamp))

	if w := cash.PendingWithdrawal; w != nil {
		r.field("Pending withdrawal", fmt.Sprintf("%d token(s) to %s at %s", len(w.Tokens), w.Recipient.Hex(), formatTime(w.FinalizeTime)))
	}
}

// RenderSafeList renders all safes as a table
func (r *SafeRenderer) RenderSafeList(safes []*models.SafeAccount) error {
	if len(safes) == 0 {
		fmt.Fprintln(r.out, "No safes found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"ADDRESS", "CHAIN", "OWNERS", "NONCE", "MODE", "RECOVERY"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
	})

	for _, acct := range safes {
		recovery := "disabled"
		switch {
		case acct.Recovery.IsPending():
			recovery = r.paint(pendingStyle, "pending")
		case acct.Recovery.Enabled:
			recovery = "enabled"
		}
		t.AppendRow(table.Row{
			acct.Address.Hex(),
			acct.ChainID,
			fmt.Sprintf("%d/%d", acct.Threshold, len(acct.Owners)),
			acct.Nonce,
			string(acct.Cash.Mode),
			recovery,
		})
	}
	t.Render()
	return nil
}

// RenderSpending renders a can-spend report
func (r *SafeRenderer) RenderSpending(report *usecase.SpendingReport) error {
	if report.Amount > 0 {
		if report.CanSpend {
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s can be spent", USD(report.Amount))))
		} else {
			fmt.Fprintln(r.out, FormatError(report.Reason))
		}
	}
	l := report.SpendingLimit
	r.field("Max can spend", USD(report.MaxCanSpend))
	r.field("Daily", fmt.Sprintf("%s of %s spent", USD(l.SpentToday), USD(l.DailyLimit)))
	r.field("Monthly", fmt.Sprintf("%s of %s spent", USD(l.SpentThisMonth), USD(l.MonthlyLimit)))
	return nil
}
