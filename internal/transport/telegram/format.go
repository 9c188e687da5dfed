package telegram

import (
	"fmt"
	"strings"

	channelDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/channel/domain"
	ruleDomain "github.com/reshetovitsme/channel-editor-bot/internal/modules/rule/domain"
)

// FormatRules renders the full rule set for the /filters command: static
// rules first, then user rules, in application order.
func FormatRules(static, user []ruleDomain.Rule) string {
	if len(static) == 0 && len(user) == 0 {
		return "No text filters configured."
	}

	var b strings.Builder
	b.WriteString("📋 Text filters:\n\n")

	if len(static) > 0 {
		b.WriteString("Static filters (from config):\n")
		for i, r := range static {
			fmt.Fprintf(&b, "%d. %s → %s\n", i+1, r.Pattern, r.Replacement)
		}
	}

	if len(user) > 0 {
		if len(static) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("User-defined filters:\n")
		for i, r := range user {
			fmt.Fprintf(&b, "%d. %s → %s\n", i+1, r.Pattern, r.Replacement)
		}
	}

	return b.String()
}

// FormatChannels renders the monitored-channel list in insertion order.
func FormatChannels(channels []channelDomain.Identifier) string {
	if len(channels) == 0 {
		return "No channels are being monitored."
	}

	var b strings.Builder
	b.WriteString("Monitored channels:\n\n")
	for i, ch := range channels {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ch)
	}

	return b.String()
}

// FormatMatchReport renders a dry-run test result for the /testfilter
// command.
func FormatMatchReport(report *ruleDomain.MatchReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pattern: %s\n\nText: %s\n\n", report.Pattern, report.Sample)

	if len(report.Matches) == 0 {
		b.WriteString("No matches found")
		return b.String()
	}

	fmt.Fprintf(&b, "Matches found: %d\n", len(report.Matches))
	for i, m := range report.Matches {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	fmt.Fprintf(&b, "\nWith matches highlighted:\n%s", report.Highlighted)

	return b.String()
}
