package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxPostLength is the Twitter post limit in characters.
const maxPostLength = 280

// formatNotice renders a notice as a short plain-text message.
func formatNotice(n Notice) string {
	var b strings.Builder
	b.WriteString("🚤 高配当アラート\n\n")
	fmt.Fprintf(&b, "📍 %s %dR\n", n.VenueName, n.Race)
	fmt.Fprintf(&b, "🎯 1号艇 複勝 %s倍\n", n.Odds)
	if n.CutoffTime != "" {
		fmt.Fprintf(&b, "⏰ 締切 %s\n", n.CutoffTime)
	}
	b.WriteString("\n#ボートレース #競艇")

	msg := b.String()
	if utf8.RuneCountInString(msg) > maxPostLength {
		runes := []rune(msg)
		msg = string(runes[:maxPostLength-3]) + "..."
	}
	return msg
}

// formatDigest renders several notices as one message body.
func formatDigest(notices []Notice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "1号艇 高配当 %d件\n\n", len(notices))
	for _, n := range notices {
		fmt.Fprintf(&b, "%s(%s) %dR  %s倍", n.VenueName, n.Venue, n.Race, n.Odds)
		if n.CutoffTime != "" {
			fmt.Fprintf(&b, "  締切 %s", n.CutoffTime)
		}
		b.WriteString("\n")
	}
	return b.String()
}
