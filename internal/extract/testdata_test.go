package extract

import (
	"fmt"
	"strings"
)

// oddsPage renders a win/place odds table with one oddsPoint cell per range
// followed by the two vote cells of that row.
func oddsPage(ranges []string, votes []string, extra string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString(extra)
	b.WriteString("<table><tbody>")
	for i, r := range ranges {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, `<td class="is-fs14 oddsPoint">%s</td>`, r)
		if i*2+1 < len(votes) {
			fmt.Fprintf(&b, "<td>%s</td><td>%s</td>", votes[i*2], votes[i*2+1])
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

var sixRanges = []string{"1.0-1.4", "2.1-3.0", "4.5-6.2", "10.0-15.5", "0.0-0.0", "20.3-28.9"}
