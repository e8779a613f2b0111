package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSecondaryNumbers_Cells(t *testing.T) {
	html := `<table>
<tr><td>1,234</td><td> 56,789 </td><td>0</td><td>10,000,000</td></tr>
<tr><td>12.5</td><td>1,2a</td><td>9,999,999</td></tr>
</table>`

	got := SecondaryNumbers(NewPage(html), 3)
	want := []int64{1234, 56789, 9999999}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SecondaryNumbers() mismatch (-want +got):\n%s", diff)
	}
}

func TestSecondaryNumbers_BroadFallbackReplaces(t *testing.T) {
	html := `<table><tr><td>100</td></tr></table>` +
		`<div><span>2,000</span><span>3,500</span><b>7</b></div>`

	got := SecondaryNumbers(NewPage(html), 12)
	want := []int64{100, 2000, 3500}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SecondaryNumbers() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVoteNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1", 1, true},
		{"12,345", 12345, true},
		{"0", 0, false},
		{",,", 0, false},
		{"10,000,000", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseVoteNumber(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseVoteNumber(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
