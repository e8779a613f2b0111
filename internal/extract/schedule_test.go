package extract

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/boatrace-odds/internal/race"
)

const schedulePage = `<html><body><table><tbody>
<tr><td class="is-fs14 is-fBold"><a href="/owpc/pc/race/racelist?rno=1">1R</a></td><td>08:47</td><td>予選</td></tr>
<tr><td class="is-fs14"><a href="/owpc/pc/race/racelist?rno=2">2R</a></td><td>09:15</td></tr>
<tr><td class="is-fs14"><a href="#">3R</a></td><td>25:00</td></tr>
<tr><td class="is-fs14"><a href="#">4R</a></td><td>10:75</td></tr>
<tr><td class="is-fs14"><a href="#">XR</a></td><td>11:00</td></tr>
<tr><td class="is-fs14"><a href="#">2R</a></td><td>12:00</td></tr>
<tr><td class="is-fs14"><a href="#">12R</a></td><td>16:30</td></tr>
</tbody></table></body></html>`

func TestSchedule_AnchorsOnRequestedDate(t *testing.T) {
	date, err := race.ParseDate("20260301")
	if err != nil {
		t.Fatal(err)
	}

	result := Default().Schedule(schedulePage, date)
	if !result.Available {
		t.Fatalf("Available = false, reason %q", result.Reason)
	}

	want := []race.ScheduleEntry{
		{RaceIndex: 1, CutoffTime: "08:47", CutoffInstant: time.Date(2026, 3, 1, 8, 47, 0, 0, race.Location)},
		{RaceIndex: 2, CutoffTime: "09:15", CutoffInstant: time.Date(2026, 3, 1, 9, 15, 0, 0, race.Location)},
		{RaceIndex: 12, CutoffTime: "16:30", CutoffInstant: time.Date(2026, 3, 1, 16, 30, 0, 0, race.Location)},
	}
	if diff := cmp.Diff(want, result.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestSchedule_Unavailable(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, race.Location)

	tests := []struct {
		name string
		text string
		want Reason
	}{
		{"dark venue", `<p>開催なし</p>` + schedulePage, ReasonNotHeld},
		{"no racing today", `<p>本日の開催はございません</p>`, ReasonNotHeld},
		{"no rows", `<table><tr><td>1R</td><td>08:47</td></tr></table>`, ReasonNoData},
		{"empty", "", ReasonNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Default().Schedule(tt.text, date)
			if result.Available {
				t.Fatalf("Available = true, entries %v", result.Entries)
			}
			if result.Reason != tt.want {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.want)
			}
			if result.Entries != nil {
				t.Errorf("Entries = %v, want nil", result.Entries)
			}
		})
	}
}
