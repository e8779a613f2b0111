package race

import (
	"errors"
	"testing"
)

func TestLookupVenue(t *testing.T) {
	tests := []struct {
		code     string
		wantName string
		wantErr  bool
	}{
		{"01", "桐生", false},
		{"12", "住之江", false},
		{"24", "大村", false},
		{"00", "", true},
		{"25", "", true},
		{"1", "", true},
		{"001", "", true},
		{"ab", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v, err := LookupVenue(tt.code)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidVenue) {
					t.Errorf("LookupVenue(%q) error = %v, want ErrInvalidVenue", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LookupVenue(%q) unexpected error: %v", tt.code, err)
			}
			if v.Name != tt.wantName {
				t.Errorf("LookupVenue(%q).Name = %q, want %q", tt.code, v.Name, tt.wantName)
			}
		})
	}
}

func TestVenues_UniqueCodes(t *testing.T) {
	if len(Venues) != 24 {
		t.Fatalf("len(Venues) = %d, want 24", len(Venues))
	}
	seen := make(map[string]bool)
	for _, v := range Venues {
		if seen[v.Code] {
			t.Errorf("duplicate venue code %s", v.Code)
		}
		seen[v.Code] = true
	}
}

func TestParseRace(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"13", 0, true},
		{"x", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRace(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRace(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseRace(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
