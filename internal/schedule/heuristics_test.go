package schedule

import "testing"

func TestExtractParenthesized(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9:00 (09:00 AM) - 10:00 (10:00 AM)", "09:00 AM, 10:00 AM"},
		{"no parens", "no parens"},
		{"(only)", "only"},
		{"()", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExtractParenthesized(tt.in); got != tt.want {
			t.Errorf("ExtractParenthesized(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractAreaKeyword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"first in list order wins", "CORPORATE HUB", "CORPORATE"},
		{"list order beats text order", "HUB then CORPORATE", "CORPORATE"},
		{"case insensitive", "Sede la molina", "LA MOLINA"},
		{"kids", "Kids English", "KIDS"},
		{"word boundary", "HUBERT", ""},
		{"none", "Miraflores", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAreaKeyword(tt.in); got != tt.want {
				t.Errorf("ExtractAreaKeyword(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractDurationKeyword(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"thirty", "English 30", "30"},
		{"forty five", "Conversation 45 min", "45"},
		{"sixty billed as thirty", "Business 60", "30"},
		{"sixty needs whole word", "Room 600", "45"},
		{"ceibal", "CEIBAL", "45"},
		{"kids", "KIDS", "45"},
		// The scan always reaches CEIBAL, so unrelated text is billed as 45.
		{"no keyword still 45", "Advanced grammar", "45"},
		{"empty still 45", "", "45"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDurationKeyword(tt.in); got != tt.want {
				t.Errorf("ExtractDurationKeyword(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAmPm(t *testing.T) {
	if got := NormalizeAmPm("09:00 a.m., 01:00 p.m."); got != "09:00 AM, 01:00 PM" {
		t.Errorf("NormalizeAmPm = %q", got)
	}
	if got := NormalizeAmPm("09:00 A.M."); got != "09:00 A.M." {
		t.Errorf("NormalizeAmPm only rewrites lower case markers, got %q", got)
	}
}

func TestClassifyShift(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09:00 AM", ShiftMorning},
		{"09:00 a.m.", ShiftMorning},
		{"1:59 PM", ShiftMorning},
		{"13:30:00", ShiftMorning},
		{"2:00 PM", ShiftAfternoon},
		{"14:00", ShiftAfternoon},
		{"07:15 p.m.", ShiftAfternoon},
		{"garbage", ShiftAfternoon},
		{"", ShiftAfternoon},
		{"25:99", ShiftAfternoon},
	}
	for _, tt := range tests {
		if got := ClassifyShift(tt.in); got != tt.want {
			t.Errorf("ClassifyShift(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
