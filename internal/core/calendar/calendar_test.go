package calendar

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	tests := []struct {
		name string
		in   string
		loc  *time.Location
		want string
		ok   bool
	}{
		{name: "date", in: "2024-03-01", want: "2024-03-01", ok: true},
		{name: "padded", in: "  2024-03-01 ", want: "2024-03-01", ok: true},
		{name: "rfc3339 moved into zone", in: "2024-02-29T20:00:00Z", loc: tokyo, want: "2024-03-01", ok: true},
		{name: "naive timestamp", in: "2024-03-01 23:59:59", want: "2024-03-01", ok: true},
		{name: "empty", in: "", ok: false},
		{name: "garbage", in: "next tuesday", ok: false},
		{name: "impossible date", in: "2024-02-30", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDay(tt.in, tt.loc)
			if ok != tt.ok {
				t.Fatalf("ParseDay(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && Format(got) != tt.want {
				t.Fatalf("ParseDay(%q) = %s, want %s", tt.in, Format(got), tt.want)
			}
			if ok && got.Location() != time.UTC {
				t.Fatalf("ParseDay(%q) location = %v, want UTC", tt.in, got.Location())
			}
		})
	}
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 18, 0, 5, 0, 0, time.UTC)

	if got := DaysBetween(from, to); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(to, from); got != -3 {
		t.Fatalf("DaysBetween reversed = %d, want -3", got)
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	from := time.Date(2024, time.March, 9, 12, 0, 0, 0, ny)
	to := time.Date(2024, time.March, 11, 12, 0, 0, 0, ny)

	if got := DaysBetween(from, to); got != 2 {
		t.Fatalf("DaysBetween across DST = %d, want 2", got)
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

	if n, ok := DaysUntil("2024-01-10", today); !ok || n != -5 {
		t.Fatalf("DaysUntil past = %d, %v", n, ok)
	}
	if n, ok := DaysUntil("2024-01-15", today); !ok || n != 0 {
		t.Fatalf("DaysUntil today = %d, %v", n, ok)
	}
	if _, ok := DaysUntil("", today); ok {
		t.Fatalf("empty date must be absent")
	}
}

func TestStartOfMonth(t *testing.T) {
	today := time.Date(2024, time.February, 29, 18, 0, 0, 0, time.UTC)
	if got := Format(StartOfMonth(today)); got != "2024-02-01" {
		t.Fatalf("StartOfMonth = %s", got)
	}
}
