package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	if got := Location("Not/AZone").String(); got != DefaultTimezone {
		t.Fatalf("expected %s, got %s", DefaultTimezone, got)
	}
}

func TestTomorrowUsesBusinessDate(t *testing.T) {
	// 23:30 UTC on the 10th is already the 11th in Tokyo.
	now := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)

	got := Tomorrow("Asia/Tokyo", now)
	want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	got = Tomorrow("UTC", now)
	want = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Location() != time.UTC || d.Day() != 28 {
		t.Fatalf("unexpected date %s", d)
	}
	if _, err := ParseDate("28/02/2026"); err == nil {
		t.Fatal("expected error for non ISO date")
	}
}
