package duty

import (
	"errors"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Status
	}{
		{"", StatusActive},
		{"ACTIVE", StatusActive},
		{"active", StatusActive},
		{" Retired ", StatusRetired},
		{"RETIRED", StatusRetired},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseStatus("SABBATICAL"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidStatus)
	}
}

func TestTruncateToDay(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, time.January, 10, 18, 45, 12, 999, time.FixedZone("EST", -5*3600))
	got := TruncateToDay(in)
	want := time.Date(2024, time.January, 10, 23, 45, 12, 999, time.UTC)
	want = time.Date(want.Year(), want.Month(), want.Day(), 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("truncate = %v, want %v", got, want)
	}
}

func TestDayBefore(t *testing.T) {
	t.Parallel()

	in := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	want := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	if got := DayBefore(in); !got.Equal(want) {
		t.Fatalf("day before = %v, want %v", got, want)
	}
}

func TestNormalizeAssignmentTruncatesStart(t *testing.T) {
	t.Parallel()

	got, err := NormalizeAssignment(Assignment{
		Name:  " Grace ",
		Rank:  " Major ",
		Title: " Commander ",
		Start: time.Date(2024, time.January, 10, 15, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Name != "Grace" || got.Rank != "Major" || got.Title != "Commander" {
		t.Fatalf("trimmed fields = %q/%q/%q", got.Name, got.Rank, got.Title)
	}
	if got.Status != StatusActive {
		t.Fatalf("status = %q, want %q", got.Status, StatusActive)
	}
	want := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	if !got.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", got.Start, want)
	}
}

func TestNormalizeAssignmentLegacyRetiredTitle(t *testing.T) {
	t.Parallel()

	got, err := NormalizeAssignment(Assignment{
		Name:  "Grace",
		Rank:  "Colonel",
		Title: "RETIRED",
		Start: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Status != StatusRetired {
		t.Fatalf("status = %q, want %q for RETIRED title", got.Status, StatusRetired)
	}
}

func TestNormalizeAssignmentValidation(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   Assignment
		want error
	}{
		{"empty name", Assignment{Rank: "Major", Title: "Pilot", Start: start}, ErrEmptyPersonName},
		{"empty rank", Assignment{Name: "Grace", Title: "Pilot", Start: start}, ErrEmptyRank},
		{"empty title", Assignment{Name: "Grace", Rank: "Major", Start: start}, ErrEmptyTitle},
		{"missing start", Assignment{Name: "Grace", Rank: "Major", Title: "Pilot"}, ErrMissingStart},
		{"bad status", Assignment{Name: "Grace", Rank: "Major", Title: "Pilot", Start: start, Status: "LEAVE"}, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NormalizeAssignment(tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCareerEndFor(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	if end := CareerEndFor(StatusActive, start); end != nil {
		t.Fatalf("active career end = %v, want nil", end)
	}

	end := CareerEndFor(StatusRetired, start)
	if end == nil {
		t.Fatal("retired career end is nil")
	}
	want := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Fatalf("retired career end = %v, want %v", end, want)
	}
}
