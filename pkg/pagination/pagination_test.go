package pagination

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultLimit},
		{in: -5, want: DefaultLimit},
		{in: 10, want: 10},
		{in: MaxLimit, want: MaxLimit},
		{in: MaxLimit + 1, want: MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}

	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer(10) = %d, want 11", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	want := Cursor{
		CreatedAt: time.Date(2026, 8, 29, 12, 30, 45, 123456789, time.UTC),
		ID:        uuid.New(),
	}
	token := EncodeCursor(want)
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("cursor token must be URL safe, got %q", token)
	}

	got, err := ParseCursor(token)
	if err != nil {
		t.Fatalf("ParseCursor error = %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   "} {
		cursor, err := ParseCursor(raw)
		if err != nil || cursor != nil {
			t.Fatalf("ParseCursor(%q) = %+v, %v; want nil, nil", raw, cursor, err)
		}
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"%%%", "bm90LWEtY3Vyc29y", "MjAyNnxub3QtYW4taWQ"} {
		if _, err := ParseCursor(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
