package main

import (
	"testing"
	"time"

	"github.com/Dicklesworthstone/tln/internal/timeline"
)

func TestParseInstant(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := timeline.Snapshot{
		Cursor: anchor.Add(30 * time.Second),
		Data:   timeline.RangePair{Start: anchor, End: anchor.Add(10 * time.Minute)},
	}

	cases := []struct {
		name    string
		arg     string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2025-06-01T12:05:00Z", anchor.Add(5 * time.Minute), false},
		{"offset from data start", "90s", anchor.Add(90 * time.Second), false},
		{"day offset", "1d", anchor.Add(24 * time.Hour), false},
		{"step forward", "+30s", anchor.Add(time.Minute), false},
		{"step backward", "-10s", anchor.Add(20 * time.Second), false},
		{"garbage", "bogus", time.Time{}, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseInstant(tc.arg, snap)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseInstant(%q) succeeded, want error", tc.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseInstant(%q): %v", tc.arg, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("parseInstant(%q) = %s, want %s", tc.arg, got, tc.want)
			}
		})
	}
}
