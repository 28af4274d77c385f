package util

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"5m", 5 * time.Minute, false},
		{"1h", time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"1w", 7 * 24 * time.Hour, false},
		{"1h30m", 90 * time.Minute, false},
		{"10ms", 10 * time.Millisecond, false},
		{"", 0, true},
		{"x", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMustParseDuration_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid duration")
		}
	}()
	MustParseDuration("bogus")
}

func TestFormatOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{250 * time.Millisecond, "250ms"},
		{12500 * time.Millisecond, "12.5s"},
		{90 * time.Second, "1m30s"},
		{3723 * time.Second, "1h02m03s"},
		{-30 * time.Second, "-30s"},
	}
	for _, tt := range tests {
		if got := FormatOffset(tt.d); got != tt.want {
			t.Errorf("FormatOffset(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	t.Parallel()

	if got := FormatSpeed(1.0); got != "1x" {
		t.Errorf("FormatSpeed(1.0) = %q", got)
	}
	if got := FormatSpeed(2.5); got != "2.5x" {
		t.Errorf("FormatSpeed(2.5) = %q", got)
	}
	if got := FormatSpeed(-1.0); got != "-1x" {
		t.Errorf("FormatSpeed(-1.0) = %q", got)
	}
}
