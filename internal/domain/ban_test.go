package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBanDuration_ExpiresAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		duration BanDuration
		offset   time.Duration
	}{
		{Ban1Day, 24 * time.Hour},
		{Ban7Days, 7 * 24 * time.Hour},
		{Ban30Days, 30 * 24 * time.Hour},
		{Ban1Year, 365 * 24 * time.Hour},
	}

	for _, tc := range cases {
		got, err := tc.duration.ExpiresAt(now)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.duration, err)
		}
		if got == nil {
			t.Fatalf("%s: expected expiry, got nil", tc.duration)
		}
		if want := now.Add(tc.offset); !got.Equal(want) {
			t.Fatalf("%s: expected %v, got %v", tc.duration, want, got)
		}
	}
}

func TestBanDuration_ExpiresAt_Permanent(t *testing.T) {
	got, err := BanPermanent.ExpiresAt(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("permanent ban must have no expiry, got %v", got)
	}
}

func TestBanDuration_ExpiresAt_Invalid(t *testing.T) {
	if _, err := BanDuration("3_hours").ExpiresAt(time.Now()); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}
