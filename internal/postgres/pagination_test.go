package postgres

import (
	"errors"
	"testing"
	"time"
)

func TestCursor_RoundTrip(t *testing.T) {
	in := Cursor{
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ID:        "SA1994182",
	}

	enc, err := EncodeCursor(in)
	if err != nil {
		t.Fatal(err)
	}

	out, err := DecodeCursor(enc)
	if err != nil {
		t.Fatal(err)
	}
	if out == nil || !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeCursor_EmptyIsNil(t *testing.T) {
	c, err := DecodeCursor("")
	if err != nil || c != nil {
		t.Fatalf("empty cursor must decode to nil, got %v, %v", c, err)
	}
}

func TestDecodeCursor_Garbage(t *testing.T) {
	for _, s := range []string{"%%%", "bm90LWpzb24"} {
		if _, err := DecodeCursor(s); !errors.Is(err, ErrInvalidCursor) {
			t.Fatalf("%q: expected ErrInvalidCursor, got %v", s, err)
		}
	}
}
