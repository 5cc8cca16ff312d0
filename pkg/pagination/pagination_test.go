package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) || out.ID != in.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestDecodeEmptyYieldsZero(t *testing.T) {
	c, err := Decode("")
	if err != nil {
		t.Fatalf("decode empty: %v", err)
	}
	if !c.CreatedAt.IsZero() || c.ID != uuid.Nil {
		t.Fatalf("expected zero cursor, got %+v", c)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode("not-base64!!"); err == nil {
		t.Fatal("expected error for malformed cursor")
	}
}

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default, got %d", got)
	}
	if got := NormalizeLimit(10_000); got != MaxLimit {
		t.Fatalf("expected max, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}
