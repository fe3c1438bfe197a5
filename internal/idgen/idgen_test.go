package idgen

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestRandom_NewID(t *testing.T) {
	gen := Random()

	seen := make(map[string]struct{}, 50)
	for range 50 {
		id, err := gen.NewID()
		if err != nil {
			t.Fatalf("NewID() unexpected error: %v", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("NewID() = %q is not a UUID: %v", id, err)
		}
		if parsed.Version() != 4 {
			t.Fatalf("UUID version = %d, want 4", parsed.Version())
		}
		if _, ok := seen[id]; ok {
			t.Fatalf("generated duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestTimeOrdered_NewID(t *testing.T) {
	gen := TimeOrdered(1)

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID() unexpected error: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID() unexpected error: %v", err)
	}

	parsed, err := uuid.Parse(first)
	if err != nil {
		t.Fatalf("NewID() = %q is not a UUID: %v", first, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("UUID version = %d, want 7", parsed.Version())
	}
	if first >= second {
		t.Errorf("ids not time ordered: %s then %s", first, second)
	}
}

func TestTimeOrdered_NegativeRetries(t *testing.T) {
	if _, err := TimeOrdered(-3).NewID(); err != nil {
		t.Fatalf("NewID() unexpected error: %v", err)
	}
}

func TestFunc(t *testing.T) {
	gen := Func(func() (string, error) { return "fixed", nil })
	if id, _ := gen.NewID(); id != "fixed" {
		t.Errorf("NewID() = %q, want fixed", id)
	}

	failing := Func(func() (string, error) { return "", errors.New("boom") })
	if _, err := failing.NewID(); err == nil {
		t.Error("expected error from failing generator")
	}
}
