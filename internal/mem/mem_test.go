package mem

import "testing"

func TestReserveAndRelease(t *testing.T) {
	a, err := Reserve(1 << 20, false)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if a.Size() != 1<<20 || len(a.Bytes()) != 1<<20 {
		t.Fatalf("size: %d", a.Size())
	}
	// The whole region must be writable and retain data.
	b := a.Bytes()
	b[0], b[len(b)-1] = 0xAB, 0xCD
	if b[0] != 0xAB || b[len(b)-1] != 0xCD {
		t.Error("region not writable end to end")
	}
	if err := a.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestReserveHugepagesFallsBack(t *testing.T) {
	// Hugepages are a hint: reservation must succeed either way.
	a, err := Reserve(1<<21, true)
	if err != nil {
		t.Fatalf("Reserve with hugepage hint: %v", err)
	}
	defer a.Release() //nolint:errcheck
	if a.Size() != 1<<21 {
		t.Fatalf("size: %d", a.Size())
	}
}

func TestReserveInvalidSize(t *testing.T) {
	if _, err := Reserve(0, false); err == nil {
		t.Error("zero size must fail")
	}
	if _, err := Reserve(-1, false); err == nil {
		t.Error("negative size must fail")
	}
}
