package concurrency

import (
	"runtime"
	"testing"
)

func TestRingBuffer_FullCycle(t *testing.T) {
	r := NewRingBuffer[int](16)
	for i := 0; i < 16; i++ {
		if !r.Enqueue(i) {
			t.Fatalf("Enqueue failed at %d", i)
		}
	}
	if !r.IsFull() {
		t.Error("Expected buffer full")
	}
	for i := 0; i < 16; i++ {
		val, ok := r.Dequeue()
		if !ok || val != i {
			t.Fatalf("Expected %d, got %d (ok=%v)", i, val, ok)
		}
	}
	if !r.IsEmpty() {
		t.Error("Expected buffer empty after full cycle")
	}
}

func TestRingBuffer_SPSC(t *testing.T) {
	r := NewRingBuffer[int](64)
	const items = 10000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < items; i++ {
			for !r.Enqueue(i) {
				runtime.Gosched()
			}
		}
	}()
	for i := 0; i < items; i++ {
		for {
			val, ok := r.Dequeue()
			if ok {
				if val != i {
					t.Errorf("Expected %d, got %d", i, val)
				}
				break
			}
			runtime.Gosched()
		}
	}
	<-done
}

func TestRingBuffer_PowerOfTwoPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for non power-of-two size")
		}
	}()
	NewRingBuffer[int](10)
}
