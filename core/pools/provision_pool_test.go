package pools

import (
	"context"
	"testing"
	"time"
)

type testResource struct {
	resets int
}

func TestProvisionPoolBorrowReleaseReusesValue(t *testing.T) {
	p := NewProvisionPool[testResource](0, func() *testResource { return &testResource{} }, func(r *testResource) { r.resets++ })

	v, err := p.Borrow(context.Background())
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}
	p.Release(v)

	gets, puts, news := p.Stats()
	if gets != 1 || puts != 1 || news != 1 {
		t.Errorf("Stats = gets=%d puts=%d news=%d, want 1,1,1", gets, puts, news)
	}
}

func TestProvisionPoolReleaseCallsResetFunc(t *testing.T) {
	var lastReset *testResource
	p := NewProvisionPool[testResource](0,
		func() *testResource { return &testResource{} },
		func(r *testResource) { r.resets++; lastReset = r })

	v, _ := p.Borrow(context.Background())
	p.Release(v)

	if lastReset != v {
		t.Fatal("resetFunc should run on the borrowed value")
	}
	if v.resets != 1 {
		t.Errorf("resets = %d, want 1", v.resets)
	}
}

func TestProvisionPoolBoundedBorrowParksAtCapacity(t *testing.T) {
	p := NewProvisionPool[testResource](1, func() *testResource { return &testResource{} }, func(*testResource) {})

	first, err := p.Borrow(context.Background())
	if err != nil {
		t.Fatalf("Borrow: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = p.Borrow(ctx)
	if err == nil {
		t.Fatal("second Borrow at capacity should park and time out, not succeed immediately")
	}

	p.Release(first)

	v, err := p.Borrow(context.Background())
	if err != nil {
		t.Fatalf("Borrow after Release: %v", err)
	}
	if v != first {
		t.Error("expected the pooled resource to be reused after Release")
	}
}

func TestProvisionPoolBorrowUnblocksOnRelease(t *testing.T) {
	p := NewProvisionPool[testResource](1, func() *testResource { return &testResource{} }, func(*testResource) {})

	held, _ := p.Borrow(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := p.Borrow(context.Background())
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("second Borrow returned before the first was released")
	case <-time.After(20 * time.Millisecond):
	}

	p.Release(held)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Borrow after Release returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Borrow never unblocked after Release")
	}
}

func TestProvisionPoolUnboundedNeverParks(t *testing.T) {
	p := NewProvisionPool[testResource](0, func() *testResource { return &testResource{} }, func(*testResource) {})

	for i := 0; i < 100; i++ {
		if _, err := p.Borrow(context.Background()); err != nil {
			t.Fatalf("Borrow #%d: %v", i, err)
		}
	}
}

func TestProvisionPoolReleaseOfNilIsNoOp(t *testing.T) {
	p := NewProvisionPool[testResource](1, func() *testResource { return &testResource{} }, func(*testResource) {})
	p.Release(nil) // must not panic or leak a token
}
