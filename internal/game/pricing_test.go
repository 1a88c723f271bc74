package game

import "testing"

const (
	testBase = uint64(10_000_000)
	testInc  = uint64(1_000_000)
)

func TestPriceAtLinearGrowth(t *testing.T) {
	for _, idx := range []uint64{0, 1, 99, 100, 9_999, 1_000_000} {
		p0, err := PriceAt(idx, testBase, testInc)
		if err != nil {
			t.Fatalf("price at %d: %v", idx, err)
		}
		p1, err := PriceAt(idx+1, testBase, testInc)
		if err != nil {
			t.Fatalf("price at %d: %v", idx+1, err)
		}
		if p1-p0 != testInc {
			t.Fatalf("expected increment %d between keys %d and %d, got %d", testInc, idx, idx+1, p1-p0)
		}
	}
}

func TestPriceAtSupply100(t *testing.T) {
	p, err := PriceAt(100, testBase, testInc)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if p != 110_000_000 {
		t.Fatalf("expected 110000000, got %d", p)
	}
}

func TestCumulativeCostMatchesProgramExamples(t *testing.T) {
	cases := []struct {
		start, count, want uint64
	}{
		{0, 1, 10_000_000},
		{1, 1, 11_000_000},
		{0, 10, 145_000_000},
		{100, 5, 560_000_000},
		{1000, 1, 1_010_000_000},
		{0, 1000, 10_000_000_000 + 499_500_000_000},
	}
	for _, tc := range cases {
		got, err := CumulativeCost(tc.start, tc.count, testBase, testInc)
		if err != nil {
			t.Fatalf("cost(%d,%d): %v", tc.start, tc.count, err)
		}
		if got != tc.want {
			t.Fatalf("cost(%d,%d): expected %d, got %d", tc.start, tc.count, tc.want, got)
		}
	}
}

func TestCumulativeCostMatchesBruteForce(t *testing.T) {
	for _, tc := range []struct{ start, count uint64 }{
		{0, 1}, {0, 17}, {10, 5}, {100, 100}, {9_999, 3}, {0, 10_000},
	} {
		var naive uint64
		for i := uint64(0); i < tc.count; i++ {
			p, err := PriceAt(tc.start+i, testBase, testInc)
			if err != nil {
				t.Fatalf("price: %v", err)
			}
			naive += p
		}
		closed, err := CumulativeCost(tc.start, tc.count, testBase, testInc)
		if err != nil {
			t.Fatalf("cost(%d,%d): %v", tc.start, tc.count, err)
		}
		if closed != naive {
			t.Fatalf("cost(%d,%d): closed form %d != naive %d", tc.start, tc.count, closed, naive)
		}
	}
}

func TestCumulativeCostRejectsBadCounts(t *testing.T) {
	if _, err := CumulativeCost(0, 0, testBase, testInc); err != ErrInvalidAmount {
		t.Fatalf("expected invalid_amount for zero keys, got %v", err)
	}
	if _, err := CumulativeCost(0, MaxKeysPerBuy+1, testBase, testInc); err != ErrInvalidAmount {
		t.Fatalf("expected invalid_amount above max batch, got %v", err)
	}
}

func TestCumulativeCostOverflow(t *testing.T) {
	if _, err := CumulativeCost(^uint64(0), 10_000, ^uint64(0), ^uint64(0)); err != ErrOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestCumulativeCostZeroIncrementFlatPrice(t *testing.T) {
	got, err := CumulativeCost(100, 5, testBase, 0)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if got != 50_000_000 {
		t.Fatalf("expected flat 50000000, got %d", got)
	}
}

func TestBpsSplit(t *testing.T) {
	cases := []struct{ amount, bps, want uint64 }{
		{1_000_000_000, 4800, 480_000_000},
		{1_000_000_000, 4500, 450_000_000},
		{1_000_000_000, 700, 70_000_000},
		{0, 4800, 0},
		{1_000_000_000, 0, 0},
		{1_000_000_000, 10_000, 1_000_000_000},
		{100, 4500, 45},
		{99, 4800, 47},
	}
	for _, tc := range cases {
		got, err := BpsSplit(tc.amount, tc.bps)
		if err != nil {
			t.Fatalf("split(%d,%d): %v", tc.amount, tc.bps, err)
		}
		if got != tc.want {
			t.Fatalf("split(%d,%d): expected %d, got %d", tc.amount, tc.bps, tc.want, got)
		}
	}
}

func TestValidateBpsSum(t *testing.T) {
	if err := ValidateBpsSum(4800, 4500, 700); err != nil {
		t.Fatalf("default split should validate: %v", err)
	}
	if err := ValidateBpsSum(4800, 4500, 600); err == nil {
		t.Fatal("expected fault for sum below 10000")
	}
	if err := ValidateBpsSum(5000, 4500, 700); err == nil {
		t.Fatal("expected fault for sum above 10000")
	}
}

func TestTimerExtensionMonotonicAndCapped(t *testing.T) {
	if got := TimerExtension(1000, 30, 1020, 0, 86_400); got != 1030 {
		t.Fatalf("expected 1030, got %d", got)
	}
	// Timer never decreases.
	if got := TimerExtension(500, 30, 1000, 0, 86_400); got != 1000 {
		t.Fatalf("expected 1000, got %d", got)
	}
	// Capped at roundStart + max.
	if got := TimerExtension(86_390, 30, 86_400, 0, 86_400); got != 86_400 {
		t.Fatalf("expected cap 86400, got %d", got)
	}
	if got := TimerExtension(1_086_370, 30, 1_086_300, 1_000_000, 86_400); got != 1_086_400 {
		t.Fatalf("expected 1086400, got %d", got)
	}
}
