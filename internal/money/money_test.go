package money

import "testing"

func TestChanged(t *testing.T) {
	cases := []struct {
		name     string
		old, new float64
		want     bool
	}{
		{"identical", 100, 100, false},
		{"within noise", 100, 100.005, false},
		{"exactly noise", 100, 100.01, false},
		{"above noise", 100, 100.02, true},
		{"float artifact", 0.3, 0.1 + 0.2, false},
		{"decrease", 500, 450, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Changed(tc.old, tc.new); got != tc.want {
				t.Errorf("Changed(%v, %v) = %v, want %v", tc.old, tc.new, got, tc.want)
			}
		})
	}
}

func TestDelta(t *testing.T) {
	if got := Delta(3000, 4500); got != 1500 {
		t.Errorf("Delta(3000, 4500) = %v, want 1500", got)
	}
	if got := Delta(4500, 3000); got != -1500 {
		t.Errorf("Delta(4500, 3000) = %v, want -1500", got)
	}
	// 0.1 + 0.2 must not produce a garbage delta against 0.3.
	if got := Delta(0.3, 0.1+0.2); got != 0 {
		t.Errorf("Delta(0.3, 0.1+0.2) = %v, want 0", got)
	}
}

func TestAddAndRound(t *testing.T) {
	if got := Add(0.1, 0.2); got != 0.3 {
		t.Errorf("Add(0.1, 0.2) = %v, want 0.3", got)
	}
	if got := Round2(66.666666); got != 66.67 {
		t.Errorf("Round2(66.666666) = %v, want 66.67", got)
	}
}
