package xqmg

import "testing"

func TestMoveRoundTrip(t *testing.T) {
	for from := Square(0); from < SquareNB; from++ {
		for _, to := range []Square{0, 44, 89} {
			if from == to {
				continue
			}
			m := NewMove(from, to)
			if m.From() != from || m.To() != to {
				t.Fatalf("NewMove(%v,%v) decoded as %v %v", from, to, m.From(), m.To())
			}
			parsed, err := ParseMove(m.String())
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", m.String(), err)
			}
			if parsed != m {
				t.Fatalf("ParseMove(%q) = %v, want %v", m.String(), parsed, m)
			}
		}
	}
}

func TestMoveNoneString(t *testing.T) {
	if MoveNone.String() != "0000" {
		t.Errorf("MoveNone = %q, want 0000", MoveNone.String())
	}
}

func TestParseMoveErrors(t *testing.T) {
	for _, s := range []string{"", "e0", "e0e", "j0a0", "a0j0", "aXa1", "e0e10", "0000"} {
		if _, err := ParseMove(s); err == nil {
			t.Errorf("ParseMove(%q): want error", s)
		}
	}
}
