package xqmg

import (
	"testing"
)

func parseTestMove(t *testing.T, s string) Move {
	t.Helper()
	m, err := ParseMove(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSeeUndefendedCapture(t *testing.T) {
	p := mustParse(t, "4k4/9/9/9/9/4p4/9/9/9/3KR4 w - - 0 1")
	m := parseTestMove(t, "e0e4")
	if !p.SeeGE(m, 0) {
		t.Error("free pawn capture should pass the zero threshold")
	}
	if !p.SeeGE(m, 100) {
		t.Error("free pawn capture is worth the full pawn")
	}
	if p.SeeGE(m, 101) {
		t.Error("free pawn capture cannot beat the pawn's value")
	}
}

func TestSeeDefendedCapture(t *testing.T) {
	// Pawn on e4 backed by the rook on e8: taking it loses the rook.
	p := mustParse(t, "4k4/4r4/9/9/9/4p4/9/9/9/3KR4 w - - 0 1")
	m := parseTestMove(t, "e0e4")
	if p.SeeGE(m, 0) {
		t.Error("rook takes defended pawn should fail the exchange")
	}
	if !p.SeeGE(m, 100-1000) {
		t.Error("losing exchange should still clear a deep negative threshold")
	}
}

func TestSeeCannonScreenDependence(t *testing.T) {
	// The black cannon on e8 defends e4 only through the screen on e6.
	// The first capture removes nothing on the file, so the cannon
	// recaptures over the e6 pawn.
	p := mustParse(t, "4k4/4c4/9/4p4/9/4p4/9/9/9/3KR4 w - - 0 1")
	m := parseTestMove(t, "e0e4")
	if p.SeeGE(m, 0) {
		t.Error("cannon recapture over its screen should make this a losing exchange")
	}
}

func TestSeeFacingKingIsNotAnAttacker(t *testing.T) {
	// The black king far up the open file restricts the red king but
	// cannot recapture; the pawn grab is still free.
	p := mustParse(t, "4k4/9/9/9/9/4p4/9/9/9/3KR4 w - - 0 1")
	m := parseTestMove(t, "e0e4")
	if !p.SeeGE(m, 100) {
		t.Error("facing king counted as an exchange capturer")
	}
}

func TestSeeAdjacentKingDefends(t *testing.T) {
	// A king next to the square recaptures like any palace move, so a
	// rook trading itself for the advisor loses the exchange.
	p := mustParse(t, "4k4/4a4/9/9/9/9/9/9/9/4RK3 w - - 0 1")
	m := parseTestMove(t, "e0e8")
	if p.SeeGE(m, 0) {
		t.Error("king-defended advisor scored as a free capture")
	}
}

func TestSeeQuietMoveThreshold(t *testing.T) {
	p := mustParse(t, StartPos)
	m := parseTestMove(t, "e3e4")
	if !p.SeeGE(m, 0) {
		t.Error("safe quiet move should pass the zero threshold")
	}
	if p.SeeGE(m, 1) {
		t.Error("quiet move gains no material")
	}
}

func TestSeeHangingQuietMove(t *testing.T) {
	// Rook steps onto a square a pawn attacks: loses the rook.
	p := mustParse(t, "4k4/9/9/9/9/3p5/9/9/9/3KR4 w - - 0 1")
	m := parseTestMove(t, "e0e4")
	if p.SeeGE(m, 0) {
		t.Error("moving the rook onto a pawn's attack square loses it")
	}
}
