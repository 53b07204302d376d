package catalog

import "testing"

func TestParseUnitKind(t *testing.T) {
	u, err := ParseUnitKind("piece")
	if err != nil || u != UnitPiece {
		t.Errorf("piece: u=%v err=%v", u, err)
	}
	u, err = ParseUnitKind("area")
	if err != nil || u != UnitArea {
		t.Errorf("area: u=%v err=%v", u, err)
	}
	if _, err := ParseUnitKind("hours"); err == nil {
		t.Error("неизвестная единица должна давать ошибку")
	}
}

func TestUnitKindLabel(t *testing.T) {
	if UnitPiece.Label() != "шт" {
		t.Errorf("Label(piece) = %q", UnitPiece.Label())
	}
	if UnitArea.Label() != "м²" {
		t.Errorf("Label(area) = %q", UnitArea.Label())
	}
}

func TestIntegerQuantity(t *testing.T) {
	if !UnitPiece.IntegerQuantity() {
		t.Error("штучные работы считаются целыми")
	}
	if UnitArea.IntegerQuantity() {
		t.Error("площадь может быть дробной")
	}
}

func TestNormalizeCode(t *testing.T) {
	cases := map[string]string{
		"Sofa":        "sofa",
		"  SOFA_BIG ": "sofa_big",
		"sofa big":    "sofa_big",
		"chair":       "chair",
	}
	for in, want := range cases {
		if got := NormalizeCode(in); got != want {
			t.Errorf("NormalizeCode(%q) = %q, ожидалось %q", in, got, want)
		}
	}
}
