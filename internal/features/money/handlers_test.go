package money

import (
	"testing"
	"time"
)

func TestSplitCallback(t *testing.T) {
	cases := []struct {
		data   string
		prefix string
		arg    string
		ok     bool
	}{
		{"madv:42", cbAdvWorker, "42", true},
		{"mpen:7", cbPenWorker, "7", true},
		{"mdaw:7", cbDelAdvWorker, "7", true},
		{"mda:3", cbDelAdv, "3", true},
		{"mday:3", cbDelAdvYes, "3", true},
		{"mdpw:9", cbDelPenWorker, "9", true},
		{"mdp:1", cbDelPen, "1", true},
		{"mdpy:1", cbDelPenYes, "1", true},
		{"mcancel", cbCancel, "", true},
		{"wdate:1", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		prefix, arg, ok := splitCallback(c.data)
		if prefix != c.prefix || arg != c.arg || ok != c.ok {
			t.Errorf("splitCallback(%q) = (%q, %q, %v), ожидалось (%q, %q, %v)",
				c.data, prefix, arg, ok, c.prefix, c.arg, c.ok)
		}
	}
}

func TestBusinessDate(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	// 31 июля 21:30 UTC — в Москве уже 1 августа
	instant := time.Date(2025, time.July, 31, 21, 30, 0, 0, time.UTC)

	got := businessDate(instant, msk)
	if got.Year() != 2025 || got.Month() != time.August || got.Day() != 1 {
		t.Errorf("запись на границе суток должна попасть на 1 августа, получено %v", got)
	}

	// Тот же момент в UTC остаётся 31 июля
	got = businessDate(instant, time.UTC)
	if got.Day() != 31 || got.Month() != time.July {
		t.Errorf("businessDate в UTC = %v, ожидалось 31 июля", got)
	}
}
